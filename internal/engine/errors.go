package engine

import (
	"errors"
	"fmt"

	"github.com/cfcosta/fictional-octo-dollop/internal/money"
)

// ErrInput is wrapped by every error caused by a single bad input. Such
// errors reject that input only; the ledger is unchanged.
var ErrInput = errors.New("input rejected")

// DuplicateTransactionError is returned when a deposit or withdrawal reuses a
// transaction id. Amount is the amount of the rejected input.
type DuplicateTransactionError struct {
	Tx     uint32
	Amount money.Money
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("duplicate transaction: %d %s", e.Tx, e.Amount)
}

func (e *DuplicateTransactionError) Unwrap() error { return ErrInput }

// InsufficientBalanceError is returned when the balance a transition draws
// from is smaller than the amount it needs. Available is that balance:
// available funds for withdrawals and disputes, held funds for resolves and
// chargebacks.
type InsufficientBalanceError struct {
	Tx        uint32
	Expected  money.Money
	Available money.Money
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for transaction %d (needed %s, got %s)", e.Tx, e.Expected, e.Available)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInput }

// LockedAccountError is returned for any input addressed to a locked account.
type LockedAccountError struct {
	Client uint16
	Tx     uint32
}

func (e *LockedAccountError) Error() string {
	return fmt.Sprintf("account %d is locked, transaction %d refused", e.Client, e.Tx)
}

func (e *LockedAccountError) Unwrap() error { return ErrInput }

// InvalidAmountError is returned for a deposit or withdrawal whose amount is
// missing or zero.
type InvalidAmountError struct {
	Tx     uint32
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount for transaction %d: %s", e.Tx, e.Reason)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInput }
