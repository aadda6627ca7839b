package model

import "github.com/cfcosta/fictional-octo-dollop/internal/money"

// TxStatus represents the lifecycle state of a registered transaction.
type TxStatus string

const (
	TxOpen        TxStatus = "open"
	TxDisputed    TxStatus = "disputed"
	TxResolved    TxStatus = "resolved"
	TxChargedback TxStatus = "chargedback"
)

// Terminal reports whether no further transition can leave s.
func (s TxStatus) Terminal() bool {
	return s == TxResolved || s == TxChargedback
}

// TransactionRecord is the registry entry for a deposit or withdrawal.
type TransactionRecord struct {
	ID     uint32
	Client uint16 // owner; dispute events must come from the same client
	Kind   Kind   // KindDeposit or KindWithdrawal
	Amount money.Money
	Status TxStatus
}
