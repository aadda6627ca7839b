package model

import (
	"fmt"
	"strings"

	"github.com/cfcosta/fictional-octo-dollop/internal/money"
)

// Kind is the type of an input event.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind maps the type column to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// CarriesAmount reports whether events of this kind have an amount.
func (k Kind) CarriesAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Input is one validated event from the input stream.
type Input struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	Amount *money.Money // nil when the record had no amount
}
