package model

import "github.com/cfcosta/fictional-octo-dollop/internal/money"

// Account is one client's balance sheet.
//
// Total is kept equal to Available + Held by every ledger mutation; it is
// never recomputed from the other two.
type Account struct {
	ID        uint16
	Available money.Money
	Held      money.Money
	Total     money.Money
	Locked    bool
}

// Row returns the output snapshot for the account.
func (a Account) Row() Row {
	return Row{
		Client:    a.ID,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}

// Row is one line of the final account snapshot.
type Row struct {
	Client    uint16
	Available money.Money
	Held      money.Money
	Total     money.Money
	Locked    bool
}
