package accounts

import (
	"fmt"

	"github.com/cfcosta/fictional-octo-dollop/internal/model"
)

// InvariantError describes an account whose balances are inconsistent.
// It always indicates a bug in the ledger, never bad input.
type InvariantError struct {
	Client      uint16
	Description string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated for client %d: %s", e.Client, e.Description)
}

// Verify checks a single row: total == available + held, nothing negative.
func Verify(row model.Row) *InvariantError {
	if row.Available.Decimal().IsNegative() || row.Held.Decimal().IsNegative() || row.Total.Decimal().IsNegative() {
		return &InvariantError{
			Client:      row.Client,
			Description: fmt.Sprintf("negative balance (available %s, held %s, total %s)", row.Available, row.Held, row.Total),
		}
	}
	if sum := row.Available.Add(row.Held); !sum.Equal(row.Total) {
		return &InvariantError{
			Client:      row.Client,
			Description: fmt.Sprintf("available (%s) + held (%s) != total (%s)", row.Available, row.Held, row.Total),
		}
	}
	return nil
}

// Validate checks every row and returns all violations.
func Validate(rows []model.Row) []*InvariantError {
	var errs []*InvariantError
	for _, row := range rows {
		if ierr := Verify(row); ierr != nil {
			errs = append(errs, ierr)
		}
	}
	return errs
}
