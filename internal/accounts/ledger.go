package accounts

import (
	"errors"
	"fmt"
	"math"

	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/money"
)

// Capacity is the number of addressable client ids.
const Capacity = math.MaxUint16 + 1

// ErrLocked is returned when a mutation targets a locked account.
var ErrLocked = errors.New("account is locked")

// Ledger is the table of client accounts, indexed densely by client id.
//
// Accounts are created lazily on first reference and never removed. Every
// balance change goes through a Ledger method, and each method either
// applies all of its field updates or none of them.
type Ledger struct {
	accounts []model.Account
	seen     []bool
	count    int
}

// NewLedger creates an empty ledger with room for every client id.
func NewLedger() *Ledger {
	return &Ledger{
		accounts: make([]model.Account, Capacity),
		seen:     make([]bool, Capacity),
	}
}

// GetOrCreate returns the account for client, creating a zeroed entry on
// first reference.
func (l *Ledger) GetOrCreate(client uint16) model.Account {
	if !l.seen[client] {
		l.seen[client] = true
		l.accounts[client] = model.Account{ID: client}
		l.count++
	}
	return l.accounts[client]
}

// Get returns the account for client if it has been seen.
func (l *Ledger) Get(client uint16) (model.Account, bool) {
	if !l.seen[client] {
		return model.Account{}, false
	}
	return l.accounts[client], true
}

// IsLocked reports whether client's account is locked. Unseen clients are unlocked.
func (l *Ledger) IsLocked(client uint16) bool {
	return l.seen[client] && l.accounts[client].Locked
}

// Len returns the number of accounts seen so far.
func (l *Ledger) Len() int {
	return l.count
}

// CreditAvailable adds amt to available and total.
func (l *Ledger) CreditAvailable(client uint16, amt money.Money) error {
	a, err := l.mutable(client)
	if err != nil {
		return err
	}
	a.Available = a.Available.Add(amt)
	a.Total = a.Total.Add(amt)
	return nil
}

// DebitAvailable removes amt from available and total.
func (l *Ledger) DebitAvailable(client uint16, amt money.Money) error {
	a, err := l.mutable(client)
	if err != nil {
		return err
	}
	available, err := a.Available.CheckedSub(amt)
	if err != nil {
		return fmt.Errorf("debit available of client %d: %w", client, err)
	}
	total, err := a.Total.CheckedSub(amt)
	if err != nil {
		return fmt.Errorf("debit total of client %d: %w", client, err)
	}
	a.Available, a.Total = available, total
	return nil
}

// MoveAvailableToHeld freezes amt. Total is unchanged.
func (l *Ledger) MoveAvailableToHeld(client uint16, amt money.Money) error {
	a, err := l.mutable(client)
	if err != nil {
		return err
	}
	available, err := a.Available.CheckedSub(amt)
	if err != nil {
		return fmt.Errorf("hold funds of client %d: %w", client, err)
	}
	a.Available, a.Held = available, a.Held.Add(amt)
	return nil
}

// MoveHeldToAvailable releases amt. Total is unchanged.
func (l *Ledger) MoveHeldToAvailable(client uint16, amt money.Money) error {
	a, err := l.mutable(client)
	if err != nil {
		return err
	}
	held, err := a.Held.CheckedSub(amt)
	if err != nil {
		return fmt.Errorf("release funds of client %d: %w", client, err)
	}
	a.Held, a.Available = held, a.Available.Add(amt)
	return nil
}

// RemoveFromHeldAndTotal destroys amt of held funds.
func (l *Ledger) RemoveFromHeldAndTotal(client uint16, amt money.Money) error {
	a, err := l.mutable(client)
	if err != nil {
		return err
	}
	held, err := a.Held.CheckedSub(amt)
	if err != nil {
		return fmt.Errorf("remove held funds of client %d: %w", client, err)
	}
	total, err := a.Total.CheckedSub(amt)
	if err != nil {
		return fmt.Errorf("remove total of client %d: %w", client, err)
	}
	a.Held, a.Total = held, total
	return nil
}

// Lock freezes client's account permanently. Locking twice is a no-op.
func (l *Ledger) Lock(client uint16) {
	l.GetOrCreate(client)
	l.accounts[client].Locked = true
}

// Each calls fn for every seen account in ascending client id order.
func (l *Ledger) Each(fn func(model.Account)) {
	for i := range l.accounts {
		if l.seen[i] {
			fn(l.accounts[i])
		}
	}
}

// Rows returns the snapshot of every seen account in ascending client id order.
func (l *Ledger) Rows() []model.Row {
	rows := make([]model.Row, 0, l.count)
	l.Each(func(a model.Account) {
		rows = append(rows, a.Row())
	})
	return rows
}

func (l *Ledger) mutable(client uint16) (*model.Account, error) {
	l.GetOrCreate(client)
	a := &l.accounts[client]
	if a.Locked {
		return nil, fmt.Errorf("client %d: %w", client, ErrLocked)
	}
	return a, nil
}
