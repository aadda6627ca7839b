// Package transactions tracks every accepted deposit and withdrawal and
// drives the dispute lifecycle of each one.
package transactions

import (
	"errors"
	"fmt"

	"github.com/cfcosta/fictional-octo-dollop/internal/model"
)

var (
	// ErrAlreadyExists is returned by Register for a transaction id already in use.
	ErrAlreadyExists = errors.New("transaction already exists")
	// ErrNotFound is returned for a transaction id that was never registered.
	ErrNotFound = errors.New("transaction not found")
)

// TransitionError reports a rejected status change.
type TransitionError struct {
	Tx       uint32
	Expected model.TxStatus
	Actual   model.TxStatus
	Next     model.TxStatus
}

func (e *TransitionError) Error() string {
	if e.Expected != e.Actual {
		return fmt.Sprintf("transaction %d is %s, expected %s", e.Tx, e.Actual, e.Expected)
	}
	return fmt.Sprintf("transaction %d cannot move from %s to %s", e.Tx, e.Actual, e.Next)
}

// CanTransition reports whether from -> to is an edge of the lifecycle:
//
//	open -> disputed -> resolved
//	             \---> chargedback
func CanTransition(from, to model.TxStatus) bool {
	if from.Terminal() {
		return false
	}
	switch from {
	case model.TxOpen:
		return to == model.TxDisputed
	case model.TxDisputed:
		return to == model.TxResolved || to == model.TxChargedback
	default:
		return false
	}
}

// Registry maps transaction ids to the record that first claimed them.
type Registry struct {
	records map[uint32]*model.TransactionRecord
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[uint32]*model.TransactionRecord)}
}

// Register inserts rec with status open. The first record for an id wins.
func (r *Registry) Register(rec model.TransactionRecord) error {
	if _, exists := r.records[rec.ID]; exists {
		return fmt.Errorf("transaction %d: %w", rec.ID, ErrAlreadyExists)
	}
	rec.Status = model.TxOpen
	r.records[rec.ID] = &rec
	return nil
}

// Exists reports whether tx has been registered.
func (r *Registry) Exists(tx uint32) bool {
	_, ok := r.records[tx]
	return ok
}

// Get returns a copy of the record for tx.
func (r *Registry) Get(tx uint32) (model.TransactionRecord, bool) {
	rec, ok := r.records[tx]
	if !ok {
		return model.TransactionRecord{}, false
	}
	return *rec, true
}

// GetMut returns the stored record for tx. Callers must change Status only
// through Transition.
func (r *Registry) GetMut(tx uint32) (*model.TransactionRecord, bool) {
	rec, ok := r.records[tx]
	return rec, ok
}

// Transition moves tx from expected to next. It fails without changing
// anything if tx is unknown, is not currently in expected, or if the move
// is not a lifecycle edge.
func (r *Registry) Transition(tx uint32, expected, next model.TxStatus) error {
	rec, ok := r.records[tx]
	if !ok {
		return fmt.Errorf("transaction %d: %w", tx, ErrNotFound)
	}
	if rec.Status != expected || !CanTransition(expected, next) {
		return &TransitionError{Tx: tx, Expected: expected, Actual: rec.Status, Next: next}
	}
	rec.Status = next
	return nil
}

// Len returns the number of registered transactions.
func (r *Registry) Len() int {
	return len(r.records)
}
