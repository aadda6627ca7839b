// Package engine applies transaction events to the account ledger.
//
// An Engine owns one accounts.Ledger and one transactions.Registry for the
// lifetime of a batch. It is not safe for concurrent use; inputs are applied
// strictly one at a time.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cfcosta/fictional-octo-dollop/internal/accounts"
	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/money"
	"github.com/cfcosta/fictional-octo-dollop/internal/transactions"
)

// Stats counts the outcome of every input passed to Apply.
type Stats struct {
	Applied  int // changed the ledger
	Ignored  int // dispute, resolve or chargeback with nothing to act on
	Rejected int // returned an error
}

// Engine is the account state machine.
type Engine struct {
	ledger   *accounts.Ledger
	registry *transactions.Registry
	logger   *zap.Logger
	strict   bool
	stats    Stats

	// verify checks an account after each applied input.
	verify func(model.Row) *accounts.InvariantError
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-input debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrictInvariants makes an invariant violation panic instead of
// returning an *accounts.InvariantError.
func WithStrictInvariants(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// New creates an Engine with an empty ledger and registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		ledger:   accounts.NewLedger(),
		registry: transactions.NewRegistry(),
		logger:   zap.NewNop(),
		verify:   accounts.Verify,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type outcome int

const (
	applied outcome = iota
	ignored
)

// Apply validates in against the ledger and registry and applies it.
//
// A nil error means the input was either applied or deliberately ignored
// (a dispute, resolve or chargeback referencing a transaction that is
// unknown, owned by another client, or in the wrong state). Errors wrapping
// ErrInput leave the ledger exactly as it was. An *accounts.InvariantError
// means the ledger itself is inconsistent and the batch must stop; so does
// any other error that does not wrap ErrInput.
func (e *Engine) Apply(in model.Input) error {
	res, err := e.apply(in)
	if err != nil {
		e.stats.Rejected++
		e.logger.Debug("input rejected",
			zap.String("type", string(in.Kind)),
			zap.Uint16("client", in.Client),
			zap.Uint32("tx", in.Tx),
			zap.Error(err))
		return err
	}

	if res == ignored {
		e.stats.Ignored++
		e.logger.Debug("input ignored",
			zap.String("type", string(in.Kind)),
			zap.Uint16("client", in.Client),
			zap.Uint32("tx", in.Tx))
		return nil
	}

	e.stats.Applied++
	acct, _ := e.ledger.Get(in.Client)
	if ierr := e.verify(acct.Row()); ierr != nil {
		if e.strict {
			panic(ierr)
		}
		e.logger.Error("ledger invariant violated", zap.Uint32("tx", in.Tx), zap.Error(ierr))
		return ierr
	}
	return nil
}

func (e *Engine) apply(in model.Input) (outcome, error) {
	if acct := e.ledger.GetOrCreate(in.Client); acct.Locked {
		return ignored, &LockedAccountError{Client: in.Client, Tx: in.Tx}
	}

	switch in.Kind {
	case model.KindDeposit:
		return e.deposit(in)
	case model.KindWithdrawal:
		return e.withdrawal(in)
	case model.KindDispute:
		return e.dispute(in)
	case model.KindResolve:
		return e.resolve(in)
	case model.KindChargeback:
		return e.chargeback(in)
	default:
		return ignored, fmt.Errorf("%w: unknown transaction type %q", ErrInput, in.Kind)
	}
}

func (e *Engine) deposit(in model.Input) (outcome, error) {
	amt, err := e.newTransaction(in)
	if err != nil {
		return ignored, err
	}
	if err := e.ledger.CreditAvailable(in.Client, amt); err != nil {
		return ignored, err
	}
	if err := e.register(in, amt); err != nil {
		return applied, err
	}
	return applied, nil
}

func (e *Engine) withdrawal(in model.Input) (outcome, error) {
	amt, err := e.newTransaction(in)
	if err != nil {
		return ignored, err
	}
	before, _ := e.ledger.Get(in.Client)
	if err := e.ledger.DebitAvailable(in.Client, amt); err != nil {
		if errors.Is(err, money.ErrInsufficient) {
			return ignored, &InsufficientBalanceError{Tx: in.Tx, Expected: amt, Available: before.Available}
		}
		return ignored, err
	}
	if err := e.register(in, amt); err != nil {
		return applied, err
	}
	return applied, nil
}

func (e *Engine) dispute(in model.Input) (outcome, error) {
	rec, ok := e.owned(in)
	if !ok {
		return ignored, nil
	}

	switch rec.Status {
	case model.TxOpen:
		before, _ := e.ledger.Get(in.Client)
		if err := e.ledger.MoveAvailableToHeld(in.Client, rec.Amount); err != nil {
			if errors.Is(err, money.ErrInsufficient) {
				return ignored, &InsufficientBalanceError{Tx: in.Tx, Expected: rec.Amount, Available: before.Available}
			}
			return ignored, err
		}
		if err := e.transition(rec, model.TxOpen, model.TxDisputed); err != nil {
			return applied, err
		}
		return applied, nil
	case model.TxDisputed, model.TxResolved, model.TxChargedback:
		return ignored, nil
	default:
		return ignored, nil
	}
}

func (e *Engine) resolve(in model.Input) (outcome, error) {
	rec, ok := e.owned(in)
	if !ok {
		return ignored, nil
	}

	switch rec.Status {
	case model.TxDisputed:
		before, _ := e.ledger.Get(in.Client)
		if err := e.ledger.MoveHeldToAvailable(in.Client, rec.Amount); err != nil {
			if errors.Is(err, money.ErrInsufficient) {
				return ignored, &InsufficientBalanceError{Tx: in.Tx, Expected: rec.Amount, Available: before.Held}
			}
			return ignored, err
		}
		if err := e.transition(rec, model.TxDisputed, model.TxResolved); err != nil {
			return applied, err
		}
		return applied, nil
	case model.TxOpen, model.TxResolved, model.TxChargedback:
		return ignored, nil
	default:
		return ignored, nil
	}
}

func (e *Engine) chargeback(in model.Input) (outcome, error) {
	rec, ok := e.owned(in)
	if !ok {
		return ignored, nil
	}

	switch rec.Status {
	case model.TxDisputed:
		before, _ := e.ledger.Get(in.Client)
		if err := e.ledger.RemoveFromHeldAndTotal(in.Client, rec.Amount); err != nil {
			if errors.Is(err, money.ErrInsufficient) {
				return ignored, &InsufficientBalanceError{Tx: in.Tx, Expected: rec.Amount, Available: before.Held}
			}
			return ignored, err
		}
		if err := e.transition(rec, model.TxDisputed, model.TxChargedback); err != nil {
			return applied, err
		}
		// Lock only once the chargeback has fully applied.
		e.ledger.Lock(in.Client)
		return applied, nil
	case model.TxOpen, model.TxResolved, model.TxChargedback:
		return ignored, nil
	default:
		return ignored, nil
	}
}

// newTransaction checks the amount and id of a deposit or withdrawal.
func (e *Engine) newTransaction(in model.Input) (money.Money, error) {
	if in.Amount == nil {
		return money.Zero, &InvalidAmountError{Tx: in.Tx, Reason: "missing amount"}
	}
	amt := *in.Amount
	if amt.IsZero() {
		return money.Zero, &InvalidAmountError{Tx: in.Tx, Reason: "amount must be greater than zero"}
	}
	if e.registry.Exists(in.Tx) {
		return money.Zero, &DuplicateTransactionError{Tx: in.Tx, Amount: amt}
	}
	return amt, nil
}

// register records a deposit or withdrawal whose balance change has already
// been applied. newTransaction has ruled out a duplicate id, so a failure
// here means the ledger and registry disagree; the error does not wrap
// ErrInput and stops the batch.
func (e *Engine) register(in model.Input, amt money.Money) error {
	err := e.registry.Register(model.TransactionRecord{
		ID:     in.Tx,
		Client: in.Client,
		Kind:   in.Kind,
		Amount: amt,
	})
	if err != nil {
		return fmt.Errorf("recording transaction %d for client %d: %w", in.Tx, in.Client, err)
	}
	return nil
}

// transition moves rec after its balance change has been applied. The caller
// has already matched rec.Status against from, so a failure is fatal in the
// same way as in register.
func (e *Engine) transition(rec model.TransactionRecord, from, to model.TxStatus) error {
	if err := e.registry.Transition(rec.ID, from, to); err != nil {
		return fmt.Errorf("moving transaction %d for client %d: %w", rec.ID, rec.Client, err)
	}
	return nil
}

// owned returns the record in refers to if it belongs to the same client.
func (e *Engine) owned(in model.Input) (model.TransactionRecord, bool) {
	rec, ok := e.registry.Get(in.Tx)
	if !ok || rec.Client != in.Client {
		return model.TransactionRecord{}, false
	}
	return rec, true
}

// Account returns the current state of client's account.
func (e *Engine) Account(client uint16) (model.Account, bool) {
	return e.ledger.Get(client)
}

// Transaction returns the registry record for tx.
func (e *Engine) Transaction(tx uint32) (model.TransactionRecord, bool) {
	return e.registry.Get(tx)
}

// Stats returns the outcome counters accumulated so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Finalize returns one row per client ever referenced, in ascending client id order.
func (e *Engine) Finalize() []model.Row {
	return e.ledger.Rows()
}
