package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/money"
)

func m(s string) money.Money {
	return money.MustParse(s)
}

func requireBalanced(t *testing.T, l *Ledger, client uint16) model.Account {
	t.Helper()
	a, ok := l.Get(client)
	require.True(t, ok, "client %d should exist", client)
	require.Nil(t, Verify(a.Row()))
	return a
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	l := NewLedger()
	first := l.GetOrCreate(7)
	assert.Equal(t, uint16(7), first.ID)
	assert.True(t, first.Total.IsZero())

	require.NoError(t, l.CreditAvailable(7, m("3")))
	again := l.GetOrCreate(7)
	assert.True(t, again.Available.Equal(m("3")), "second lookup must not reset the account")
	assert.Equal(t, 1, l.Len())
}

func TestGetUnseen(t *testing.T) {
	l := NewLedger()
	_, ok := l.Get(1)
	assert.False(t, ok)
	assert.False(t, l.IsLocked(1))
	assert.Equal(t, 0, l.Len())
}

func TestCreditDebit(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreditAvailable(1, m("5")))
	require.NoError(t, l.DebitAvailable(1, m("3")))

	a := requireBalanced(t, l, 1)
	assert.Equal(t, "2", a.Available.String())
	assert.Equal(t, "2", a.Total.String())
	assert.True(t, a.Held.IsZero())
}

func TestDebitInsufficientLeavesAccountUntouched(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreditAvailable(1, m("1")))

	err := l.DebitAvailable(1, m("1.5"))
	require.ErrorIs(t, err, money.ErrInsufficient)

	a := requireBalanced(t, l, 1)
	assert.True(t, a.Available.Equal(m("1")))
	assert.True(t, a.Total.Equal(m("1")))
}

func TestHoldAndRelease(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreditAvailable(1, m("10")))

	require.NoError(t, l.MoveAvailableToHeld(1, m("4")))
	a := requireBalanced(t, l, 1)
	assert.True(t, a.Available.Equal(m("6")))
	assert.True(t, a.Held.Equal(m("4")))
	assert.True(t, a.Total.Equal(m("10")))

	require.ErrorIs(t, l.MoveAvailableToHeld(1, m("7")), money.ErrInsufficient)
	require.ErrorIs(t, l.MoveHeldToAvailable(1, m("5")), money.ErrInsufficient)

	require.NoError(t, l.MoveHeldToAvailable(1, m("4")))
	a = requireBalanced(t, l, 1)
	assert.True(t, a.Available.Equal(m("10")))
	assert.True(t, a.Held.IsZero())
}

func TestRemoveFromHeldAndTotal(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreditAvailable(1, m("10")))
	require.NoError(t, l.MoveAvailableToHeld(1, m("10")))

	require.ErrorIs(t, l.RemoveFromHeldAndTotal(1, m("11")), money.ErrInsufficient)
	require.NoError(t, l.RemoveFromHeldAndTotal(1, m("10")))

	a := requireBalanced(t, l, 1)
	assert.True(t, a.Available.IsZero())
	assert.True(t, a.Held.IsZero())
	assert.True(t, a.Total.IsZero())
}

func TestLockBlocksMutations(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.CreditAvailable(1, m("2")))
	l.Lock(1)
	l.Lock(1)

	assert.True(t, l.IsLocked(1))
	require.ErrorIs(t, l.CreditAvailable(1, m("1")), ErrLocked)
	require.ErrorIs(t, l.DebitAvailable(1, m("1")), ErrLocked)
	require.ErrorIs(t, l.MoveAvailableToHeld(1, m("1")), ErrLocked)

	a := requireBalanced(t, l, 1)
	assert.True(t, a.Available.Equal(m("2")))
	assert.True(t, a.Locked)
}

func TestRowsAscendingAndComplete(t *testing.T) {
	l := NewLedger()
	l.GetOrCreate(65535)
	require.NoError(t, l.CreditAvailable(3, m("1.25")))
	l.GetOrCreate(0)

	rows := l.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, uint16(0), rows[0].Client)
	assert.Equal(t, uint16(3), rows[1].Client)
	assert.Equal(t, uint16(65535), rows[2].Client)
	assert.Equal(t, "1.25", rows[1].Total.String())
}
