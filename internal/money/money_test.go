package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"1.5", "1.5"},
		{"1.50", "1.50"},
		{" 2.0001 ", "2.0001"},
		{"0", "0"},
		{"3.140000", "3.1400"},
	}
	for _, tt := range tests {
		m, err := Parse(tt.in)
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, m.String(), "Parse(%q)", tt.in)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "-1", "-0.01", "1.00001", "1e200000000", "1E5", "2.5e-3"} {
		_, err := Parse(in)
		assert.Error(t, err, "Parse(%q) should fail", in)
	}
}

func TestAddKeepsFinestPrecision(t *testing.T) {
	sum := MustParse("1.5").Add(MustParse("2.25"))
	assert.Equal(t, "3.75", sum.String())

	sum = MustParse("1.50").Add(MustParse("2"))
	assert.Equal(t, "3.50", sum.String())
}

func TestCheckedSub(t *testing.T) {
	got, err := MustParse("5").CheckedSub(MustParse("3"))
	require.NoError(t, err)
	assert.True(t, got.Equal(MustParse("2")))

	got, err = MustParse("5").CheckedSub(MustParse("5.0"))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	orig := MustParse("1")
	got, err = orig.CheckedSub(MustParse("1.0001"))
	require.ErrorIs(t, err, ErrInsufficient)
	assert.True(t, got.Equal(orig), "failed subtraction returns the receiver unchanged")
}

func TestZeroValue(t *testing.T) {
	var m Money
	assert.True(t, m.IsZero())
	assert.Equal(t, "0", m.String())
	assert.True(t, m.Equal(Zero))

	sum := m.Add(MustParse("0.25"))
	assert.Equal(t, "0.25", sum.String())
}

func TestOrdering(t *testing.T) {
	a, b := MustParse("1.10"), MustParse("1.2")
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustParse("1.1")))
	assert.True(t, b.GreaterThanOrEqual(a))
	assert.True(t, a.GreaterThanOrEqual(MustParse("1.1")))
	assert.False(t, a.GreaterThanOrEqual(b))
}

func TestFromDecimal(t *testing.T) {
	_, err := FromDecimal(decimal.NewFromInt(-3))
	require.Error(t, err)

	m, err := FromDecimal(decimal.RequireFromString("7.25"))
	require.NoError(t, err)
	assert.Equal(t, "7.25", m.String())
	assert.True(t, m.Decimal().Equal(decimal.RequireFromString("7.25")))
}

func TestFromDecimalBoundsExponent(t *testing.T) {
	_, err := FromDecimal(decimal.New(1, 200000000))
	require.Error(t, err)

	_, err = FromDecimal(decimal.New(1, -200000000))
	require.Error(t, err)

	m, err := FromDecimal(decimal.New(5, MaxExponent))
	require.NoError(t, err)
	assert.True(t, m.Add(MustParse("1")).GreaterThanOrEqual(m))
}

func TestLargeValuesDoNotWrap(t *testing.T) {
	big := MustParse("18446744073709551615")
	sum := big.Add(MustParse("1"))
	assert.Equal(t, "18446744073709551616", sum.String())
}
