package numeric

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValue(t *testing.T, expected string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected %s, got missing", expected)
	assert.True(t, decimal.RequireFromString(expected).Equal(got.Decimal),
		"expected %s, got %s", expected, got.Decimal)
}

func TestNumericColumn(t *testing.T) {
	out := NumericColumn([]string{"1,234.5", "unch", "N/A", "", "abc", "-0.0123", " 42 ", "1,000,000"})
	require.Len(t, out, 8)

	requireValue(t, "1234.5", out[0])
	assert.False(t, out[1].Valid, "unch is missing")
	assert.False(t, out[2].Valid, "N/A is missing")
	assert.False(t, out[3].Valid, "empty is missing")
	assert.False(t, out[4].Valid, "unparseable is missing")
	requireValue(t, "-0.0123", out[5])
	requireValue(t, "42", out[6])
	requireValue(t, "1000000", out[7])
}

func TestPercentageColumn(t *testing.T) {
	out := PercentageColumn([]string{"25%", "unch", "N/A", "", "12.5", "bogus%", "1,234.5"})
	require.Len(t, out, 7)

	requireValue(t, "0.25", out[0])
	assert.False(t, out[1].Valid)
	assert.False(t, out[2].Valid)
	assert.False(t, out[3].Valid)
	requireValue(t, "0.125", out[4])
	assert.False(t, out[5].Valid)
	requireValue(t, "12.345", out[6])
}

func TestMissingTokensAreExact(t *testing.T) {
	// Case and spacing inside the token matter; only the listed literals are tokens.
	assert.False(t, Parse("UNCH").Valid, "not a number either way")
	assert.False(t, Parse("n/a").Valid)
	assert.False(t, Parse("   ").Valid, "blank after trimming")
}

func TestNumericNonStringPassThrough(t *testing.T) {
	requireValue(t, "1.5", Numeric(1.5))
	requireValue(t, "7", Numeric(7))
	requireValue(t, "7", Numeric(int64(7)))
	requireValue(t, "-5", Numeric(int8(-5)))
	requireValue(t, "5", Numeric(int16(5)))
	requireValue(t, "5", Numeric(uint(5)))
	requireValue(t, "5", Numeric(uint8(5)))
	requireValue(t, "5", Numeric(uint16(5)))
	requireValue(t, "5", Numeric(uint32(5)))
	requireValue(t, "18446744073709551615", Numeric(uint64(math.MaxUint64)))
	requireValue(t, "3.25", Numeric(decimal.RequireFromString("3.25")))
	assert.False(t, Numeric(math.NaN()).Valid)
	assert.False(t, Numeric(math.Inf(1)).Valid)
	assert.False(t, Numeric(nil).Valid)
	assert.False(t, Numeric(struct{}{}).Valid)

	requireValue(t, "0.3", Percentage(30))
	requireValue(t, "0.3", Percentage("30%"))
	assert.False(t, Percentage(math.NaN()).Valid)
}
