package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return numeric.Of(d(s))
}

func date(y int, m time.Month, day int) *time.Time {
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// quote builds a chain row; pass "" to leave a numeric field missing
func quote(typ options.OptionType, strike, oi, gamma string) options.OptionQuote {
	q := options.OptionQuote{Symbol: "SPY", Type: typ}
	if strike != "" {
		q.Strike = nd(strike)
	}
	if oi != "" {
		q.OpenInterest = nd(oi)
	}
	if gamma != "" {
		q.Gamma = nd(gamma)
	}
	return q
}

func assertDecimal(t *testing.T, expected string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(expected).Equal(got), "expected %s, got %s", expected, got)
}

func assertValue(t *testing.T, expected string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected %s, got missing", expected)
	assertDecimal(t, expected, got.Decimal)
}

// threeRowChain has one call and one put at 100 and a single call at 110
func threeRowChain() []options.OptionQuote {
	rows := []options.OptionQuote{
		{Type: options.Call, Strike: nd("110"), Volume: nd("40"), OpenInterest: nd("300"), Bid: nd("0.5"), Ask: nd("0.7"),
			IV: nd("0.22"), Gamma: nd("0.01"), Vega: nd("0.1"), Theta: nd("-0.02"), UnderlyingPrice: nd("104")},
		{Type: options.Call, Strike: nd("100"), Volume: nd("100"), OpenInterest: nd("500"), Bid: nd("4.0"), Ask: nd("4.2"),
			IV: nd("0.25"), Gamma: nd("0.03"), Vega: nd("0.2"), Theta: nd("-0.05"), UnderlyingPrice: nd("104")},
		{Type: options.Put, Strike: nd("100"), Volume: nd("50"), OpenInterest: nd("200"), Bid: nd("1.0"), Ask: nd("1.2"),
			IV: nd("0.28"), Gamma: nd("0.02"), Vega: nd("0.15"), Theta: nd("-0.04"), UnderlyingPrice: nd("104")},
	}
	for i := range rows {
		rows[i].Symbol = "SPY"
		rows[i].ExpirationDate = date(2024, 6, 21)
		rows[i].MidPrice = options.MidPrice(rows[i].Bid, rows[i].Ask)
	}
	return rows
}
