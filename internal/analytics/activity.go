package analytics

import (
	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

// StrikeActivity splits volume and open interest by side for every strike
func StrikeActivity(rows []options.OptionQuote) []options.StrikeActivity {
	groups := groupByStrike(rows)
	out := make([]options.StrikeActivity, len(groups))
	for i, g := range groups {
		out[i] = options.StrikeActivity{
			Strike:     g.Strike,
			CallVolume: sumWhere(g.Rows, options.Call, volume),
			PutVolume:  sumWhere(g.Rows, options.Put, volume),
			CallOI:     sumWhere(g.Rows, options.Call, openInterest),
			PutOI:      sumWhere(g.Rows, options.Put, openInterest),
		}
	}
	return out
}

// IVSmile returns the mean implied volatility per strike for one option type.
// Strikes without any IV for that type are left out.
func IVSmile(rows []options.OptionQuote, t options.OptionType) []options.IVPoint {
	var out []options.IVPoint
	for _, g := range groupByStrike(rows) {
		sum, n := zero, int64(0)
		for _, r := range g.Rows {
			if r.Type == t && r.IV.Valid {
				sum = sum.Add(r.IV.Decimal)
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, options.IVPoint{Strike: g.Strike, IV: numeric.Of(sum.Div(decimal.NewFromInt(n)))})
	}
	return out
}
