package analytics

import (
	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

// PainCurve evaluates, for every observed strike K, the cash value holders
// would receive if the underlying settled at K:
//
//	100 * (sum over calls of max(0, K-strike)*OI + sum over puts of max(0, strike-K)*OI)
//
// Rows missing a strike, a call/put type or open interest are skipped.
func PainCurve(rows []options.OptionQuote) []options.PainPoint {
	eligible := make([]options.OptionQuote, 0, len(rows))
	for _, r := range rows {
		if r.Strike.Valid && r.Type.Valid() && r.OpenInterest.Valid {
			eligible = append(eligible, r)
		}
	}

	strikes := Strikes(eligible)
	out := make([]options.PainPoint, len(strikes))
	for i, k := range strikes {
		total := zero
		for _, r := range eligible {
			var intrinsic decimal.Decimal
			switch r.Type {
			case options.Call:
				intrinsic = decimal.Max(zero, k.Sub(r.Strike.Decimal))
			case options.Put:
				intrinsic = decimal.Max(zero, r.Strike.Decimal.Sub(k))
			}
			total = total.Add(intrinsic.Mul(r.OpenInterest.Decimal))
		}
		out[i] = options.PainPoint{Strike: k, TotalCashValue: total.Mul(multiplier)}
	}
	return out
}

// MaxPain returns the strike minimizing the pain curve. On ties the lowest
// strike wins. Missing when no row is eligible.
func MaxPain(rows []options.OptionQuote) decimal.NullDecimal {
	return minPain(PainCurve(rows))
}

func minPain(curve []options.PainPoint) decimal.NullDecimal {
	if len(curve) == 0 {
		return numeric.Missing
	}
	best := curve[0]
	for _, p := range curve[1:] {
		if p.TotalCashValue.LessThan(best.TotalCashValue) {
			best = p
		}
	}
	return numeric.Of(best.Strike)
}
