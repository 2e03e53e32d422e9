package analytics

import (
	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

// Greek selects one greek column of a quote
type Greek func(options.OptionQuote) decimal.NullDecimal

var (
	Gamma Greek = func(q options.OptionQuote) decimal.NullDecimal { return q.Gamma }
	Vega  Greek = func(q options.OptionQuote) decimal.NullDecimal { return q.Vega }
	Theta Greek = func(q options.OptionQuote) decimal.NullDecimal { return q.Theta }
)

// StrikeExposure is the dealer exposure to one greek at a strike
type StrikeExposure struct {
	Strike decimal.Decimal
	Value  decimal.NullDecimal
}

var minusMultiplier = multiplier.Neg()

// DealerExposure sums -greek * OI * 100 by strike, ascending. If any row at a
// strike lacks the greek or its open interest the strike's value is missing.
func DealerExposure(rows []options.OptionQuote, greek Greek) []StrikeExposure {
	groups := groupByStrike(rows)
	out := make([]StrikeExposure, len(groups))
	for i, g := range groups {
		out[i] = StrikeExposure{Strike: g.Strike, Value: dealerSum(g.Rows, greek)}
	}
	return out
}

func dealerSum(rows []options.OptionQuote, greek Greek) decimal.NullDecimal {
	total := zero
	for _, r := range rows {
		v := greek(r)
		if !v.Valid || !r.OpenInterest.Valid {
			return numeric.Missing
		}
		total = total.Add(v.Decimal.Mul(r.OpenInterest.Decimal).Mul(minusMultiplier))
	}
	return numeric.Of(total)
}

// GammaExposure returns dealer GEX by strike with its running sum over
// ascending strikes, and the gamma flip strike.
//
// The running sum skips strikes whose GEX is missing and leaves their
// cumulative cell missing. The flip is the strike with the smallest |GEX|
// among strikes that have a value; it is not interpolated between strikes.
func GammaExposure(rows []options.OptionQuote) ([]options.GammaExposure, decimal.NullDecimal) {
	exposures := DealerExposure(rows, Gamma)
	out := make([]options.GammaExposure, len(exposures))

	running := zero
	for i, e := range exposures {
		out[i] = options.GammaExposure{Strike: e.Strike, DealerGEX: e.Value}
		if e.Value.Valid {
			running = running.Add(e.Value.Decimal)
			out[i].CumulativeDealerGEX = numeric.Of(running)
		}
	}

	return out, GammaFlip(out)
}

// GammaFlip picks the strike whose dealer GEX is closest to zero, the lowest
// strike on ties. Missing when no strike has a value.
func GammaFlip(gex []options.GammaExposure) decimal.NullDecimal {
	flip := numeric.Missing
	var best decimal.Decimal
	for _, g := range gex {
		if !g.DealerGEX.Valid {
			continue
		}
		abs := g.DealerGEX.Decimal.Abs()
		if !flip.Valid || abs.LessThan(best) {
			flip = numeric.Of(g.Strike)
			best = abs
		}
	}
	return flip
}

// VegaExposure returns dealer vega by strike
func VegaExposure(rows []options.OptionQuote) []options.VegaExposure {
	exposures := DealerExposure(rows, Vega)
	out := make([]options.VegaExposure, len(exposures))
	for i, e := range exposures {
		out[i] = options.VegaExposure{Strike: e.Strike, DealerVegaExposure: e.Value}
	}
	return out
}

// ThetaExposure returns dealer theta by strike
func ThetaExposure(rows []options.OptionQuote) []options.ThetaExposure {
	exposures := DealerExposure(rows, Theta)
	out := make([]options.ThetaExposure, len(exposures))
	for i, e := range exposures {
		out[i] = options.ThetaExposure{Strike: e.Strike, DealerThetaExposure: e.Value}
	}
	return out
}
