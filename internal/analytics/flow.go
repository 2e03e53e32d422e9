package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

// FlowFilter narrows the unusual trades table. Empty lists do not filter.
type FlowFilter struct {
	MinPremium decimal.Decimal
	Sides      []string
	OpenClose  []string
}

// FilterFlow returns the trades whose premium is at least MinPremium (a
// missing premium counts as zero) and whose side and open/close values are
// in the requested sets
func FilterFlow(trades []options.UnusualTrade, f FlowFilter) []options.UnusualTrade {
	out := make([]options.UnusualTrade, 0, len(trades))
	for _, t := range trades {
		premium := zero
		if t.Premium.Valid {
			premium = t.Premium.Decimal
		}
		if premium.LessThan(f.MinPremium) {
			continue
		}
		if len(f.Sides) > 0 && !slices.Contains(f.Sides, t.Side) {
			continue
		}
		if len(f.OpenClose) > 0 && !slices.Contains(f.OpenClose, t.OpenClose) {
			continue
		}
		out = append(out, t)
	}
	return out
}

var quartile = decimal.NewFromFloat(0.25)

// DefaultMinPremium is the 25th percentile of the present premiums, linearly
// interpolated and truncated to a whole number. Zero when no premium is present.
func DefaultMinPremium(trades []options.UnusualTrade) decimal.Decimal {
	var premiums []decimal.Decimal
	for _, t := range trades {
		if t.Premium.Valid {
			premiums = append(premiums, t.Premium.Decimal)
		}
	}
	if len(premiums) == 0 {
		return zero
	}
	slices.SortFunc(premiums, decimal.Decimal.Cmp)

	pos := quartile.Mul(decimal.NewFromInt(int64(len(premiums) - 1)))
	lo := pos.IntPart()
	frac := pos.Sub(decimal.NewFromInt(lo))
	q := premiums[lo]
	if int(lo)+1 < len(premiums) {
		q = q.Add(premiums[lo+1].Sub(q).Mul(frac))
	}
	return q.Truncate(0)
}

// FlowSides lists the distinct non-empty Side values, sorted
func FlowSides(trades []options.UnusualTrade) []string {
	return distinct(trades, func(t options.UnusualTrade) string { return t.Side })
}

// FlowOpenClose lists the distinct non-empty open/close values, sorted
func FlowOpenClose(trades []options.UnusualTrade) []string {
	return distinct(trades, func(t options.UnusualTrade) string { return t.OpenClose })
}

func distinct(trades []options.UnusualTrade, field func(options.UnusualTrade) string) []string {
	out := []string{}
	for _, t := range trades {
		v := field(t)
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// DefaultFlowFilter selects every listed side and open/close value above the
// default minimum premium. Trades with a blank side or open/close value are
// not listed and so drop out, unless the column has no values at all.
func DefaultFlowFilter(trades []options.UnusualTrade) FlowFilter {
	return FlowFilter{
		MinPremium: DefaultMinPremium(trades),
		Sides:      FlowSides(trades),
		OpenClose:  FlowOpenClose(trades),
	}
}

// FlowSummary totals premium by side and reads sentiment from the
// premium-weighted put/call ratio
func FlowSummary(trades []options.UnusualTrade) options.FlowSummary {
	s := options.FlowSummary{
		Trades:       len(trades),
		TotalPremium: zero,
		CallPremium:  zero,
		PutPremium:   zero,
	}
	for _, t := range trades {
		if !t.Premium.Valid {
			continue
		}
		p := t.Premium.Decimal
		s.TotalPremium = s.TotalPremium.Add(p)
		switch t.Type {
		case options.Call:
			s.CallPremium = s.CallPremium.Add(p)
		case options.Put:
			s.PutPremium = s.PutPremium.Add(p)
		}
		if !s.LargestTradePremium.Valid || p.GreaterThan(s.LargestTradePremium.Decimal) {
			s.LargestTradePremium = numeric.Of(p)
		}
	}
	s.PutCallPremiumRatio = ratio(s.PutPremium, s.CallPremium)
	s.Sentiment = InterpretPutCallRatio(s.PutCallPremiumRatio)
	return s
}

// InterpretPutCallRatio maps a put/call ratio to a sentiment label.
// >1.0 = more puts (bearish), <1.0 = more calls (bullish)
func InterpretPutCallRatio(r decimal.NullDecimal) string {
	if !r.Valid {
		return options.SentimentUnknown
	}
	v := r.Decimal
	switch {
	case v.GreaterThan(decimal.NewFromFloat(1.5)):
		return options.SentimentVeryBearish
	case v.GreaterThan(decimal.NewFromInt(1)):
		return options.SentimentBearish
	case v.LessThan(decimal.NewFromFloat(0.5)):
		return options.SentimentVeryBullish
	case v.LessThan(decimal.NewFromInt(1)):
		return options.SentimentBullish
	}
	return options.SentimentNeutral
}
