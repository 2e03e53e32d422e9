// Package analytics derives market-risk metrics from an option chain slice.
//
// Every function is a pure aggregation: inputs are never mutated, grouping
// and sorting work on copies, and a metric that cannot be computed for a
// group is reported as a missing cell rather than an error.
//
// Dealer exposures assume dealers are net short every listed option, so the
// dealer value of a greek is the negative of the customer aggregate. This is
// a modelling assumption, not derived from positioning data.
package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

var (
	zero       = decimal.Zero
	multiplier = decimal.NewFromInt(options.ContractMultiplier)
)

// strikeGroup is the set of rows sharing one strike
type strikeGroup struct {
	Strike decimal.Decimal
	Rows   []options.OptionQuote
}

// sortedByStrike returns a copy of the rows with a strike, ascending.
// Rows without a strike have no group key and are dropped.
func sortedByStrike(rows []options.OptionQuote) []options.OptionQuote {
	out := make([]options.OptionQuote, 0, len(rows))
	for _, r := range rows {
		if r.Strike.Valid {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b options.OptionQuote) int {
		return a.Strike.Decimal.Cmp(b.Strike.Decimal)
	})
	return out
}

// groupByStrike groups rows by strike in ascending order
func groupByStrike(rows []options.OptionQuote) []strikeGroup {
	sorted := sortedByStrike(rows)

	var groups []strikeGroup
	for _, r := range sorted {
		n := len(groups)
		if n > 0 && groups[n-1].Strike.Equal(r.Strike.Decimal) {
			groups[n-1].Rows = append(groups[n-1].Rows, r)
			continue
		}
		groups = append(groups, strikeGroup{Strike: r.Strike.Decimal, Rows: []options.OptionQuote{r}})
	}
	return groups
}

// Strikes returns the distinct strikes present in rows, ascending
func Strikes(rows []options.OptionQuote) []decimal.Decimal {
	groups := groupByStrike(rows)
	out := make([]decimal.Decimal, len(groups))
	for i, g := range groups {
		out[i] = g.Strike
	}
	return out
}

// sumWhere adds field over rows of the given type, skipping missing cells
func sumWhere(rows []options.OptionQuote, t options.OptionType, field func(options.OptionQuote) decimal.NullDecimal) decimal.Decimal {
	total := zero
	for _, r := range rows {
		if r.Type != t {
			continue
		}
		if v := field(r); v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}

// ratio divides num by den; missing when den <= 0
func ratio(num, den decimal.Decimal) decimal.NullDecimal {
	if den.LessThanOrEqual(zero) {
		return numeric.Missing
	}
	return numeric.Of(num.Div(den))
}

func volume(q options.OptionQuote) decimal.NullDecimal       { return q.Volume }
func openInterest(q options.OptionQuote) decimal.NullDecimal { return q.OpenInterest }
