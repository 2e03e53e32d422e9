package analytics

import (
	"optionsrisk/internal/domain/options"
)

// MoneyAtRisk sums OI * MidPrice * 100 by strike. A missing mid price counts
// as zero; a row without open interest contributes nothing.
func MoneyAtRisk(rows []options.OptionQuote) []options.MoneyAtRisk {
	groups := groupByStrike(rows)
	out := make([]options.MoneyAtRisk, len(groups))
	for i, g := range groups {
		total := zero
		for _, r := range g.Rows {
			if !r.OpenInterest.Valid {
				continue
			}
			mid := zero
			if r.MidPrice.Valid {
				mid = r.MidPrice.Decimal
			}
			total = total.Add(r.OpenInterest.Decimal.Mul(mid).Mul(multiplier))
		}
		out[i] = options.MoneyAtRisk{Strike: g.Strike, MoneyAtRisk: total}
	}
	return out
}
