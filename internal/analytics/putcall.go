package analytics

import (
	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/numeric"
)

// PutCallRatio computes put/call ratios of volume and open interest, either
// per strike or as a single options.TotalLevel row. Missing cells are left out
// of the sums. A ratio whose call side sums to zero is missing.
func PutCallRatio(rows []options.OptionQuote, byStrike bool) []options.PCRatio {
	if len(rows) == 0 {
		return []options.PCRatio{}
	}

	if !byStrike {
		r := pcRatio(rows)
		r.Level = options.TotalLevel
		return []options.PCRatio{r}
	}

	groups := groupByStrike(rows)
	out := make([]options.PCRatio, len(groups))
	for i, g := range groups {
		r := pcRatio(g.Rows)
		r.Strike = numeric.Of(g.Strike)
		out[i] = r
	}
	return out
}

func pcRatio(rows []options.OptionQuote) options.PCRatio {
	return options.PCRatio{
		PCVolumeRatio: ratio(sumWhere(rows, options.Put, volume), sumWhere(rows, options.Call, volume)),
		PCOIRatio:     ratio(sumWhere(rows, options.Put, openInterest), sumWhere(rows, options.Call, openInterest)),
	}
}
