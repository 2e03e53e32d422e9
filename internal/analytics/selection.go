package analytics

import (
	"slices"
	"time"

	"optionsrisk/internal/domain/options"
	"optionsrisk/pkg/errors"
)

// Selection is the caller's choice of chain slice. A nil Expiration selects
// the latest listed expiration.
type Selection struct {
	Expiration *time.Time
}

// Expirations returns the distinct valid expiration dates, ascending
func Expirations(rows []options.OptionQuote) []time.Time {
	var out []time.Time
	for _, r := range rows {
		if r.ExpirationDate == nil {
			continue
		}
		d := options.DateOnly(*r.ExpirationDate)
		if !slices.ContainsFunc(out, d.Equal) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// SelectChain returns a copy of the rows in the selected slice.
//
// With no valid expiration the result is empty. With exactly one listed
// expiration the whole table is returned, rows without a date included.
// Asking for an expiration that is not listed is a validation error.
func SelectChain(rows []options.OptionQuote, sel Selection) ([]options.OptionQuote, error) {
	exps := Expirations(rows)
	if len(exps) == 0 {
		return []options.OptionQuote{}, nil
	}

	target := exps[len(exps)-1]
	if sel.Expiration != nil {
		target = options.DateOnly(*sel.Expiration)
		if !slices.ContainsFunc(exps, target.Equal) {
			return nil, errors.NewValidationError("expiration", "not listed in the chain", target.Format(time.DateOnly))
		}
	}

	if len(exps) == 1 {
		return slices.Clone(rows), nil
	}

	out := make([]options.OptionQuote, 0, len(rows))
	for _, r := range rows {
		if r.ExpirationDate != nil && options.DateOnly(*r.ExpirationDate).Equal(target) {
			out = append(out, r)
		}
	}
	return out, nil
}
