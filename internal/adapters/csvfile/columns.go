package csvfile

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/numeric"
)

// columns holds the typed numeric columns of one table, keyed by canonical name
type columns map[string][]decimal.NullDecimal

// normalize parses the listed columns that exist in t and counts cells that
// degraded to missing
func (c columns) normalize(t *Table, source string, names []string, parse func([]string) []decimal.NullDecimal) {
	for _, name := range names {
		raw := t.Column(name)
		if raw == nil {
			continue
		}
		parsed := parse(raw)
		c[name] = parsed

		missing := 0
		for _, v := range parsed {
			if !v.Valid {
				missing++
			}
		}
		metrics.RecordMissingCells(source, name, missing)
	}
}

func (c columns) at(name string, row int) decimal.NullDecimal {
	col, ok := c[name]
	if !ok {
		return numeric.Missing
	}
	return col[row]
}

// parseTime accepts the loose date formats found in provider exports.
// Anything unparseable is missing.
func parseTime(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || s == "N/A" || s == "unch" {
		return nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// parseDate is parseTime truncated to the calendar day
func parseDate(raw string) *time.Time {
	t := parseTime(raw)
	if t == nil {
		return nil
	}
	d := options.DateOnly(*t)
	return &d
}
