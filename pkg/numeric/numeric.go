// Package numeric turns raw export cells into decimals.
//
// The data provider writes thousands separators ("1,234"), percentage signs
// ("25%") and a handful of placeholder tokens for absent values. Every cell
// that cannot be read as a number becomes a missing value (Valid=false)
// instead of an error, so one bad cell never fails a row or a table.
package numeric

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MissingTokens are the literal cell values that mean "no data".
// They are part of the provider's export format and matched exactly.
var MissingTokens = []string{"unch", "N/A", ""}

var hundred = decimal.NewFromInt(100)

// Missing is the missing-value sentinel.
var Missing = decimal.NullDecimal{}

// Of wraps a present value.
func Of(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Parse cleans a single numeric cell: commas are stripped, missing tokens and
// unparseable text yield Missing.
func Parse(raw string) decimal.NullDecimal {
	s := strings.ReplaceAll(raw, ",", "")
	return parseClean(s)
}

// ParsePercentage cleans a single percentage cell and returns it as a
// fraction: "25%" -> 0.25.
func ParsePercentage(raw string) decimal.NullDecimal {
	s := strings.TrimRight(strings.TrimSpace(raw), "%")
	s = strings.ReplaceAll(s, ",", "")
	return toFraction(parseClean(s))
}

// NumericColumn applies Parse to every value.
func NumericColumn(values []string) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		out[i] = Parse(v)
	}
	return out
}

// PercentageColumn applies ParsePercentage to every value.
func PercentageColumn(values []string) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	for i, v := range values {
		out[i] = ParsePercentage(v)
	}
	return out
}

// Numeric converts a cell of any type. Strings go through Parse; numeric
// types are taken as they are.
func Numeric(v any) decimal.NullDecimal {
	switch x := v.(type) {
	case nil:
		return Missing
	case string:
		return Parse(x)
	case decimal.Decimal:
		return Of(x)
	case decimal.NullDecimal:
		return x
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return Of(decimal.NewFromInt(int64(x)))
	case int8:
		return Of(decimal.NewFromInt(int64(x)))
	case int16:
		return Of(decimal.NewFromInt(int64(x)))
	case int32:
		return Of(decimal.NewFromInt32(x))
	case int64:
		return Of(decimal.NewFromInt(x))
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return fromUint(uint64(x))
	case uint16:
		return fromUint(uint64(x))
	case uint32:
		return fromUint(uint64(x))
	case uint64:
		return fromUint(x)
	default:
		return Missing
	}
}

// Percentage converts a cell of any type to a fraction.
func Percentage(v any) decimal.NullDecimal {
	if s, ok := v.(string); ok {
		return ParsePercentage(s)
	}
	return toFraction(Numeric(v))
}

func parseClean(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if isMissingToken(s) {
		return Missing
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Missing
	}
	return Of(d)
}

func toFraction(n decimal.NullDecimal) decimal.NullDecimal {
	if !n.Valid {
		return Missing
	}
	return Of(n.Decimal.Div(hundred))
}

func fromFloat(f float64) decimal.NullDecimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	return Of(decimal.NewFromFloat(f))
}

func fromUint(u uint64) decimal.NullDecimal {
	return Of(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
}

func isMissingToken(s string) bool {
	for _, tok := range MissingTokens {
		if s == tok {
			return true
		}
	}
	return false
}
