package options

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ContractMultiplier is the number of shares one listed option controls
const ContractMultiplier = 100

// OptionType is the lower-cased contract side as it appears in the exports
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType lower-cases the raw value. Unknown values are kept as they are.
func ParseOptionType(raw string) OptionType {
	return OptionType(strings.ToLower(strings.TrimSpace(raw)))
}

// Valid reports whether the type is call or put
func (t OptionType) Valid() bool {
	return t == Call || t == Put
}

// OptionQuote is one row of the option chain ("greeks") export.
// Numeric fields are missing (Valid=false) when the source cell was blank or
// not a number; missing is never the same as zero.
type OptionQuote struct {
	Symbol          string
	Type            OptionType
	Strike          decimal.NullDecimal
	ExpirationDate  *time.Time // date only, midnight UTC
	UnderlyingPrice decimal.NullDecimal
	Bid             decimal.NullDecimal
	Ask             decimal.NullDecimal
	MidPrice        decimal.NullDecimal // (Bid+Ask)/2
	Volume          decimal.NullDecimal
	OpenInterest    decimal.NullDecimal
	IV              decimal.NullDecimal // fraction, 0.25 == 25%
	ITMProbability  decimal.NullDecimal // fraction
	Delta           decimal.NullDecimal
	Gamma           decimal.NullDecimal
	Theta           decimal.NullDecimal
	Vega            decimal.NullDecimal
	LastTradeDate   *time.Time
}

// UnusualTrade is one row of the unusual options flow export
type UnusualTrade struct {
	Symbol             string
	Type               OptionType
	Strike             decimal.NullDecimal
	ExpirationDateTime *time.Time
	ExpirationDate     *time.Time // date part of ExpirationDateTime
	TradeTime          string     // raw provider text
	Side               string
	OpenClose          string
	Trade              decimal.NullDecimal // execution price
	Size               decimal.NullDecimal // contracts
	Premium            decimal.NullDecimal // Trade * Size * multiplier, as exported
	Volume             decimal.NullDecimal
	OpenInterest       decimal.NullDecimal
	IV                 decimal.NullDecimal // fraction
	Delta              decimal.NullDecimal
	UnderlyingPrice    decimal.NullDecimal
	DTE                decimal.NullDecimal
}

// MidPrice returns (bid+ask)/2, missing when either side is missing
func MidPrice(bid, ask decimal.NullDecimal) decimal.NullDecimal {
	if !bid.Valid || !ask.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: bid.Decimal.Add(ask.Decimal).Div(decimal.NewFromInt(2)), Valid: true}
}

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
