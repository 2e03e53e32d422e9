package options

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TotalLevel labels the single whole-slice put/call row
const TotalLevel = "Total"

// PCRatio is a put/call ratio row. Per-strike rows carry Strike; the
// whole-slice row carries Level == TotalLevel and no strike.
// A ratio is missing when the call side sums to zero.
type PCRatio struct {
	Strike        decimal.NullDecimal
	Level         string
	PCVolumeRatio decimal.NullDecimal
	PCOIRatio     decimal.NullDecimal
}

// MoneyAtRisk is the premium value outstanding at a strike: OI * mid * 100
type MoneyAtRisk struct {
	Strike      decimal.Decimal
	MoneyAtRisk decimal.Decimal
}

// PainPoint is the intrinsic cash value owed to holders if the underlying
// settles at Strike
type PainPoint struct {
	Strike         decimal.Decimal
	TotalCashValue decimal.Decimal
}

// GammaExposure is dealer gamma at a strike plus the running sum over
// ascending strikes
type GammaExposure struct {
	Strike              decimal.Decimal
	DealerGEX           decimal.NullDecimal
	CumulativeDealerGEX decimal.NullDecimal
}

type VegaExposure struct {
	Strike             decimal.Decimal
	DealerVegaExposure decimal.NullDecimal
}

type ThetaExposure struct {
	Strike              decimal.Decimal
	DealerThetaExposure decimal.NullDecimal
}

// StrikeActivity splits volume and open interest by side at a strike
type StrikeActivity struct {
	Strike     decimal.Decimal
	CallVolume decimal.Decimal
	PutVolume  decimal.Decimal
	CallOI     decimal.Decimal
	PutOI      decimal.Decimal
}

// IVPoint is the mean implied volatility (fraction) at a strike for one side
type IVPoint struct {
	Strike decimal.Decimal
	IV     decimal.NullDecimal
}

// Summary holds the headline numbers of a chain slice
type Summary struct {
	Rows              int
	UnderlyingPrice   decimal.NullDecimal
	TotalVolume       decimal.Decimal
	TotalOpenInterest decimal.Decimal
	PCVolumeRatio     decimal.NullDecimal
	PCOIRatio         decimal.NullDecimal
	MaxPainStrike     decimal.NullDecimal
	MaxPainDistance   decimal.NullDecimal // (max pain - spot) / spot
	GammaFlipStrike   decimal.NullDecimal
}

// Snapshot is the output of one computation pass over a chain slice.
// Nothing in it is shared with the input rows.
type Snapshot struct {
	ID              uuid.UUID
	ComputedAt      time.Time
	Expiration      *time.Time
	Summary         Summary
	PutCallByStrike []PCRatio
	MoneyAtRisk     []MoneyAtRisk
	PainCurve       []PainPoint
	GammaExposure   []GammaExposure
	VegaExposure    []VegaExposure
	ThetaExposure   []ThetaExposure
	StrikeActivity  []StrikeActivity
	CallIVSmile     []IVPoint
	PutIVSmile      []IVPoint
}

// Flow sentiment labels, read from the premium-weighted put/call ratio
const (
	SentimentVeryBearish = "very_bearish"
	SentimentBearish     = "bearish"
	SentimentNeutral     = "neutral"
	SentimentBullish     = "bullish"
	SentimentVeryBullish = "very_bullish"
	SentimentUnknown     = "unknown"
)

// FlowSummary aggregates a filtered set of unusual trades
type FlowSummary struct {
	Trades              int
	TotalPremium        decimal.Decimal
	CallPremium         decimal.Decimal
	PutPremium          decimal.Decimal
	PutCallPremiumRatio decimal.NullDecimal // missing when no call premium
	Sentiment           string
	LargestTradePremium decimal.NullDecimal
}
