// Package report turns snapshot results into plain output documents.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/services/snapshot"
)

// Report is the output document of one run. Missing values are null.
type Report struct {
	Chain      *ChainView `json:"chain,omitempty" yaml:"chain,omitempty"`
	ChainError string     `json:"chain_error,omitempty" yaml:"chain_error,omitempty"`
	Flow       *FlowView  `json:"flow,omitempty" yaml:"flow,omitempty"`
	FlowError  string     `json:"flow_error,omitempty" yaml:"flow_error,omitempty"`
}

type ChainView struct {
	SnapshotID  string        `json:"snapshot_id" yaml:"snapshot_id"`
	ComputedAt  time.Time     `json:"computed_at" yaml:"computed_at"`
	Expiration  string        `json:"expiration,omitempty" yaml:"expiration,omitempty"`
	Expirations []string      `json:"expirations" yaml:"expirations"`
	Summary     SummaryView   `json:"summary" yaml:"summary"`
	PutCall     []PutCallRow  `json:"put_call_by_strike" yaml:"put_call_by_strike"`
	MoneyAtRisk []StrikeValue `json:"money_at_risk" yaml:"money_at_risk"`
	PainCurve   []StrikeValue `json:"pain_curve" yaml:"pain_curve"`
	Gamma       []GammaRow    `json:"gamma_exposure" yaml:"gamma_exposure"`
	Vega        []StrikeValue `json:"vega_exposure" yaml:"vega_exposure"`
	Theta       []StrikeValue `json:"theta_exposure" yaml:"theta_exposure"`
	Activity    []ActivityRow `json:"strike_activity" yaml:"strike_activity"`
	CallIVSmile []StrikeValue `json:"call_iv_smile" yaml:"call_iv_smile"`
	PutIVSmile  []StrikeValue `json:"put_iv_smile" yaml:"put_iv_smile"`
}

type SummaryView struct {
	Rows              int      `json:"rows" yaml:"rows"`
	UnderlyingPrice   *float64 `json:"underlying_price" yaml:"underlying_price"`
	TotalVolume       float64  `json:"total_volume" yaml:"total_volume"`
	TotalOpenInterest float64  `json:"total_open_interest" yaml:"total_open_interest"`
	PCVolumeRatio     *float64 `json:"pc_volume_ratio" yaml:"pc_volume_ratio"`
	PCOIRatio         *float64 `json:"pc_oi_ratio" yaml:"pc_oi_ratio"`
	MaxPainStrike     *float64 `json:"max_pain_strike" yaml:"max_pain_strike"`
	MaxPainDistance   *float64 `json:"max_pain_distance" yaml:"max_pain_distance"`
	GammaFlipStrike   *float64 `json:"gamma_flip_strike" yaml:"gamma_flip_strike"`
}

type PutCallRow struct {
	Strike        float64  `json:"strike" yaml:"strike"`
	PCVolumeRatio *float64 `json:"pc_volume_ratio" yaml:"pc_volume_ratio"`
	PCOIRatio     *float64 `json:"pc_oi_ratio" yaml:"pc_oi_ratio"`
}

// StrikeValue is one point of a per-strike series
type StrikeValue struct {
	Strike float64  `json:"strike" yaml:"strike"`
	Value  *float64 `json:"value" yaml:"value"`
}

type GammaRow struct {
	Strike     float64  `json:"strike" yaml:"strike"`
	DealerGEX  *float64 `json:"dealer_gex" yaml:"dealer_gex"`
	Cumulative *float64 `json:"cumulative_dealer_gex" yaml:"cumulative_dealer_gex"`
}

type ActivityRow struct {
	Strike     float64 `json:"strike" yaml:"strike"`
	CallVolume float64 `json:"call_volume" yaml:"call_volume"`
	PutVolume  float64 `json:"put_volume" yaml:"put_volume"`
	CallOI     float64 `json:"call_oi" yaml:"call_oi"`
	PutOI      float64 `json:"put_oi" yaml:"put_oi"`
}

type FlowView struct {
	MinPremium     float64     `json:"min_premium" yaml:"min_premium"`
	Sides          []string    `json:"sides" yaml:"sides"`
	OpenClose      []string    `json:"open_close" yaml:"open_close"`
	AvailableSides []string    `json:"available_sides" yaml:"available_sides"`
	AvailableOC    []string    `json:"available_open_close" yaml:"available_open_close"`
	Summary        FlowSummary `json:"summary" yaml:"summary"`
	Trades         []TradeRow  `json:"trades" yaml:"trades"`
}

type FlowSummary struct {
	Trades              int      `json:"trades" yaml:"trades"`
	TotalPremium        float64  `json:"total_premium" yaml:"total_premium"`
	CallPremium         float64  `json:"call_premium" yaml:"call_premium"`
	PutPremium          float64  `json:"put_premium" yaml:"put_premium"`
	PutCallPremiumRatio *float64 `json:"put_call_premium_ratio" yaml:"put_call_premium_ratio"`
	LargestTradePremium *float64 `json:"largest_trade_premium" yaml:"largest_trade_premium"`
	Sentiment           string   `json:"sentiment" yaml:"sentiment"`
}

type TradeRow struct {
	Symbol          string   `json:"symbol" yaml:"symbol"`
	Type            string   `json:"type" yaml:"type"`
	Strike          *float64 `json:"strike" yaml:"strike"`
	ExpirationDate  string   `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
	TradeTime       string   `json:"trade_time" yaml:"trade_time"`
	Side            string   `json:"side" yaml:"side"`
	OpenClose       string   `json:"open_close" yaml:"open_close"`
	Trade           *float64 `json:"trade" yaml:"trade"`
	Size            *float64 `json:"size" yaml:"size"`
	Premium         *float64 `json:"premium" yaml:"premium"`
	Volume          *float64 `json:"volume" yaml:"volume"`
	OpenInterest    *float64 `json:"open_interest" yaml:"open_interest"`
	IV              *float64 `json:"iv" yaml:"iv"`
	Delta           *float64 `json:"delta" yaml:"delta"`
	UnderlyingPrice *float64 `json:"underlying_price" yaml:"underlying_price"`
}

// New builds the output document from a snapshot result
func New(res *snapshot.Result) *Report {
	r := &Report{}
	if res.ChainErr != nil {
		r.ChainError = res.ChainErr.Error()
	} else if res.Snapshot != nil {
		r.Chain = chainView(res.Snapshot, res.Expirations)
	}
	if res.FlowErr != nil {
		r.FlowError = res.FlowErr.Error()
	} else {
		r.Flow = flowView(res)
	}
	return r
}

func chainView(s *options.Snapshot, expirations []time.Time) *ChainView {
	v := &ChainView{
		SnapshotID:  s.ID.String(),
		ComputedAt:  s.ComputedAt,
		Expiration:  formatDate(s.Expiration),
		Expirations: make([]string, len(expirations)),
		Summary: SummaryView{
			Rows:              s.Summary.Rows,
			UnderlyingPrice:   ptr(s.Summary.UnderlyingPrice),
			TotalVolume:       num(s.Summary.TotalVolume),
			TotalOpenInterest: num(s.Summary.TotalOpenInterest),
			PCVolumeRatio:     ptr(s.Summary.PCVolumeRatio),
			PCOIRatio:         ptr(s.Summary.PCOIRatio),
			MaxPainStrike:     ptr(s.Summary.MaxPainStrike),
			MaxPainDistance:   ptr(s.Summary.MaxPainDistance),
			GammaFlipStrike:   ptr(s.Summary.GammaFlipStrike),
		},
	}
	for i, e := range expirations {
		v.Expirations[i] = e.Format(time.DateOnly)
	}

	for _, p := range s.PutCallByStrike {
		v.PutCall = append(v.PutCall, PutCallRow{
			Strike:        num(p.Strike.Decimal),
			PCVolumeRatio: ptr(p.PCVolumeRatio),
			PCOIRatio:     ptr(p.PCOIRatio),
		})
	}
	for _, m := range s.MoneyAtRisk {
		v.MoneyAtRisk = append(v.MoneyAtRisk, point(m.Strike, decimal.NewNullDecimal(m.MoneyAtRisk)))
	}
	for _, p := range s.PainCurve {
		v.PainCurve = append(v.PainCurve, point(p.Strike, decimal.NewNullDecimal(p.TotalCashValue)))
	}
	for _, g := range s.GammaExposure {
		v.Gamma = append(v.Gamma, GammaRow{
			Strike:     num(g.Strike),
			DealerGEX:  ptr(g.DealerGEX),
			Cumulative: ptr(g.CumulativeDealerGEX),
		})
	}
	for _, e := range s.VegaExposure {
		v.Vega = append(v.Vega, point(e.Strike, e.DealerVegaExposure))
	}
	for _, e := range s.ThetaExposure {
		v.Theta = append(v.Theta, point(e.Strike, e.DealerThetaExposure))
	}
	for _, a := range s.StrikeActivity {
		v.Activity = append(v.Activity, ActivityRow{
			Strike:     num(a.Strike),
			CallVolume: num(a.CallVolume),
			PutVolume:  num(a.PutVolume),
			CallOI:     num(a.CallOI),
			PutOI:      num(a.PutOI),
		})
	}
	for _, p := range s.CallIVSmile {
		v.CallIVSmile = append(v.CallIVSmile, point(p.Strike, p.IV))
	}
	for _, p := range s.PutIVSmile {
		v.PutIVSmile = append(v.PutIVSmile, point(p.Strike, p.IV))
	}
	return v
}

func flowView(res *snapshot.Result) *FlowView {
	fs := res.FlowSummary
	v := &FlowView{
		MinPremium:     num(res.FlowFilter.MinPremium),
		Sides:          orAll(res.FlowFilter.Sides, res.FlowSides),
		OpenClose:      orAll(res.FlowFilter.OpenClose, res.FlowOpenClose),
		AvailableSides: res.FlowSides,
		AvailableOC:    res.FlowOpenClose,
		Summary: FlowSummary{
			Trades:              fs.Trades,
			TotalPremium:        num(fs.TotalPremium),
			CallPremium:         num(fs.CallPremium),
			PutPremium:          num(fs.PutPremium),
			PutCallPremiumRatio: ptr(fs.PutCallPremiumRatio),
			LargestTradePremium: ptr(fs.LargestTradePremium),
			Sentiment:           fs.Sentiment,
		},
		Trades: make([]TradeRow, len(res.Flow)),
	}
	for i, t := range res.Flow {
		v.Trades[i] = TradeRow{
			Symbol:          t.Symbol,
			Type:            string(t.Type),
			Strike:          ptr(t.Strike),
			ExpirationDate:  formatDate(t.ExpirationDate),
			TradeTime:       t.TradeTime,
			Side:            t.Side,
			OpenClose:       t.OpenClose,
			Trade:           ptr(t.Trade),
			Size:            ptr(t.Size),
			Premium:         ptr(t.Premium),
			Volume:          ptr(t.Volume),
			OpenInterest:    ptr(t.OpenInterest),
			IV:              ptr(t.IV),
			Delta:           ptr(t.Delta),
			UnderlyingPrice: ptr(t.UnderlyingPrice),
		}
	}
	return v
}

// orAll reports the effective filter: an empty list means every value
func orAll(selected, available []string) []string {
	if len(selected) == 0 {
		return available
	}
	return selected
}

func point(strike decimal.Decimal, v decimal.NullDecimal) StrikeValue {
	return StrikeValue{Strike: num(strike), Value: ptr(v)}
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func ptr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
