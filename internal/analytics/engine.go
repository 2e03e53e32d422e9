package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/logger"
	"optionsrisk/pkg/numeric"
)

// Metric names used for timings and exclusion counts
const (
	MetricPutCall     = "put_call_ratio"
	MetricMoneyAtRisk = "money_at_risk"
	MetricMaxPain     = "max_pain"
	MetricGamma       = "gamma_exposure"
	MetricVega        = "vega_exposure"
	MetricTheta       = "theta_exposure"
	MetricActivity    = "strike_activity"
	MetricIVSmile     = "iv_smile"
)

// Engine runs every metric over one chain slice
type Engine struct {
	log *logger.Logger
	now func() time.Time
}

// NewEngine creates a metric engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		log: log.With("component", "metric_engine"),
		now: time.Now,
	}
}

// Analyze selects the requested slice and computes a Snapshot from it.
// An empty slice is reported as ErrDataUnavailable.
func (e *Engine) Analyze(ctx context.Context, rows []options.OptionQuote, sel Selection) (*options.Snapshot, error) {
	slice, err := SelectChain(rows, sel)
	if err != nil {
		return nil, err
	}
	if len(slice) == 0 {
		return nil, errors.Unavailable(errors.CodeEmptySelection, "no chain rows for the selected expiration", nil)
	}

	snap := &options.Snapshot{
		ID:         uuid.New(),
		ComputedAt: e.now().UTC(),
		Expiration: sliceExpiration(slice, sel),
	}
	log := e.log.With("snapshot_id", snap.ID.String(), "rows", len(slice))

	painRows := e.complete(MetricMaxPain, slice, func(q options.OptionQuote) bool {
		return q.Strike.Valid && q.Type.Valid() && q.OpenInterest.Valid
	})
	gammaRows := e.complete(MetricGamma, slice, greekComplete(Gamma))
	vegaRows := e.complete(MetricVega, slice, greekComplete(Vega))
	thetaRows := e.complete(MetricTheta, slice, greekComplete(Theta))

	var (
		totals    []options.PCRatio
		gammaFlip decimal.NullDecimal
	)
	steps := []struct {
		metric string
		run    func()
	}{
		{MetricPutCall, func() {
			snap.PutCallByStrike = PutCallRatio(slice, true)
			totals = PutCallRatio(slice, false)
		}},
		{MetricMoneyAtRisk, func() { snap.MoneyAtRisk = MoneyAtRisk(slice) }},
		{MetricMaxPain, func() { snap.PainCurve = PainCurve(painRows) }},
		{MetricGamma, func() { snap.GammaExposure, gammaFlip = GammaExposure(gammaRows) }},
		{MetricVega, func() { snap.VegaExposure = VegaExposure(vegaRows) }},
		{MetricTheta, func() { snap.ThetaExposure = ThetaExposure(thetaRows) }},
		{MetricActivity, func() { snap.StrikeActivity = StrikeActivity(slice) }},
		{MetricIVSmile, func() {
			snap.CallIVSmile = IVSmile(slice, options.Call)
			snap.PutIVSmile = IVSmile(slice, options.Put)
		}},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		step.run()
		metrics.RecordComputation(step.metric, time.Since(start))
	}

	snap.Summary = summarize(slice, totals, minPain(snap.PainCurve), gammaFlip)

	log.Infow("Snapshot computed",
		"expiration", formatDate(snap.Expiration),
		"strikes", len(snap.PutCallByStrike),
		"max_pain", snap.Summary.MaxPainStrike,
		"gamma_flip", snap.Summary.GammaFlipStrike,
	)

	return snap, nil
}

// complete keeps the rows that satisfy keep and records how many were dropped
func (e *Engine) complete(metric string, rows []options.OptionQuote, keep func(options.OptionQuote) bool) []options.OptionQuote {
	out := make([]options.OptionQuote, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	if dropped := len(rows) - len(out); dropped > 0 {
		metrics.RecordExcluded(metric, dropped)
		e.log.Debugw("Rows excluded from metric", "metric", metric, "excluded", dropped)
	}
	return out
}

func greekComplete(greek Greek) func(options.OptionQuote) bool {
	return func(q options.OptionQuote) bool {
		return q.Strike.Valid && greek(q).Valid && q.OpenInterest.Valid
	}
}

func summarize(rows []options.OptionQuote, totals []options.PCRatio, maxPain, flip decimal.NullDecimal) options.Summary {
	s := options.Summary{
		Rows:              len(rows),
		TotalVolume:       zero,
		TotalOpenInterest: zero,
		MaxPainStrike:     maxPain,
		GammaFlipStrike:   flip,
	}
	if len(rows) > 0 {
		s.UnderlyingPrice = rows[0].UnderlyingPrice
	}
	for _, r := range rows {
		if r.Volume.Valid {
			s.TotalVolume = s.TotalVolume.Add(r.Volume.Decimal)
		}
		if r.OpenInterest.Valid {
			s.TotalOpenInterest = s.TotalOpenInterest.Add(r.OpenInterest.Decimal)
		}
	}
	if len(totals) == 1 {
		s.PCVolumeRatio = totals[0].PCVolumeRatio
		s.PCOIRatio = totals[0].PCOIRatio
	}
	if maxPain.Valid && s.UnderlyingPrice.Valid && !s.UnderlyingPrice.Decimal.IsZero() {
		spot := s.UnderlyingPrice.Decimal
		s.MaxPainDistance = numeric.Of(maxPain.Decimal.Sub(spot).Div(spot))
	}
	return s
}

// sliceExpiration names the expiration the slice was cut at
func sliceExpiration(slice []options.OptionQuote, sel Selection) *time.Time {
	if sel.Expiration != nil {
		d := options.DateOnly(*sel.Expiration)
		return &d
	}
	exps := Expirations(slice)
	if len(exps) == 0 {
		return nil
	}
	d := exps[len(exps)-1]
	return &d
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
