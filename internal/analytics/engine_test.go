package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/logger"
)

func newTestEngine() *Engine {
	e := NewEngine(logger.Nop())
	e.now = func() time.Time { return time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC) }
	return e
}

func TestEngineAnalyze(t *testing.T) {
	rows := threeRowChain()

	snap, err := newTestEngine().Analyze(context.Background(), rows, Selection{})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, snap.ID)
	assert.Equal(t, time.Date(2024, 6, 14, 15, 30, 0, 0, time.UTC), snap.ComputedAt)
	require.NotNil(t, snap.Expiration)
	assert.Equal(t, *date(2024, 6, 21), *snap.Expiration)

	s := snap.Summary
	assert.Equal(t, 3, s.Rows)
	assertValue(t, "104", s.UnderlyingPrice)
	assertDecimal(t, "190", s.TotalVolume)
	assertDecimal(t, "1000", s.TotalOpenInterest)
	assertValue(t, "0.25", s.PCOIRatio)
	assertValue(t, "100", s.MaxPainStrike)
	assertValue(t, "110", s.GammaFlipStrike)
	require.True(t, s.MaxPainDistance.Valid)
	dist, _ := s.MaxPainDistance.Decimal.Float64()
	assert.InDelta(t, -4.0/104.0, dist, 1e-12)

	assert.Len(t, snap.PutCallByStrike, 2)
	assert.Len(t, snap.MoneyAtRisk, 2)
	assert.Len(t, snap.PainCurve, 2)
	assert.Len(t, snap.GammaExposure, 2)
	assert.Len(t, snap.VegaExposure, 2)
	assert.Len(t, snap.ThetaExposure, 2)
	assert.Len(t, snap.StrikeActivity, 2)
	assert.Len(t, snap.CallIVSmile, 2)
	assert.Len(t, snap.PutIVSmile, 1)

	again, err := newTestEngine().Analyze(context.Background(), rows, Selection{})
	require.NoError(t, err)
	assert.NotEqual(t, snap.ID, again.ID)
	assert.Equal(t, snap.Summary, again.Summary)
	assert.Equal(t, snap.GammaExposure, again.GammaExposure)
}

func TestEngineAnalyze_CompletenessFilters(t *testing.T) {
	rows := threeRowChain()
	incomplete := rows[1]
	incomplete.Gamma.Valid = false
	incomplete.Strike = nd("105")
	rows = append(rows, incomplete)

	before := testutil.ToFloat64(metrics.RowsExcluded.WithLabelValues(MetricGamma))

	snap, err := newTestEngine().Analyze(context.Background(), rows, Selection{})
	require.NoError(t, err)

	assert.Len(t, snap.GammaExposure, 2, "row without gamma is left out of GEX")
	assert.Len(t, snap.VegaExposure, 3)
	assert.Len(t, snap.PainCurve, 3)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RowsExcluded.WithLabelValues(MetricGamma)))
}

func TestEngineAnalyze_Unavailable(t *testing.T) {
	e := newTestEngine()

	_, err := e.Analyze(context.Background(), nil, Selection{})
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))

	undated := []options.OptionQuote{quote(options.Call, "100", "1", "0.01")}
	_, err = e.Analyze(context.Background(), undated, Selection{})
	assert.True(t, errors.IsUnavailable(err))

	_, err = e.Analyze(context.Background(), threeRowChain(), Selection{Expiration: date(2030, 1, 1)})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Analyze(ctx, threeRowChain(), Selection{})
	assert.ErrorIs(t, err, context.Canceled)
}
