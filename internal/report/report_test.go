package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"optionsrisk/internal/adapters/config"
	"optionsrisk/internal/analytics"
	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/services/snapshot"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/logger"
)

func val(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func testResult(t *testing.T) *snapshot.Result {
	t.Helper()
	exp := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	rows := []options.OptionQuote{
		{Symbol: "SPY", Type: options.Call, Strike: val("100"), ExpirationDate: &exp, UnderlyingPrice: val("102"),
			MidPrice: val("2"), Volume: val("1500"), OpenInterest: val("10"), IV: val("0.2"),
			Gamma: val("0.05"), Vega: val("0.1"), Theta: val("-0.02")},
		{Symbol: "SPY", Type: options.Put, Strike: val("105"), ExpirationDate: &exp, UnderlyingPrice: val("102"),
			Volume: val("30"), OpenInterest: val("5"), IV: val("0.25"),
			Gamma: val("0.04"), Vega: val("0.1"), Theta: val("-0.03")},
	}
	snap, err := analytics.NewEngine(logger.Nop()).Analyze(context.Background(), rows, analytics.Selection{})
	require.NoError(t, err)

	trades := []options.UnusualTrade{
		{Symbol: "SPY", Type: options.Put, Strike: val("95"), ExpirationDate: &exp, TradeTime: "10:01:02 ET",
			Side: "ask", OpenClose: "ToOpen", Size: val("1000"), Premium: val("125000"), IV: val("0.3")},
	}
	return &snapshot.Result{
		Expirations:   analytics.Expirations(rows),
		Snapshot:      snap,
		Flow:          trades,
		FlowFilter:    analytics.FlowFilter{MinPremium: decimal.NewFromInt(1000)},
		FlowSummary:   analytics.FlowSummary(trades),
		FlowSides:     []string{"ask"},
		FlowOpenClose: []string{"ToOpen"},
	}
}

func TestNew(t *testing.T) {
	r := New(testResult(t))
	require.NotNil(t, r.Chain)
	require.NotNil(t, r.Flow)

	assert.Equal(t, "2024-06-21", r.Chain.Expiration)
	assert.Equal(t, []string{"2024-06-21"}, r.Chain.Expirations)
	require.NotNil(t, r.Chain.Summary.MaxPainStrike)
	assert.Equal(t, 100.0, *r.Chain.Summary.MaxPainStrike)
	assert.Nil(t, r.Chain.PutCall[1].PCVolumeRatio, "no calls at 105")
	assert.Equal(t, 2000.0, *r.Chain.MoneyAtRisk[0].Value)

	assert.Equal(t, []string{"ask"}, r.Flow.Sides, "empty filter means every side")
	require.Len(t, r.Flow.Trades, 1)
	assert.Equal(t, 125000.0, *r.Flow.Trades[0].Premium)
	assert.Nil(t, r.Flow.Trades[0].Delta)
}

func TestNew_Unavailable(t *testing.T) {
	res := testResult(t)
	res.Snapshot = nil
	res.ChainErr = errors.Unavailable(errors.CodeFileUnreadable, "open Griegas.csv", nil)

	r := New(res)
	assert.Nil(t, r.Chain)
	assert.Contains(t, r.ChainError, "Griegas.csv")
	assert.NotNil(t, r.Flow)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.FormatJSON, New(testResult(t))))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	chain := doc["chain"].(map[string]any)
	summary := chain["summary"].(map[string]any)
	assert.Equal(t, 100.0, summary["max_pain_strike"])
	assert.Equal(t, 1530.0, summary["total_volume"])

	pc := chain["put_call_by_strike"].([]any)
	require.Len(t, pc, 2)
	assert.Nil(t, pc[1].(map[string]any)["pc_volume_ratio"])
	assert.NotContains(t, doc, "chain_error")
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.FormatYAML, New(testResult(t))))

	var doc struct {
		Chain struct {
			Summary struct {
				MaxPainStrike *float64 `yaml:"max_pain_strike"`
				Rows          int      `yaml:"rows"`
			} `yaml:"summary"`
		} `yaml:"chain"`
		Flow struct {
			Summary struct {
				Sentiment string `yaml:"sentiment"`
			} `yaml:"summary"`
		} `yaml:"flow"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.NotNil(t, doc.Chain.Summary.MaxPainStrike)
	assert.Equal(t, 100.0, *doc.Chain.Summary.MaxPainStrike)
	assert.Equal(t, 2, doc.Chain.Summary.Rows)
	assert.Equal(t, options.SentimentUnknown, doc.Flow.Summary.Sentiment)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.FormatText, New(testResult(t))))
	out := buf.String()

	assert.Contains(t, out, "Max pain strike")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "1,530")
	assert.Contains(t, out, "$125,000.00")
	assert.Contains(t, out, "10:01:02 ET")
	assert.Contains(t, out, "N/A")

	// pain at 105 is 10 calls x 5 intrinsic x 100; dealer vega at 100 is -0.1 x 10 x 100
	assert.Contains(t, out, "Pain")
	assert.Contains(t, out, "$5,000.00")
	assert.Contains(t, out, "Vega exposure")
	assert.Contains(t, out, "Theta exposure")
	assert.Contains(t, out, "-100")
}

func TestWrite_TextUnavailable(t *testing.T) {
	r := &Report{ChainError: "data unavailable", FlowError: "data unavailable"}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.FormatText, r))
	assert.Contains(t, buf.String(), "Option chain: no data")
	assert.Contains(t, buf.String(), "Unusual flow: no data")
}

func TestWrite_Expirations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, config.FormatText, Expirations{Expirations: []string{"2024-06-21", "2024-07-19"}}))
	assert.Equal(t, "2024-06-21\n2024-07-19\n", buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", &Report{})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
