package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainFixture = `Symbol,Type,Strike,Exp Date,Price~,Bid,Ask,Volume,Open Int,IV,ITM Prob,Delta,Gamma,Theta,Vega,Time
SPY,Call,100,06/21/24,102,2.00,2.20,150,10,20%,55%,0.55,0.05,-0.02,0.10,06/14/24
SPY,Put,105,06/21/24,102,3.00,3.40,30,5,25%,60%,-0.60,0.04,-0.03,0.10,06/14/24
SPY,Call,110,07/19/24,102,0.50,0.60,10,40,18%,10%,0.10,0.01,-0.01,0.05,06/14/24
`

const tradesFixture = `Symbol,Price~,Type,Strike,Expires,DTE,Trade,Size,Premium,Side,*,Volume,Open Int,IV,Delta,Time
SPY,102,Put,95,2024-06-21,7,1.25,"1,000","125,000",ask,ToOpen,"2,000",500,30%,-0.2,10:01:02 ET
SPY,102,Call,110,2024-06-21,7,0.40,100,"4,000",bid,ToClose,300,40,18%,0.1,10:05:00 ET
`

func fixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	chain := filepath.Join(dir, "Griegas.csv")
	trades := filepath.Join(dir, "Inusual.csv")
	require.NoError(t, os.WriteFile(chain, []byte(chainFixture), 0o600))
	require.NoError(t, os.WriteFile(trades, []byte(tradesFixture), 0o600))
	return chain, trades
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	root, a := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	a.shutdown(context.Background())
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	chain, trades := fixtures(t)

	out, err := execute(t, "report", "--chain", chain, "--trades", trades, "--format", "json", "--expiration", "2024-06-21")
	require.NoError(t, err)

	var doc struct {
		Chain struct {
			Expiration  string   `json:"expiration"`
			Expirations []string `json:"expirations"`
			Summary     struct {
				Rows          int      `json:"rows"`
				MaxPainStrike *float64 `json:"max_pain_strike"`
			} `json:"summary"`
		} `json:"chain"`
		Flow struct {
			Trades []json.RawMessage `json:"trades"`
		} `json:"flow"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2024-06-21", doc.Chain.Expiration)
	assert.Equal(t, []string{"2024-06-21", "2024-07-19"}, doc.Chain.Expirations)
	assert.Equal(t, 2, doc.Chain.Summary.Rows)
	require.NotNil(t, doc.Chain.Summary.MaxPainStrike)
	assert.Equal(t, 100.0, *doc.Chain.Summary.MaxPainStrike)
	assert.Len(t, doc.Flow.Trades, 1, "default minimum premium drops the small trade")
}

func TestFlowCommand(t *testing.T) {
	chain, trades := fixtures(t)

	out, err := execute(t, "flow", "--chain", chain, "--trades", trades, "--format", "yaml", "--min-premium", "0", "--side", "bid")
	require.NoError(t, err)
	assert.NotContains(t, out, "chain:")
	assert.Contains(t, out, "side: bid")
	assert.NotContains(t, out, "side: ask")
}

func TestFlowCommand_WithoutChain(t *testing.T) {
	_, trades := fixtures(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	out, err := execute(t, "flow", "--chain", missing, "--trades", trades, "--format", "json")
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.NotContains(t, doc, "chain")
	assert.NotContains(t, doc, "chain_error")
	assert.Contains(t, doc, "flow")
}

func TestExpirationsCommand(t *testing.T) {
	chain, trades := fixtures(t)

	out, err := execute(t, "expirations", "--chain", chain, "--trades", trades, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-21", "2024-07-19"}, strings.Fields(out))
}

func TestReportCommand_Errors(t *testing.T) {
	chain, trades := fixtures(t)

	_, err := execute(t, "report", "--chain", chain, "--trades", trades, "--expiration", "2030-01-01")
	assert.Error(t, err)

	_, err = execute(t, "report", "--chain", chain, "--trades", trades, "--format", "xml")
	assert.Error(t, err)

	missing := filepath.Join(t.TempDir(), "nope.csv")
	_, err = execute(t, "report", "--chain", missing, "--trades", missing)
	assert.Error(t, err)

	_, err = execute(t, "flow", "--chain", chain, "--trades", trades, "--min-premium", "lots")
	assert.Error(t, err)
}
