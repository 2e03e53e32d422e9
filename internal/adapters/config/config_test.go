package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionsrisk/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "optionsrisk", cfg.App.Name)
	assert.Equal(t, "Inusual.csv", cfg.Data.TradesPath)
	assert.False(t, cfg.ErrorTracking.Enabled)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CHAIN_CSV_PATH", "/data/chain.csv")
	t.Setenv("TRADES_CSV_PATH", "/data/flow.csv")
	t.Setenv("ANALYSIS_EXPIRATION", "2024-06-21")
	t.Setenv("OUTPUT_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/data/chain.csv", cfg.Data.ChainPath)
	assert.Equal(t, "/data/flow.csv", cfg.Data.TradesPath)
	assert.Equal(t, FormatJSON, cfg.Analysis.OutputFormat)

	exp, err := cfg.Analysis.ExpirationDate()
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), *exp)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Data:     DataConfig{ChainPath: "a.csv"},
		Analysis: AnalysisConfig{OutputFormat: "xml", Expiration: "21/06/2024"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	var multi *errors.MultiError
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.Errors, 2)
}

func TestExpirationDate_Unset(t *testing.T) {
	exp, err := AnalysisConfig{}.ExpirationDate()
	require.NoError(t, err)
	assert.Nil(t, exp)
}
