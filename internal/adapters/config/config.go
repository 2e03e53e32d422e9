package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"optionsrisk/pkg/errors"
)

// DateLayout is the layout used for expiration dates on the command line and in env
const DateLayout = "2006-01-02"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	App           AppConfig
	Data          DataConfig
	Analysis      AnalysisConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"optionsrisk"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// DataConfig points at the two provider exports
type DataConfig struct {
	ChainPath  string `envconfig:"CHAIN_CSV_PATH" default:"Griegas.csv"`
	TradesPath string `envconfig:"TRADES_CSV_PATH" default:"Inusual.csv"`
}

type AnalysisConfig struct {
	// Expiration selects the chain slice (YYYY-MM-DD). Empty means the latest listed expiration.
	Expiration   string `envconfig:"ANALYSIS_EXPIRATION"`
	OutputFormat string `envconfig:"OUTPUT_FORMAT" default:"text"`
}

type MetricsConfig struct {
	// TextfilePath, when set, receives a prometheus text dump after each run
	TextfilePath string `envconfig:"METRICS_TEXTFILE"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// ExpirationDate parses Analysis.Expiration; nil when unset
func (c AnalysisConfig) ExpirationDate() (*time.Time, error) {
	if c.Expiration == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, c.Expiration)
	if err != nil {
		return nil, errors.NewValidationError("ANALYSIS_EXPIRATION", "expected YYYY-MM-DD", c.Expiration)
	}
	return &t, nil
}

// Validate checks values envconfig cannot check by itself
func (c *Config) Validate() error {
	var errs errors.MultiError

	switch c.Analysis.OutputFormat {
	case FormatText, FormatJSON, FormatYAML:
	default:
		errs.Add(errors.NewValidationError("OUTPUT_FORMAT", "must be text, json or yaml", c.Analysis.OutputFormat))
	}

	if _, err := c.Analysis.ExpirationDate(); err != nil {
		errs.Add(err)
	}

	if c.Data.ChainPath == "" && c.Data.TradesPath == "" {
		errs.Add(errors.NewValidationError("CHAIN_CSV_PATH", "at least one source path is required", ""))
	}

	return errs.ToError()
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
