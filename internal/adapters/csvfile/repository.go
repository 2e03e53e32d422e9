package csvfile

import (
	"context"

	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/logger"
)

var _ options.Repository = (*Repository)(nil)

// Repository serves the two snapshot tables from CSV files on disk
type Repository struct {
	chainPath  string
	tradesPath string
	log        *logger.Logger
}

// NewRepository creates a file-backed options repository
func NewRepository(chainPath, tradesPath string, log *logger.Logger) *Repository {
	return &Repository{
		chainPath:  chainPath,
		tradesPath: tradesPath,
		log:        log.With("component", "csv_repository"),
	}
}

// LoadChain reads and normalizes the option chain export
func (r *Repository) LoadChain(ctx context.Context) ([]options.OptionQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	quotes, err := ReadChainFile(r.chainPath)
	metrics.RecordSourceLoad(metrics.SourceChain, len(quotes), err)
	if err != nil {
		r.log.Warnw("Option chain unavailable", "path", r.chainPath, "error", err)
		return nil, err
	}

	r.log.Debugw("Option chain loaded", "path", r.chainPath, "rows", len(quotes))
	return quotes, nil
}

// LoadUnusualTrades reads and normalizes the unusual flow export
func (r *Repository) LoadUnusualTrades(ctx context.Context) ([]options.UnusualTrade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trades, err := ReadUnusualTradesFile(r.tradesPath)
	metrics.RecordSourceLoad(metrics.SourceTrades, len(trades), err)
	if err != nil {
		r.log.Warnw("Unusual trades unavailable", "path", r.tradesPath, "error", err)
		return nil, err
	}

	r.log.Debugw("Unusual trades loaded", "path", r.tradesPath, "rows", len(trades))
	return trades, nil
}
