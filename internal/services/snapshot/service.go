package snapshot

import (
	"context"
	"time"

	"optionsrisk/internal/analytics"
	"optionsrisk/internal/domain/options"
	"optionsrisk/internal/metrics"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/logger"
)

// Request carries the caller's selection and flow filters.
// A nil Flow applies the default minimum premium with every listed side and
// open/close value. An empty side or open/close list in Flow falls back to
// every listed value. AutoMinPremium replaces Flow's MinPremium with the
// default.
type Request struct {
	Selection      analytics.Selection
	Flow           *analytics.FlowFilter
	AutoMinPremium bool
}

// Result holds both sections of a run. Each section is independent: when a
// source is unavailable its error is set and the other section still carries
// data.
type Result struct {
	Expirations []time.Time
	Snapshot    *options.Snapshot
	ChainErr    error

	Flow          []options.UnusualTrade
	FlowFilter    analytics.FlowFilter
	FlowSummary   options.FlowSummary
	FlowSides     []string
	FlowOpenClose []string
	FlowErr       error
}

// Service loads the snapshot tables and runs the metric engine over them
type Service struct {
	repo   options.Repository
	engine *analytics.Engine
	log    *logger.Logger
}

// NewService creates a new snapshot service
func NewService(repo options.Repository, engine *analytics.Engine, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		log:    log.With("component", "snapshot_service"),
	}
}

// Build computes the chain snapshot and the filtered unusual flow.
// It fails only on invalid input, cancellation, or when neither section has data.
func (s *Service) Build(ctx context.Context, req Request) (res *Result, err error) {
	defer func() { metrics.RecordSnapshot(err) }()

	res = &Result{}

	if err := s.buildChain(ctx, req.Selection, res); err != nil {
		return nil, err
	}
	if err := s.buildFlow(ctx, req, res); err != nil {
		return nil, err
	}

	if res.ChainErr != nil && res.FlowErr != nil {
		var errs errors.MultiError
		errs.Add(res.ChainErr)
		errs.Add(res.FlowErr)
		return nil, errors.Wrap(errs.ToError(), "no snapshot data")
	}

	return res, nil
}

// BuildFlow computes the filtered unusual flow only. The chain is not loaded.
func (s *Service) BuildFlow(ctx context.Context, req Request) (*Result, error) {
	res := &Result{}
	if err := s.buildFlow(ctx, req, res); err != nil {
		return nil, err
	}
	if res.FlowErr != nil {
		return nil, errors.Wrap(res.FlowErr, "failed to load unusual trades")
	}
	return res, nil
}

// Expirations lists the expirations of the chain
func (s *Service) Expirations(ctx context.Context) ([]time.Time, error) {
	quotes, err := s.repo.LoadChain(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load chain")
	}
	return analytics.Expirations(quotes), nil
}

// buildChain fills the chain section. Only errors that must abort the whole
// run are returned.
func (s *Service) buildChain(ctx context.Context, sel analytics.Selection, res *Result) error {
	quotes, err := s.repo.LoadChain(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.ChainErr = err
		return nil
	}
	res.Expirations = analytics.Expirations(quotes)

	snap, err := s.engine.Analyze(ctx, quotes, sel)
	switch {
	case err == nil:
		res.Snapshot = snap
	case errors.IsUnavailable(err):
		s.log.Warnw("No chain data for selection", "error", err)
		res.ChainErr = err
	default:
		return err
	}
	return nil
}

func (s *Service) buildFlow(ctx context.Context, req Request, res *Result) error {
	trades, err := s.repo.LoadUnusualTrades(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.FlowErr = err
		return nil
	}

	res.FlowSides = analytics.FlowSides(trades)
	res.FlowOpenClose = analytics.FlowOpenClose(trades)
	res.FlowFilter = analytics.DefaultFlowFilter(trades)
	if req.Flow != nil {
		def := res.FlowFilter
		res.FlowFilter = *req.Flow
		if req.AutoMinPremium {
			res.FlowFilter.MinPremium = def.MinPremium
		}
		if len(res.FlowFilter.Sides) == 0 {
			res.FlowFilter.Sides = def.Sides
		}
		if len(res.FlowFilter.OpenClose) == 0 {
			res.FlowFilter.OpenClose = def.OpenClose
		}
	}

	res.Flow = analytics.FilterFlow(trades, res.FlowFilter)
	res.FlowSummary = analytics.FlowSummary(res.Flow)

	s.log.Debugw("Unusual flow filtered",
		"trades", len(trades),
		"kept", len(res.Flow),
		"min_premium", res.FlowFilter.MinPremium.String(),
	)
	return nil
}
