package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"optionsrisk/internal/adapters/config"
	"optionsrisk/internal/adapters/csvfile"
	"optionsrisk/internal/analytics"
	"optionsrisk/internal/metrics"
	"optionsrisk/internal/report"
	"optionsrisk/internal/services/snapshot"
	"optionsrisk/pkg/errors"
	"optionsrisk/pkg/logger"
)

// app holds what every command needs once the root has bootstrapped
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	tracker errors.Tracker
	service *snapshot.Service
}

var (
	chainPath  string
	tradesPath string
	format     string

	expiration string

	minPremium string
	sides      []string
	openClose  []string
)

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "optionsrisk",
		Short:         "Options market risk metrics from chain and unusual flow exports",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap(cmd)
		},
	}

	root.PersistentFlags().StringVar(&chainPath, "chain", "", "Option chain CSV (overrides CHAIN_CSV_PATH)")
	root.PersistentFlags().StringVar(&tradesPath, "trades", "", "Unusual trades CSV (overrides TRADES_CSV_PATH)")
	root.PersistentFlags().StringVar(&format, "format", "", "Output format: text, json, yaml (overrides OUTPUT_FORMAT)")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the chain snapshot and unusual flow for one expiration",
		RunE:  a.runReport,
	}
	reportCmd.Flags().StringVar(&expiration, "expiration", "", "Expiration date YYYY-MM-DD (default: latest listed)")

	flowCmd := &cobra.Command{
		Use:   "flow",
		Short: "Filter the unusual trades table",
		RunE:  a.runFlow,
	}
	flowCmd.Flags().StringVar(&minPremium, "min-premium", "", "Minimum premium (default: 25th percentile of premiums)")
	flowCmd.Flags().StringSliceVar(&sides, "side", nil, "Keep trades with this side (repeatable, default: all)")
	flowCmd.Flags().StringSliceVar(&openClose, "open-close", nil, "Keep trades with this open/close value (repeatable, default: all)")

	expirationsCmd := &cobra.Command{
		Use:   "expirations",
		Short: "List the expirations in the option chain",
		RunE:  a.runExpirations,
	}

	root.AddCommand(reportCmd, flowCmd, expirationsCmd)
	return root, a
}

// bootstrap loads config, applies flag overrides and wires the service
func (a *app) bootstrap(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	flags := cmd.Flags()
	if flags.Changed("chain") {
		cfg.Data.ChainPath = chainPath
	}
	if flags.Changed("trades") {
		cfg.Data.TradesPath = tradesPath
	}
	if flags.Changed("format") {
		cfg.Analysis.OutputFormat = format
	}
	if flags.Changed("expiration") {
		cfg.Analysis.Expiration = expiration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := initLogger(cfg); err != nil {
		return errors.Wrap(err, "failed to init logger")
	}
	log := logger.Get()
	log.Debugf("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	a.tracker = initErrorTracker(cfg, log)
	a.tracker.SetTag("command", cmd.Name())
	a.tracker.SetTag("chain_path", cfg.Data.ChainPath)
	logger.SetErrorTracker(a.tracker)

	metrics.Init()

	repo := csvfile.NewRepository(cfg.Data.ChainPath, cfg.Data.TradesPath, log)
	a.service = snapshot.NewService(repo, analytics.NewEngine(log), log)
	a.cfg = cfg
	a.log = log
	return nil
}

// shutdown writes the metrics textfile and flushes the error tracker.
// It is a no-op when bootstrap did not complete.
func (a *app) shutdown(ctx context.Context) {
	if a.cfg == nil {
		return
	}
	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			a.log.Warnw("Failed to write metrics textfile", "path", path, "error", err)
		}
	}
	if err := a.tracker.Flush(ctx); err != nil {
		a.log.Warnf("Failed to flush error tracker: %v", err)
	}
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	exp, err := a.cfg.Analysis.ExpirationDate()
	if err != nil {
		return err
	}

	res, err := a.service.Build(cmd.Context(), snapshot.Request{
		Selection: analytics.Selection{Expiration: exp},
	})
	if err != nil {
		return a.fail(cmd.Context(), err)
	}
	a.noteSections(cmd.Context(), res)

	return report.Write(cmd.OutOrStdout(), a.cfg.Analysis.OutputFormat, report.New(res))
}

// noteSections leaves a breadcrumb for the run and a warning for each
// section that had no data
func (a *app) noteSections(ctx context.Context, res *snapshot.Result) {
	data := map[string]interface{}{"trades": len(res.Flow)}
	if res.Snapshot != nil {
		data["snapshot_id"] = res.Snapshot.ID.String()
		data["rows"] = res.Snapshot.Summary.Rows
	}
	a.tracker.AddBreadcrumb(ctx, "snapshot built", "snapshot", errors.LevelInfo, data)

	for section, err := range map[string]error{"chain": res.ChainErr, "flow": res.FlowErr} {
		if err == nil {
			continue
		}
		a.log.Warnw("Section unavailable", "section", section, "error", err)
		_ = a.tracker.CaptureMessage(ctx, err.Error(), errors.LevelWarning, map[string]string{"section": section})
	}
}

func (a *app) runFlow(cmd *cobra.Command, args []string) error {
	filter := &analytics.FlowFilter{Sides: sides, OpenClose: openClose}
	auto := true
	if cmd.Flags().Changed("min-premium") {
		mp, err := decimal.NewFromString(minPremium)
		if err != nil {
			return errors.NewValidationError("min-premium", "must be a number", minPremium)
		}
		filter.MinPremium = mp
		auto = false
	}

	res, err := a.service.BuildFlow(cmd.Context(), snapshot.Request{Flow: filter, AutoMinPremium: auto})
	if err != nil {
		return a.fail(cmd.Context(), err)
	}

	return report.Write(cmd.OutOrStdout(), a.cfg.Analysis.OutputFormat, report.New(res))
}

func (a *app) runExpirations(cmd *cobra.Command, args []string) error {
	exps, err := a.service.Expirations(cmd.Context())
	if err != nil {
		return a.fail(cmd.Context(), err)
	}

	out := report.Expirations{Expirations: make([]string, len(exps))}
	for i, e := range exps {
		out.Expirations[i] = e.Format(time.DateOnly)
	}
	return report.Write(cmd.OutOrStdout(), a.cfg.Analysis.OutputFormat, out)
}

// fail reports unexpected errors to the tracker; missing data is an expected
// state and only logged
func (a *app) fail(ctx context.Context, err error) error {
	if errors.IsUnavailable(err) {
		a.log.Warnw("No data", "error", err)
		return err
	}
	a.log.ErrorWithContext(ctx, err, map[string]string{"component": "cli"})
	return err
}
