package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"optionsrisk/pkg/errors"
)

// Source labels
const (
	SourceChain  = "chain"
	SourceTrades = "unusual_trades"
)

var (
	// Loader metrics
	SourceLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsrisk_source_loads_total",
			Help: "Total number of source table loads",
		},
		[]string{"source", "status"}, // status: success|unavailable|error
	)

	RowsLoaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsrisk_rows_loaded_total",
			Help: "Total number of rows read from source tables",
		},
		[]string{"source"},
	)

	MissingCells = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsrisk_missing_cells_total",
			Help: "Numeric cells that degraded to missing during normalization",
		},
		[]string{"source", "column"},
	)

	// Engine metrics
	ComputationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optionsrisk_computation_duration_seconds",
			Help:    "Metric computation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"metric"},
	)

	RowsExcluded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsrisk_rows_excluded_total",
			Help: "Chain rows left out of a metric because a required field was missing",
		},
		[]string{"metric"},
	)

	SnapshotRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsrisk_snapshot_runs_total",
			Help: "Total number of snapshot computations",
		},
		[]string{"status"}, // status: success|unavailable|error
	)

	SnapshotLastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "optionsrisk_snapshot_last_run_timestamp",
			Help: "Unix timestamp of the last snapshot computation",
		},
	)
)

var registerOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(SourceLoads)
		prometheus.MustRegister(RowsLoaded)
		prometheus.MustRegister(MissingCells)

		prometheus.MustRegister(ComputationDuration)
		prometheus.MustRegister(RowsExcluded)
		prometheus.MustRegister(SnapshotRuns)
		prometheus.MustRegister(SnapshotLastRun)
	})
}

// WriteTextfile dumps the default registry in the text exposition format,
// for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return errors.Wrapf(err, "write metrics textfile %s", path)
	}
	return nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.IsUnavailable(err):
		return "unavailable"
	default:
		return "error"
	}
}

// RecordSourceLoad records a loader outcome
func RecordSourceLoad(source string, rows int, err error) {
	SourceLoads.WithLabelValues(source, status(err)).Inc()
	if err == nil {
		RowsLoaded.WithLabelValues(source).Add(float64(rows))
	}
}

// RecordMissingCells adds n missing cells for a column
func RecordMissingCells(source, column string, n int) {
	if n > 0 {
		MissingCells.WithLabelValues(source, column).Add(float64(n))
	}
}

// RecordComputation records how long one metric took
func RecordComputation(metric string, duration time.Duration) {
	ComputationDuration.WithLabelValues(metric).Observe(duration.Seconds())
}

// RecordExcluded records rows dropped before a metric ran
func RecordExcluded(metric string, n int) {
	if n > 0 {
		RowsExcluded.WithLabelValues(metric).Add(float64(n))
	}
}

// RecordSnapshot records a snapshot computation
func RecordSnapshot(err error) {
	SnapshotRuns.WithLabelValues(status(err)).Inc()
	SnapshotLastRun.SetToCurrentTime()
}
