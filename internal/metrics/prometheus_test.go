package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optionsrisk/pkg/errors"
)

func TestRecordSourceLoad(t *testing.T) {
	Init()
	Init() // second call must not panic on duplicate registration

	okBefore := testutil.ToFloat64(SourceLoads.WithLabelValues(SourceChain, "success"))
	rowsBefore := testutil.ToFloat64(RowsLoaded.WithLabelValues(SourceChain))
	unavailableBefore := testutil.ToFloat64(SourceLoads.WithLabelValues(SourceChain, "unavailable"))

	RecordSourceLoad(SourceChain, 12, nil)
	RecordSourceLoad(SourceChain, 0, errors.Unavailable(errors.CodeFileUnreadable, "Griegas.csv", nil))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(SourceLoads.WithLabelValues(SourceChain, "success")))
	assert.Equal(t, rowsBefore+12, testutil.ToFloat64(RowsLoaded.WithLabelValues(SourceChain)))
	assert.Equal(t, unavailableBefore+1, testutil.ToFloat64(SourceLoads.WithLabelValues(SourceChain, "unavailable")))
}

func TestWriteTextfile(t *testing.T) {
	Init()
	RecordSnapshot(nil)
	RecordComputation("max_pain", 0)

	path := filepath.Join(t.TempDir(), "optionsrisk.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "optionsrisk_snapshot_runs_total")
	assert.Contains(t, string(data), "optionsrisk_computation_duration_seconds")
}
