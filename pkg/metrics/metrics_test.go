package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerObservesByStatus(t *testing.T) {
	before := testutil.CollectAndCount(OperationDuration)

	NewTimer("metrics_test_ok").ObserveDuration(nil)
	NewTimer("metrics_test_fail").ObserveDuration(errors.New("boom"))

	assert.Equal(t, before+2, testutil.CollectAndCount(OperationDuration))
}

func TestRowsProcessed(t *testing.T) {
	RowsProcessed.WithLabelValues("metrics_test").Add(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(RowsProcessed.WithLabelValues("metrics_test")))
}

func TestWriteTextfile(t *testing.T) {
	FilesWritten.WithLabelValues("metrics_test").Inc()

	path := filepath.Join(t.TempDir(), "tsvdb.prom")
	require.NoError(t, WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `tsvdb_files_written_total{operation="metrics_test"} 1`)
}
