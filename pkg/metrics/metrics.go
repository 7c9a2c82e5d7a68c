// Package metrics provides Prometheus metrics for tsvdb operations.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("Load")
//	res, err := store.Load(ctx, tsvdb.LoadOptions{})
//	timer.ObserveDuration(err)
//	metrics.RowsProcessed.WithLabelValues("Load").Add(float64(res.Rows))
//
// Metrics register with the default Prometheus registry. Short-lived
// processes such as the CLI export them with WriteTextfile for the
// node-exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// StatusSuccess labels successful operations
	StatusSuccess = "success"
	// StatusFailure labels failed operations
	StatusFailure = "failure"
)

var (
	// RowsProcessed counts rows that went through an operation.
	// Labels: operation (Load, Save, SetValues, ...)
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsvdb_rows_processed_total",
			Help: "Total number of rows processed",
		},
		[]string{"operation"},
	)

	// RowsPadded counts ragged rows widened with empty fields.
	RowsPadded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tsvdb_rows_padded_total",
			Help: "Total number of short rows padded to the header width",
		},
	)

	// OperationDuration tracks how long operations take.
	// Labels: operation, status (success/failure)
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tsvdb_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		},
		[]string{"operation", "status"},
	)

	// FilesWritten counts output files created.
	// Labels: operation
	FilesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tsvdb_files_written_total",
			Help: "Total number of output files written",
		},
		[]string{"operation"},
	)
)

// Timer measures one operation and records it in OperationDuration.
type Timer struct {
	start     time.Time
	operation string
}

// NewTimer starts timing operation.
func NewTimer(operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		operation: operation,
	}
}

// ObserveDuration records the elapsed time labelled by the outcome of err and
// returns it.
func (t *Timer) ObserveDuration(err error) time.Duration {
	d := time.Since(t.start)
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	OperationDuration.WithLabelValues(t.operation, status).Observe(d.Seconds())
	return d
}

// WriteTextfile writes every metric of the default registry to filename in
// the Prometheus text format.
func WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, prometheus.DefaultGatherer)
}
