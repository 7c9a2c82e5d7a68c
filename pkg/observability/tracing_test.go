package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartEndOperation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartOperation(context.Background(), "Load", attribute.String("file", "a.tsv"))
	EndOperation(span, nil, attribute.Int("rows", 3))

	_, span = StartOperation(context.Background(), "Save")
	EndOperation(span, errors.New("disk full"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "tsvdb.Load", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("file", "a.tsv"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int("rows", 3))

	assert.Equal(t, "tsvdb.Save", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "disk full", ended[1].Status().Description)
	require.Len(t, ended[1].Events(), 1)
}

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingToFile(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	path := filepath.Join(t.TempDir(), "spans.json")
	shutdown, err := InitTracing(TracingConfig{Enabled: true, Output: path, ServiceVersion: "test"})
	require.NoError(t, err)

	_, span := StartOperation(context.Background(), "Split")
	EndOperation(span, nil)
	require.NoError(t, shutdown(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tsvdb.Split")
}
