// Package pipeline runs data-parallel passes over in-memory rows.
//
// Work is fanned out by partition: the input is cut into contiguous spans of
// at most ChunkSize items, each span is handled by one worker, and results are
// written into a pre-sized output slice at the span's own offsets. Workers
// never share a write target, so no locking is needed during a pass.
package pipeline

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of items handed to a worker at once.
const DefaultChunkSize = 1000

// Config configures a parallel pass.
type Config struct {
	Workers   int // Number of parallel workers (0 = auto)
	ChunkSize int // Items per partition (0 = DefaultChunkSize)
	Logger    *zap.Logger
}

// Span is a half-open range [Start, End) of item positions.
type Span struct {
	ID    int
	Start int
	End   int
}

// Len returns the number of items in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (c Config) normalize() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Partitions cuts n items into consecutive spans of at most chunkSize items.
func Partitions(n, chunkSize int) []Span {
	if n <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	spans := make([]Span, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		spans = append(spans, Span{ID: len(spans), Start: start, End: min(start+chunkSize, n)})
	}
	return spans
}

// ForEach runs fn once per partition of n items with at most cfg.Workers
// partitions in flight. The first error, or a cancelled context, stops
// partitions that have not started yet and is returned.
func ForEach(ctx context.Context, cfg Config, n int, fn func(ctx context.Context, span Span) error) error {
	cfg = cfg.normalize()
	spans := Partitions(n, cfg.ChunkSize)
	if len(spans) == 0 {
		return ctx.Err()
	}

	cfg.Logger.Debug("starting parallel pass",
		zap.Int("items", n),
		zap.Int("partitions", len(spans)),
		zap.Int("workers", cfg.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, span := range spans {
		span := span
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, span)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies fn to every element of in and returns the results at the same
// positions. fn must only depend on its argument.
func Map[T, U any](ctx context.Context, cfg Config, in []T, fn func(T) U) ([]U, error) {
	out := make([]U, len(in))
	err := ForEach(ctx, cfg, len(in), func(_ context.Context, span Span) error {
		for i := span.Start; i < span.End; i++ {
			out[i] = fn(in[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
