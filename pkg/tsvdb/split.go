package tsvdb

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/pkg/compression"
	"github.com/ajitpratap0/tsvdb/pkg/lineio"
	"github.com/ajitpratap0/tsvdb/pkg/logger"
	"github.com/ajitpratap0/tsvdb/pkg/metrics"
	"github.com/ajitpratap0/tsvdb/pkg/observability"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// SplitOptions configures Split.
type SplitOptions struct {
	Line   lineio.Options
	Logger *zap.Logger
}

// SplitName returns the path of the n-th chunk of fileName:
// "dir/data.tsv.gz" becomes "dir/data_Split_<n>.tsv.gz".
func SplitName(fileName string, n int) string {
	stem, ext := compression.SplitExt(fileName)
	return fmt.Sprintf("%s_Split_%d%s", stem, n, ext)
}

// Split copies the data lines of fileName into chunk files of at most
// batchSize lines each, every chunk starting with the source header. Lines
// are copied verbatim in one streaming pass. A source without data lines
// produces no chunks. Chunks already written are kept when a later step
// fails.
func Split(ctx context.Context, fileName string, batchSize int, opts SplitOptions) (res Result, err error) {
	const op = "Split"

	base := opts.Logger
	if base == nil {
		base = logger.Get()
	}
	ctx = logger.ContextWith(ctx, logger.OperationKey, op)
	ctx, span := observability.StartOperation(ctx, op,
		attribute.String("file", fileName), attribute.Int("batch_size", batchSize))
	log := logger.WithContext(ctx, base.With(zap.String("component", "tsvdb"), zap.String("file", fileName)))
	timer := metrics.NewTimer(op)
	defer func() {
		res.Operation = op
		elapsed := timer.ObserveDuration(err)
		observability.EndOperation(span, err,
			attribute.Int("rows", res.Rows), attribute.Int("files", len(res.Outputs)))
		if err != nil {
			log.Error("split failed", zap.Error(err), zap.Strings("written", res.Outputs))
			return
		}
		metrics.RowsProcessed.WithLabelValues(op).Add(float64(res.Rows))
		log.Debug("split finished", zap.Int("files", len(res.Outputs)), zap.Duration("elapsed", elapsed))
	}()

	if batchSize <= 0 {
		return res, tsvdberrors.Newf(tsvdberrors.ErrorTypeInvalidArgument,
			"batch size must be positive, got %d", batchSize)
	}

	r, err := lineio.Open(fileName, opts.Line)
	if err != nil {
		return res, tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeReadFailure, "error reading file").
			WithDetail("file", fileName)
	}
	defer func() {
		if cerr := r.Close(); cerr != nil {
			err = multierr.Append(err, tsvdberrors.Wrap(cerr, tsvdberrors.ErrorTypeReadFailure, "error closing file"))
		}
	}()

	if !r.Scan() {
		if err := r.Err(); err != nil {
			return res, tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeReadFailure, "error reading file").
				WithDetail("file", fileName)
		}
		res.Message = "file is empty"
		return res, nil
	}
	header := r.Text()

	c := &chunker{header: header, source: fileName, opts: opts.Line, size: batchSize}
	defer func() {
		if cerr := c.finish(); cerr != nil {
			err = multierr.Append(err, cerr)
		}
		res.Outputs = c.outputs
	}()

	for r.Scan() {
		if err := ctx.Err(); err != nil {
			return res, cancelled(err)
		}
		if err := c.write(r.Text()); err != nil {
			return res, err
		}
		res.Rows++
	}
	if err := r.Err(); err != nil {
		return res, tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeReadFailure, "error reading file").
			WithDetail("file", fileName).
			WithDetail("line", r.Line()+1)
	}

	res.Message = "file split"
	return res, nil
}

// chunker writes lines into consecutive chunk files, opening the next file
// when a line arrives for it.
type chunker struct {
	header  string
	source  string
	opts    lineio.Options
	size    int
	w       *lineio.Writer
	path    string
	count   int
	outputs []string
}

func (c *chunker) write(line string) error {
	if c.w == nil {
		c.path = SplitName(c.source, len(c.outputs)+1)
		w, err := lineio.Create(c.path, c.opts)
		if err != nil {
			return writeFailure(err, c.path)
		}
		c.w = w
		c.count = 0
		c.outputs = append(c.outputs, c.path)
		if err := w.WriteLine(c.header); err != nil {
			return writeFailure(err, c.path)
		}
	}
	if err := c.w.WriteLine(line); err != nil {
		return writeFailure(err, c.path)
	}
	c.count++
	if c.count == c.size {
		return c.finish()
	}
	return nil
}

func (c *chunker) finish() error {
	if c.w == nil {
		return nil
	}
	err := c.w.Close()
	c.w = nil
	if err != nil {
		return writeFailure(err, c.path)
	}
	metrics.FilesWritten.WithLabelValues("Split").Inc()
	return nil
}
