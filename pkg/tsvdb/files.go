package tsvdb

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/pkg/lineio"
	"github.com/ajitpratap0/tsvdb/pkg/logger"
	"github.com/ajitpratap0/tsvdb/pkg/metrics"
)

// Files applies an operation to several files in turn. Each file is loaded
// into its own store, the operation runs, and the store is discarded. A run
// stops at the first file that fails to load or to transform and returns
// that failure; otherwise it returns the result of the last file.
type Files struct {
	names []string
	opts  []Option
	log   *zap.Logger
}

// NewFiles prepares a multi-file run. opts configure every per-file store.
func NewFiles(names []string, opts ...Option) *Files {
	f := &Files{names: names, opts: opts}
	defaults := &Store{}
	for _, opt := range opts {
		opt(defaults)
	}
	f.log = defaults.logger
	if f.log == nil {
		f.log = logger.Get()
	}
	return f
}

// Names returns the files of the run.
func (f *Files) Names() []string {
	return f.names
}

// AddColumnIDs runs Store.AddColumnIDs on every file.
func (f *Files) AddColumnIDs(ctx context.Context, colNames, additionalCols []string) (Result, error) {
	return f.each(ctx, "AddColumnIDs", func(ctx context.Context, s *Store) (Result, error) {
		return s.AddColumnIDs(ctx, colNames, additionalCols)
	})
}

// AddColumns runs Store.AddColumns on every file.
func (f *Files) AddColumns(ctx context.Context, cols []string) (Result, error) {
	return f.each(ctx, "AddColumns", func(ctx context.Context, s *Store) (Result, error) {
		return s.AddColumns(ctx, cols)
	})
}

// SetValues runs Store.SetValues on every file.
func (f *Files) SetValues(ctx context.Context, colNames, values []string) (Result, error) {
	return f.each(ctx, "SetValues", func(ctx context.Context, s *Store) (Result, error) {
		return s.SetValues(ctx, colNames, values)
	})
}

// RemoveColumns runs Store.RemoveColumns on every file, rewriting each in place.
func (f *Files) RemoveColumns(ctx context.Context, colNames []string) (Result, error) {
	return f.each(ctx, "RemoveColumns", func(ctx context.Context, s *Store) (Result, error) {
		return s.RemoveColumns(ctx, "", colNames)
	})
}

// SelectColumns selects colNames from every file. With an empty outputPath
// each file is rewritten in place. Otherwise the selections are merged into
// outputPath: the header is written once and every row carries the base
// name of the file it came from.
func (f *Files) SelectColumns(ctx context.Context, outputPath string, colNames []string) (Result, error) {
	if outputPath == "" {
		return f.each(ctx, "SelectColumns", func(ctx context.Context, s *Store) (Result, error) {
			return s.SelectColumns(ctx, "", colNames)
		})
	}
	return f.merge(ctx, outputPath, colNames)
}

func (f *Files) each(ctx context.Context, op string, fn func(context.Context, *Store) (Result, error)) (Result, error) {
	ctx, log := f.begin(ctx, op)

	var res Result
	for i, name := range f.names {
		s := New(name, f.opts...)
		if r, err := s.Load(ctx, LoadOptions{}); err != nil {
			log.Error("stopping run", zap.String("file", name), zap.Int("position", i), zap.Error(err))
			return r, err
		}
		r, err := fn(ctx, s)
		if err != nil {
			log.Error("stopping run", zap.String("file", name), zap.Int("position", i), zap.Error(err))
			return r, err
		}
		res = r
	}
	log.Debug("run finished", zap.Int("files", len(f.names)))
	return res, nil
}

func (f *Files) merge(ctx context.Context, outputPath string, colNames []string) (res Result, err error) {
	const op = "SelectColumns"
	ctx, log := f.begin(ctx, op)
	res.Operation = op

	var w *lineio.Writer
	defer func() {
		if w == nil {
			return
		}
		if cerr := w.Close(); cerr != nil {
			err = multierr.Append(err, writeFailure(cerr, outputPath))
			return
		}
		if err == nil {
			metrics.FilesWritten.WithLabelValues(op).Inc()
		}
	}()

	for i, name := range f.names {
		s := New(name, f.opts...)
		if r, err := s.Load(ctx, LoadOptions{}); err != nil {
			log.Error("stopping run", zap.String("file", name), zap.Int("position", i), zap.Error(err))
			return r, err
		}
		header, lines, err := s.Selection(ctx, colNames)
		if err != nil {
			return res, err
		}
		if w == nil {
			if w, err = s.create(outputPath); err != nil {
				return res, err
			}
			if err := w.WriteLine(header); err != nil {
				return res, writeFailure(err, outputPath)
			}
			res.Width = len(splitHeader(header, s.Separator()))
			res.Outputs = []string{outputPath}
		}
		if err := w.WriteLines(lines); err != nil {
			return res, writeFailure(err, outputPath)
		}
		res.Rows += len(lines)
	}

	res.Message = "columns selected"
	log.Debug("merged selection", zap.Int("files", len(f.names)), zap.Int("rows", res.Rows))
	return res, nil
}

func (f *Files) begin(ctx context.Context, op string) (context.Context, *zap.Logger) {
	ctx = logger.ContextWith(ctx, logger.BatchKey, fmt.Sprintf("%s-%d", op, time.Now().UnixNano()))
	return ctx, logger.WithContext(ctx, f.log.With(zap.String("component", "tsvdb")))
}
