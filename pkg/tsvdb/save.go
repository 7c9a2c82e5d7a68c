package tsvdb

import (
	"context"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/internal/pipeline"
	"github.com/ajitpratap0/tsvdb/pkg/lineio"
	"github.com/ajitpratap0/tsvdb/pkg/metrics"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// Save writes the header and every row to fileName, or to the store's file
// when fileName is empty. Rows are serialized in parallel and written in one
// pass.
func (s *Store) Save(ctx context.Context, fileName string) (Result, error) {
	return s.run(ctx, "Save", func(ctx context.Context, _ *zap.Logger) (Result, error) {
		return s.save(ctx, "Save", s.target(fileName), 0)
	})
}

// SaveBatched is Save with serialized rows flushed to disk every batchSize
// rows, which bounds the memory held by pending output.
func (s *Store) SaveBatched(ctx context.Context, fileName string, batchSize int) (Result, error) {
	return s.run(ctx, "SaveBatched", func(ctx context.Context, _ *zap.Logger) (Result, error) {
		if batchSize <= 0 {
			return Result{}, tsvdberrors.Newf(tsvdberrors.ErrorTypeInvalidArgument,
				"batch size must be positive, got %d", batchSize)
		}
		return s.save(ctx, "SaveBatched", s.target(fileName), batchSize)
	})
}

func (s *Store) target(fileName string) string {
	if fileName == "" {
		return s.fileName
	}
	return fileName
}

func (s *Store) save(ctx context.Context, op, path string, batchSize int) (Result, error) {
	n, err := s.writeRows(ctx, op, path, s.headerLine, s.rows, batchSize)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Message: "file saved",
		Rows:    n,
		Width:   s.index.Width(),
		Outputs: []string{path},
	}, nil
}

// writeRows writes header and rows to path. With a positive batchSize the
// rows are serialized and flushed one batch at a time.
func (s *Store) writeRows(ctx context.Context, op, path, header string, rows []Row, batchSize int) (n int, err error) {
	w, err := s.create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = multierr.Append(err, writeFailure(cerr, path))
		}
		if err == nil {
			metrics.FilesWritten.WithLabelValues(op).Inc()
		}
	}()

	if err := w.WriteLine(header); err != nil {
		return 0, writeFailure(err, path)
	}

	sep := string(s.sep)
	if batchSize <= 0 {
		batchSize = max(len(rows), 1)
	}
	for start := 0; start < len(rows); start += batchSize {
		batch := rows[start:min(start+batchSize, len(rows))]
		lines, err := pipeline.Map(ctx, s.pipe, batch, func(r Row) string {
			return strings.Join(r, sep)
		})
		if err != nil {
			return n, cancelled(err)
		}
		if err := w.WriteLines(lines); err != nil {
			return n, writeFailure(err, path)
		}
		if err := w.Flush(); err != nil {
			return n, writeFailure(err, path)
		}
		n += len(lines)
	}
	return n, nil
}

// writeLines writes header and already serialized lines to path.
func (s *Store) writeLines(op, path, header string, lines []string) (err error) {
	w, err := s.create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = multierr.Append(err, writeFailure(cerr, path))
		}
		if err == nil {
			metrics.FilesWritten.WithLabelValues(op).Inc()
		}
	}()

	if err := w.WriteLine(header); err != nil {
		return writeFailure(err, path)
	}
	if err := w.WriteLines(lines); err != nil {
		return writeFailure(err, path)
	}
	return nil
}

func (s *Store) create(path string) (*lineio.Writer, error) {
	if path == "" {
		return nil, tsvdberrors.New(tsvdberrors.ErrorTypeInvalidArgument, "no output file")
	}
	w, err := lineio.Create(path, s.lineOpts)
	if err != nil {
		return nil, writeFailure(err, path)
	}
	return w, nil
}

func writeFailure(err error, path string) error {
	return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeWriteFailure, "error saving file").
		WithDetail("file", path)
}
