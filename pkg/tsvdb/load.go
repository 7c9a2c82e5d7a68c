package tsvdb

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/internal/pipeline"
	"github.com/ajitpratap0/tsvdb/pkg/lineio"
	"github.com/ajitpratap0/tsvdb/pkg/metrics"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// LoadOptions overrides the store settings for one load. Zero fields keep
// the store's file, separator and encoding.
type LoadOptions struct {
	FileName  string
	Separator rune
	Encoding  string
}

// Load replaces the store's contents with the rows of a delimited file. The
// first line becomes the header; short rows are padded to the header width
// and long rows are kept whole. A missing file is not an error and leaves
// the store empty. The previous header is dropped as well, so a file whose
// first line is blank loads without columns. A separator given in opts
// becomes the store separator.
func (s *Store) Load(ctx context.Context, opts LoadOptions) (Result, error) {
	return s.run(ctx, "Load", func(ctx context.Context, log *zap.Logger) (Result, error) {
		s.rows = nil
		if s.headerLine != "" || s.index.Len() > 0 {
			s.setColumns(nil)
		}

		fileName := opts.FileName
		if fileName == "" {
			fileName = s.fileName
		}
		if opts.Separator != 0 {
			s.sep = opts.Separator
		}
		if opts.Encoding != "" {
			s.lineOpts.Encoding = opts.Encoding
		}

		if fileName == "" {
			return Result{Message: "nothing to load"}, nil
		}
		if _, err := os.Stat(fileName); errors.Is(err, fs.ErrNotExist) {
			log.Debug("source file does not exist", zap.String("path", fileName))
			return Result{Message: "nothing to load"}, nil
		}

		lines, err := lineio.ReadAll(fileName, s.lineOpts)
		if err != nil {
			return Result{}, tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeReadFailure, "error reading file").
				WithDetail("file", fileName)
		}
		if len(lines) == 0 {
			return Result{Message: "file is empty", Width: s.index.Width()}, nil
		}

		s.setHeaderLine(lines[0], s.sep)
		width := s.index.Width()
		sep := string(s.sep)

		var padded atomic.Int64
		rows, err := pipeline.Map(ctx, s.pipe, lines[1:], func(line string) Row {
			row := Row(strings.Split(line, sep))
			if len(row) < width {
				padded.Add(1)
				return row.Padded(width)
			}
			return row
		})
		if err != nil {
			return Result{}, cancelled(err)
		}
		s.rows = rows

		if n := padded.Load(); n > 0 {
			metrics.RowsPadded.Add(float64(n))
			log.Debug("padded short rows", zap.Int64("count", n), zap.Int("width", width))
		}
		return Result{Message: "file loaded", Rows: len(rows), Width: width}, nil
	})
}
