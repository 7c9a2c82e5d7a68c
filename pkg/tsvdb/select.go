package tsvdb

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/internal/pipeline"
)

// FileNameColumn is the column SelectColumns prefixes to its output.
const FileNameColumn = "FileName"

// SelectColumns writes the named columns of every row to outputPath, or to
// the store's file when outputPath is empty. Each output row starts with the
// base name of the source file under a FileName column, unless colNames
// already holds a "filename" entry (any case). In that case no prefix column
// is added, so rows stay aligned with the header, and the entry takes the
// row's own filename column when the source has one and the source base name
// otherwise. Unknown names produce empty values. The store is not modified.
func (s *Store) SelectColumns(ctx context.Context, outputPath string, colNames []string) (Result, error) {
	return s.run(ctx, "SelectColumns", func(ctx context.Context, _ *zap.Logger) (Result, error) {
		header, lines, err := s.selection(ctx, colNames)
		if err != nil {
			return Result{}, err
		}
		path := s.target(outputPath)
		if err := s.writeLines("SelectColumns", path, header, lines); err != nil {
			return Result{}, err
		}
		return Result{
			Message: "columns selected",
			Rows:    len(lines),
			Width:   len(splitHeader(header, s.sep)),
			Outputs: []string{path},
		}, nil
	})
}

// Selection returns the header and serialized rows SelectColumns would
// write, without writing them.
func (s *Store) Selection(ctx context.Context, colNames []string) (header string, lines []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection(ctx, colNames)
}

func (s *Store) selection(ctx context.Context, colNames []string) (string, []string, error) {
	base := filepath.Base(s.fileName)
	sep := string(s.sep)

	const (
		fromBaseName = -1
		unknown      = -2
	)
	var names []string
	var ordinals []int
	hasFileName := false
	for _, n := range colNames {
		if strings.EqualFold(n, "filename") {
			hasFileName = true
			break
		}
	}
	if !hasFileName {
		names = append(names, FileNameColumn)
		ordinals = append(ordinals, fromBaseName)
	}
	for _, n := range colNames {
		names = append(names, n)
		if strings.EqualFold(n, "filename") {
			if ord, ok := s.index.OrdinalFold(n); ok {
				ordinals = append(ordinals, ord)
			} else {
				ordinals = append(ordinals, fromBaseName)
			}
			continue
		}
		if ord, ok := s.index.Ordinal(n); ok {
			ordinals = append(ordinals, ord)
		} else {
			ordinals = append(ordinals, unknown)
		}
	}

	lines, err := pipeline.Map(ctx, s.pipe, s.rows, func(r Row) string {
		var sb strings.Builder
		for i, ord := range ordinals {
			if i > 0 {
				sb.WriteString(sep)
			}
			switch {
			case ord == fromBaseName:
				sb.WriteString(base)
			case ord >= 0 && ord < len(r):
				sb.WriteString(r[ord])
			}
		}
		return sb.String()
	})
	if err != nil {
		return "", nil, cancelled(err)
	}
	return strings.Join(names, sep), lines, nil
}
