package tsvdb

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/internal/pipeline"
	"github.com/ajitpratap0/tsvdb/pkg/expr"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// AddColumnIDs replaces the header with an "<name>Id" column for every name
// in colNames followed by additionalCols, pads short rows to the new width
// and saves the store. The new columns are left empty.
func (s *Store) AddColumnIDs(ctx context.Context, colNames, additionalCols []string) (Result, error) {
	return s.run(ctx, "AddColumnIDs", func(ctx context.Context, _ *zap.Logger) (Result, error) {
		names := make([]string, 0, len(colNames)+len(additionalCols))
		for _, n := range colNames {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n+"Id")
			}
		}
		names = append(names, additionalCols...)
		return s.reshape(ctx, "AddColumnIDs", names)
	})
}

// AddColumns replaces the header with cols, pads short rows to the new
// width and saves the store.
func (s *Store) AddColumns(ctx context.Context, cols []string) (Result, error) {
	return s.run(ctx, "AddColumns", func(ctx context.Context, _ *zap.Logger) (Result, error) {
		return s.reshape(ctx, "AddColumns", cols)
	})
}

func (s *Store) reshape(ctx context.Context, op string, names []string) (Result, error) {
	width := len(names)
	rows, err := pipeline.Map(ctx, s.pipe, s.rows, func(r Row) Row {
		return r.Padded(width)
	})
	if err != nil {
		return Result{}, cancelled(err)
	}
	s.setColumns(names)
	s.rows = rows

	res, err := s.save(ctx, op, s.fileName, 0)
	res.Message = "columns added"
	return res, err
}

// RemoveColumns drops the named columns from the header and every row and
// writes the result to outputPath, or to the store's file when outputPath is
// empty. Remaining columns keep their order. Unknown names are ignored.
func (s *Store) RemoveColumns(ctx context.Context, outputPath string, colNames []string) (Result, error) {
	return s.run(ctx, "RemoveColumns", func(ctx context.Context, log *zap.Logger) (Result, error) {
		remove := make(map[string]bool, len(colNames))
		unknown := 0
		for _, n := range colNames {
			remove[n] = true
			if _, ok := s.index.Ordinal(n); !ok {
				unknown++
			}
		}
		if unknown > 0 {
			log.Debug("ignoring unknown columns", zap.Int("count", unknown))
		}

		var keep []int
		var names []string
		for i, n := range s.index.names {
			if !remove[n] {
				keep = append(keep, i)
				names = append(names, n)
			}
		}

		rows, err := pipeline.Map(ctx, s.pipe, s.rows, func(r Row) Row {
			return r.Project(keep)
		})
		if err != nil {
			return Result{}, cancelled(err)
		}
		s.setColumns(names)
		s.rows = rows

		res, err := s.save(ctx, "RemoveColumns", s.target(outputPath), 0)
		res.Message = "columns removed"
		return res, err
	})
}

// SetValues assigns values[i] to column colNames[i] in every row. Each value
// is an expression (see package expr) evaluated against the row as it was
// before the pass, so assignments never observe each other. Columns missing
// from the header are skipped. The store is saved afterwards.
func (s *Store) SetValues(ctx context.Context, colNames, values []string) (Result, error) {
	return s.run(ctx, "SetValues", func(ctx context.Context, log *zap.Logger) (Result, error) {
		if len(colNames) != len(values) {
			return Result{}, tsvdberrors.Newf(tsvdberrors.ErrorTypeArgumentMismatch,
				"error setting column values: %d columns but %d values", len(colNames), len(values)).
				WithDetail("file", s.fileName)
		}

		type assignment struct {
			ordinal int
			value   expr.Expr
		}
		var assignments []assignment
		reach := 0
		for i, n := range colNames {
			ord, ok := s.index.Ordinal(n)
			if !ok {
				log.Debug("ignoring unknown column", zap.String("column", n))
				continue
			}
			assignments = append(assignments, assignment{ordinal: ord, value: expr.Parse(values[i])})
			reach = max(reach, ord+1)
		}

		ordinals := s.index.ordinals
		rows, err := pipeline.Map(ctx, s.pipe, s.rows, func(r Row) Row {
			lookup := expr.Fields(ordinals, r)
			out := make(Row, max(len(r), reach))
			copy(out, r)
			for _, a := range assignments {
				out[a.ordinal] = a.value.Eval(lookup)
			}
			return out
		})
		if err != nil {
			return Result{}, cancelled(err)
		}
		s.rows = rows

		res, err := s.save(ctx, "SetValues", s.fileName, 0)
		res.Message = "values set"
		return res, err
	})
}
