package tsvdb

import "strings"

// ColumnIndex maps trimmed column names to their zero-based ordinals.
// Ordinals follow header order. When a name repeats, the later ordinal wins.
// A ColumnIndex is immutable once built.
type ColumnIndex struct {
	names    []string
	ordinals map[string]int
}

// NewColumnIndex builds an index from ordered header names.
func NewColumnIndex(names []string) ColumnIndex {
	ci := ColumnIndex{
		names:    make([]string, len(names)),
		ordinals: make(map[string]int, len(names)),
	}
	copy(ci.names, names)
	for i, name := range ci.names {
		ci.ordinals[name] = i
	}
	return ci
}

// Ordinal returns the position of name.
func (ci ColumnIndex) Ordinal(name string) (int, bool) {
	i, ok := ci.ordinals[name]
	return i, ok
}

// OrdinalFold is Ordinal with a case-insensitive match. The first header
// position that matches wins.
func (ci ColumnIndex) OrdinalFold(name string) (int, bool) {
	for i, n := range ci.names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

// Names returns the header names in order.
func (ci ColumnIndex) Names() []string {
	out := make([]string, len(ci.names))
	copy(out, ci.names)
	return out
}

// Map returns a copy of the name to ordinal mapping.
func (ci ColumnIndex) Map() map[string]int {
	out := make(map[string]int, len(ci.ordinals))
	for k, v := range ci.ordinals {
		out[k] = v
	}
	return out
}

// Width is the number of header fields.
func (ci ColumnIndex) Width() int {
	return len(ci.names)
}

// Len is the number of distinct names.
func (ci ColumnIndex) Len() int {
	return len(ci.ordinals)
}

// Row is one record's ordered fields.
type Row []string

// Padded returns r widened with empty fields to width. r itself is returned
// when it is already wide enough; fields are never dropped.
func (r Row) Padded(width int) Row {
	if len(r) >= width {
		return r
	}
	out := make(Row, width)
	copy(out, r)
	return out
}

// Project returns the fields of r at ordinals, in that order. Ordinals
// beyond a short row yield empty fields.
func (r Row) Project(ordinals []int) Row {
	out := make(Row, len(ordinals))
	for i, o := range ordinals {
		if o < len(r) {
			out[i] = r[o]
		}
	}
	return out
}

func (r Row) clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Schema describes the current header of a store.
type Schema struct {
	// Version is bumped by every header rebuild
	Version uint64
	Columns []string
	Width   int
}

// SplitList trims s, splits it by sep and trims each element. An empty or
// blank s yields no elements.
func SplitList(s string, sep rune) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, string(sep))
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func splitHeader(line string, sep rune) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	names := strings.Split(line, string(sep))
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}
