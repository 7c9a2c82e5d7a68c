// Package expr implements the value expressions used to set column values.
//
// An expression is a sequence of segments separated by '$'. The text before
// the first '$' is literal. Every following segment is trimmed and names a
// column whose value, taken from the row being evaluated, is substituted in
// its place. A name that does not resolve contributes nothing. Segment values
// are concatenated without a separator:
//
//	"lit$C"        -> "lit" + row[C]
//	"$First$ Last" -> row[First] + row[Last]
//	"X"            -> "X"
//
// There is no escaping; a literal '$' cannot be expressed.
package expr

import "strings"

// Segment is one element of an expression.
type Segment interface {
	eval(lookup Lookup, sb *strings.Builder)
	String() string
}

// Lookup resolves a column name to its value in the current row.
type Lookup func(name string) (string, bool)

// Literal is text copied verbatim.
type Literal string

func (l Literal) eval(_ Lookup, sb *strings.Builder) {
	sb.WriteString(string(l))
}

func (l Literal) String() string {
	return string(l)
}

// ColumnRef is replaced by the value of the named column.
type ColumnRef string

func (c ColumnRef) eval(lookup Lookup, sb *strings.Builder) {
	if v, ok := lookup(string(c)); ok {
		sb.WriteString(v)
	}
}

func (c ColumnRef) String() string {
	return "$" + string(c)
}

// Expr is a parsed expression.
type Expr struct {
	Segments []Segment
}

// Parse parses src. Parsing never fails.
func Parse(src string) Expr {
	parts := strings.Split(src, "$")
	e := Expr{Segments: make([]Segment, 0, len(parts))}
	if parts[0] != "" {
		e.Segments = append(e.Segments, Literal(parts[0]))
	}
	for _, p := range parts[1:] {
		e.Segments = append(e.Segments, ColumnRef(strings.TrimSpace(p)))
	}
	return e
}

// Eval evaluates the expression against one row.
func (e Expr) Eval(lookup Lookup) string {
	if len(e.Segments) == 1 {
		if l, ok := e.Segments[0].(Literal); ok {
			return string(l)
		}
	}
	var sb strings.Builder
	for _, s := range e.Segments {
		s.eval(lookup, &sb)
	}
	return sb.String()
}

// References returns the referenced column names in order of appearance.
func (e Expr) References() []string {
	var refs []string
	for _, s := range e.Segments {
		if c, ok := s.(ColumnRef); ok {
			refs = append(refs, string(c))
		}
	}
	return refs
}

// IsLiteral reports whether the expression references no column.
func (e Expr) IsLiteral() bool {
	for _, s := range e.Segments {
		if _, ok := s.(ColumnRef); ok {
			return false
		}
	}
	return true
}

// String renders the expression back to source form.
func (e Expr) String() string {
	var sb strings.Builder
	for _, s := range e.Segments {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Fields returns a Lookup over a row given as positional fields and a
// name-to-position index. Positions beyond the row resolve to "".
func Fields(index map[string]int, row []string) Lookup {
	return func(name string) (string, bool) {
		pos, ok := index[name]
		if !ok {
			return "", false
		}
		if pos < len(row) {
			return row[pos], true
		}
		return "", true
	}
}
