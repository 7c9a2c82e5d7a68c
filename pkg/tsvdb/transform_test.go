package tsvdb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tsvdb/pkg/testutil"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

func TestAddColumnIDs(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2", "3")
	s := loadTestStore(t, path)

	res, err := s.AddColumnIDs(context.Background(), []string{"Cust", " ", "Ord"}, []string{"Extra"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Width)
	assert.Equal(t, uint64(2), res.SchemaVersion)
	assert.Equal(t, []string{"CustId", "OrdId", "Extra"}, s.Columns())
	assert.Equal(t, "CustId\tOrdId\tExtra\r\n1\t2\t\r\n3\t\t\r\n", testutil.ReadRaw(t, path))
}

func TestAddColumns(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2", "3\t4")
	s := loadTestStore(t, path)

	res, err := s.AddColumns(context.Background(), []string{"W", "X", "Y", "Z"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, Schema{Version: 2, Columns: []string{"W", "X", "Y", "Z"}, Width: 4}, s.Schema())
	assert.Equal(t, []Row{{"1", "2", "", ""}, {"3", "4", "", ""}}, s.Rows())
	assert.Equal(t, "W\tX\tY\tZ\r\n1\t2\t\t\r\n3\t4\t\t\r\n", testutil.ReadRaw(t, path))
}

func TestRemoveColumns(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "data.tsv", "A\tB\tC", "1\t2\t3", "4\t5\t6")
	s := loadTestStore(t, path)
	out := filepath.Join(dir, "out.tsv")

	res, err := s.RemoveColumns(context.Background(), out, []string{"B", "Nope"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Width)
	assert.Equal(t, []string{out}, res.Outputs)

	assert.Equal(t, []string{"A", "C"}, s.Columns())
	assert.Equal(t, map[string]int{"A": 0, "C": 1}, s.Index())
	assert.Equal(t, []Row{{"1", "3"}, {"4", "6"}}, s.Rows())
	assert.Equal(t, "A\tC\r\n1\t3\r\n4\t6\r\n", testutil.ReadRaw(t, out))
	assert.Equal(t, []string{"A\tB\tC", "1\t2\t3", "4\t5\t6"}, testutil.ReadLines(t, path), "source untouched")
}

func TestRemoveColumnsInPlace(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2")
	s := loadTestStore(t, path)

	_, err := s.RemoveColumns(context.Background(), "", []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "2"}, testutil.ReadLines(t, path))
}

func TestRemoveThenSelectRemovedColumns(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "data.tsv", "A\tB", "1\t2")
	s := loadTestStore(t, path)

	_, err := s.RemoveColumns(context.Background(), "", []string{"B"})
	require.NoError(t, err)

	out := filepath.Join(dir, "sel.tsv")
	_, err = s.SelectColumns(context.Background(), out, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"FileName\tA\tB", "data.tsv\t1\t"}, testutil.ReadLines(t, out))
}

func TestSetValues(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB\tC", "x\ty\tfoo", "p\tq\tbar")
	s := loadTestStore(t, path)

	res, err := s.SetValues(context.Background(), []string{"A", "B", "Missing"}, []string{"lit$C", "X", "ignored"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Width)
	assert.Equal(t, []Row{{"litfoo", "X", "foo"}, {"litbar", "X", "bar"}}, s.Rows())
	assert.Equal(t, []string{"A\tB\tC", "litfoo\tX\tfoo", "litbar\tX\tbar"}, testutil.ReadLines(t, path))
}

func TestSetValuesReadsOriginalRow(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2")
	s := loadTestStore(t, path)

	_, err := s.SetValues(context.Background(), []string{"A", "B"}, []string{"$B", "$A$ A "})
	require.NoError(t, err)
	assert.Equal(t, []Row{{"2", "11"}}, s.Rows())
}

func TestSetValuesArgumentMismatch(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2")
	s := loadTestStore(t, path)

	_, err := s.SetValues(context.Background(), []string{"A", "B"}, []string{"x", "y", "z"})
	require.Error(t, err)
	assert.True(t, tsvdberrors.IsType(err, tsvdberrors.ErrorTypeArgumentMismatch))
	assert.Equal(t, []Row{{"1", "2"}}, s.Rows())
	assert.Equal(t, "A\tB\n1\t2\n", testutil.ReadRaw(t, path), "nothing written")
}

func TestSetValuesEveryRow(t *testing.T) {
	lines := []string{"A\tB"}
	for i := 0; i < 1000; i++ {
		lines = append(lines, fmt.Sprintf("%d\t", i))
	}
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", lines...)
	s := loadTestStore(t, path, WithWorkers(8, 7))

	_, err := s.SetValues(context.Background(), []string{"B"}, []string{"v$A"})
	require.NoError(t, err)

	rows := s.Rows()
	require.Len(t, rows, 1000)
	for i, r := range rows {
		assert.Equal(t, Row{fmt.Sprint(i), "v" + fmt.Sprint(i)}, r)
	}
}

func TestCancelledPassCommitsNothing(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A", "1", "2", "3")
	s := loadTestStore(t, path)
	before := s.Schema()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AddColumns(ctx, []string{"X", "Y"})
	require.Error(t, err)
	_, err = s.SetValues(ctx, []string{"A"}, []string{"z"})
	require.Error(t, err)

	assert.Equal(t, before, s.Schema())
	assert.Equal(t, []Row{{"1"}, {"2"}, {"3"}}, s.Rows())
	assert.Equal(t, "A\n1\n2\n3\n", testutil.ReadRaw(t, path))
}
