package tsvdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tsvdb/pkg/testutil"
)

func TestSelectColumns(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "orders.tsv", "Id\tName\tQty", "1\tpen\t3", "2\tink")
	s := loadTestStore(t, path)
	before := s.Schema()
	out := filepath.Join(dir, "out.tsv")

	res, err := s.SelectColumns(context.Background(), out, []string{"Qty", "Unknown", "Id"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, []string{
		"FileName\tQty\tUnknown\tId",
		"orders.tsv\t3\t\t1",
		"orders.tsv\t\t\t2",
	}, testutil.ReadLines(t, out))

	assert.Equal(t, before, s.Schema(), "store is not modified")
	assert.Equal(t, []Row{{"1", "pen", "3"}, {"2", "ink", ""}}, s.Rows())
}

func TestSelectColumnsFileNameEntry(t *testing.T) {
	dir := t.TempDir()

	t.Run("own column", func(t *testing.T) {
		path := testutil.WriteLines(t, dir, "merged.tsv", "FileName\tA", "first.tsv\t1", "second.tsv\t2")
		s := loadTestStore(t, path)
		out := filepath.Join(dir, "own.tsv")

		_, err := s.SelectColumns(context.Background(), out, []string{"filename", "A"})
		require.NoError(t, err)
		assert.Equal(t, []string{"filename\tA", "first.tsv\t1", "second.tsv\t2"}, testutil.ReadLines(t, out))
	})

	t.Run("source name", func(t *testing.T) {
		path := testutil.WriteLines(t, dir, "src.tsv", "Id\tA", "7\t1")
		s := loadTestStore(t, path)
		out := filepath.Join(dir, "named.tsv")

		_, err := s.SelectColumns(context.Background(), out, []string{"A", "FILENAME"})
		require.NoError(t, err)
		assert.Equal(t, []string{"A\tFILENAME", "1\tsrc.tsv"}, testutil.ReadLines(t, out))
	})
}

func TestSelectColumnsInPlace(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2")
	s := loadTestStore(t, path)

	res, err := s.SelectColumns(context.Background(), "", []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, res.Outputs)
	assert.Equal(t, []string{"FileName\tB", "data.tsv\t2"}, testutil.ReadLines(t, path))
}

func TestSelection(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2")
	s := loadTestStore(t, path)

	header, lines, err := s.Selection(context.Background(), []string{"B"})
	require.NoError(t, err)
	assert.Equal(t, "FileName\tB", header)
	assert.Equal(t, []string{"data.tsv\t2"}, lines)
}
