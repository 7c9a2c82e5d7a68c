package tsvdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tsvdb/pkg/testutil"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

func splitOptions(t *testing.T) SplitOptions {
	return SplitOptions{Logger: testutil.TestLogger(t)}
}

func TestSplitName(t *testing.T) {
	assert.Equal(t, "dir/data_Split_1.tsv", SplitName("dir/data.tsv", 1))
	assert.Equal(t, "dir/data_Split_12.tsv.gz", SplitName("dir/data.tsv.gz", 12))
	assert.Equal(t, "noext_Split_2", SplitName("noext", 2))
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "data.tsv", "H1\tH2", "r1", "r2\tx", "r3", "r4", "r5")
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	res, err := Split(ctx, path, 2, splitOptions(t))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, "Split", res.Operation)

	want := [][]string{
		{"H1\tH2", "r1", "r2\tx"},
		{"H1\tH2", "r3", "r4"},
		{"H1\tH2", "r5"},
	}
	require.Len(t, res.Outputs, len(want))
	for i, lines := range want {
		assert.Equal(t, SplitName(path, i+1), res.Outputs[i])
		assert.Equal(t, lines, testutil.ReadLines(t, res.Outputs[i]))
	}
	assert.Equal(t, "H1\tH2\r\nr5\r\n", testutil.ReadRaw(t, res.Outputs[2]))

	_, err = os.Stat(SplitName(path, 4))
	assert.True(t, os.IsNotExist(err))
}

func TestSplitExactMultiple(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "H", "1", "2", "3", "4")

	res, err := Split(context.Background(), path, 2, splitOptions(t))
	require.NoError(t, err)
	assert.Len(t, res.Outputs, 2)
}

func TestSplitHeaderOnly(t *testing.T) {
	dir := t.TempDir()

	res, err := Split(context.Background(), testutil.WriteLines(t, dir, "h.tsv", "H"), 10, splitOptions(t))
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)

	res, err = Split(context.Background(), testutil.WriteLines(t, dir, "empty.tsv"), 10, splitOptions(t))
	require.NoError(t, err)
	assert.Empty(t, res.Outputs)
	assert.Equal(t, "file is empty", res.Message)
}

func TestSplitCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tsv.gz")
	testutil.WriteCompressed(t, path, "H", "a", "b", "c")

	res, err := Split(context.Background(), path, 3, splitOptions(t))
	require.NoError(t, err)
	require.Equal(t, []string{SplitName(path, 1)}, res.Outputs)
	assert.Equal(t, []string{"H", "a", "b", "c"}, testutil.ReadLines(t, res.Outputs[0]))
}

func TestSplitErrors(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "data.tsv", "H", "a")

	_, err := Split(context.Background(), path, 0, splitOptions(t))
	assert.True(t, tsvdberrors.IsType(err, tsvdberrors.ErrorTypeInvalidArgument))

	_, err = Split(context.Background(), filepath.Join(dir, "missing.tsv"), 2, splitOptions(t))
	assert.True(t, tsvdberrors.IsType(err, tsvdberrors.ErrorTypeReadFailure))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Split(ctx, path, 1, splitOptions(t))
	require.Error(t, err)
	assert.Empty(t, res.Outputs)
}
