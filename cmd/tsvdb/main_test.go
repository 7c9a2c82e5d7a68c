package main

import (
	"bytes"
	"path/filepath"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tsvdb/pkg/testutil"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdb"
)

func execute(t *testing.T, args ...string) (tsvdb.Status, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()

	var st tsvdb.Status
	require.NoError(t, gojson.Unmarshal(out.Bytes(), &st), out.String())
	return st, err
}

func TestSetCommand(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB\tC", "x\ty\tfoo")

	st, err := execute(t, "set", "--columns", "A,B", "--values", "lit$C,X", path)
	require.NoError(t, err)
	assert.True(t, st.Success)
	assert.Equal(t, "SetValues", st.Operation)
	assert.Equal(t, []string{"A\tB\tC", "litfoo\tX\tfoo"}, testutil.ReadLines(t, path))
}

func TestSetCommandMismatch(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A\tB", "1\t2")

	st, err := execute(t, "set", "--columns", "A,B", "--values", "x,y,z", path)
	require.Error(t, err)
	assert.False(t, st.Success)
	assert.Equal(t, "argument_mismatch", st.Kind)
}

func TestSplitCommand(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "H", "1", "2", "3", "4", "5")

	st, err := execute(t, "split", "--batch-size", "2", path)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Rows)
	require.Len(t, st.Outputs, 3)
	assert.Equal(t, "data_Split_3.tsv", filepath.Base(st.Outputs[2]))
}

func TestSelectCommandMerges(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteLines(t, dir, "a.tsv", "Id\tName", "1\tpen")
	b := testutil.WriteLines(t, dir, "b.tsv", "Id\tName", "2\tink")
	out := filepath.Join(dir, "out.tsv")

	st, err := execute(t, "select", "--columns", "Name", "-o", out, a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Rows)
	assert.Equal(t, []string{"FileName\tName", "a.tsv\tpen", "b.tsv\tink"}, testutil.ReadLines(t, out))
}

func TestLoadCommandConverts(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "data.tsv", "A\tB", "1\t2", "3")
	out := filepath.Join(dir, "data.tsv.gz")

	st, err := execute(t, "load", "-o", out, path)
	require.NoError(t, err)
	assert.Equal(t, "SaveBatched", st.Operation)
	assert.Equal(t, []string{"A\tB", "1\t2", "3\t"}, testutil.ReadLines(t, out))
}

func TestCompressionFlagAppliesToOutputOnly(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteLines(t, dir, "data.tsv", "A\tB", "1\t2")
	out := filepath.Join(dir, "out.tsv.gz")

	st, err := execute(t, "--compression", "gzip", "load", "-o", out, path)
	require.NoError(t, err)
	assert.True(t, st.Success)
	assert.Equal(t, []string{"A\tB", "1\t2"}, testutil.ReadLines(t, out))
}

func TestSeparatorFromEnvironment(t *testing.T) {
	t.Setenv("TSVDB_SEPARATOR", "comma")
	path := testutil.WriteLines(t, t.TempDir(), "data.csv", "A,B", "1,2")

	_, err := execute(t, "remove", "--columns", "A", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "2"}, testutil.ReadLines(t, path))
}

func TestInvalidSeparatorFlag(t *testing.T) {
	path := testutil.WriteLines(t, t.TempDir(), "data.tsv", "A", "1")

	st, err := execute(t, "--separator", "::", "load", path)
	require.Error(t, err)
	assert.Equal(t, "invalid_argument", st.Kind)
	assert.Equal(t, "config", st.Operation)
}
