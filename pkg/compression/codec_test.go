package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	tests := map[string]Algorithm{
		"data.tsv":        None,
		"data.tsv.gz":     Gzip,
		"DATA.TSV.GZ":     Gzip,
		"data.tsv.zst":    Zstd,
		"data.lz4":        LZ4,
		"data.tsv.sz":     Snappy,
		"data.tsv.snappy": Snappy,
		"data.tsv.s2":     S2,
		"noext":           None,
	}
	for path, want := range tests {
		assert.Equal(t, want, FromPath(path), path)
	}
}

func TestSplitExt(t *testing.T) {
	tests := []struct {
		path, stem, ext string
	}{
		{"dir/data.tsv", "dir/data", ".tsv"},
		{"dir/data.tsv.gz", "dir/data", ".tsv.gz"},
		{"data", "data", ""},
		{"data.zst", "data", ".zst"},
	}
	for _, tt := range tests {
		stem, ext := SplitExt(tt.path)
		assert.Equal(t, tt.stem, stem, tt.path)
		assert.Equal(t, tt.ext, ext, tt.path)
	}
}

func TestParse(t *testing.T) {
	alg, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, Auto, alg)

	alg, err = Parse(" ZSTD ")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)

	_, err = Parse("brotli")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, Gzip, Resolve(Auto, "x.tsv.gz"))
	assert.Equal(t, None, Resolve("", "x.tsv"))
	assert.Equal(t, LZ4, Resolve(LZ4, "x.tsv.gz"))
}

func TestRoundTripWithFlush(t *testing.T) {
	first := []byte("id\tname\r\n1\talpha\r\n")
	second := bytes.Repeat([]byte("2\tbeta beta beta\r\n"), 200)

	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy, S2} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, Config{Algorithm: alg, Level: level})
				require.NoError(t, err)

				_, err = w.Write(first)
				require.NoError(t, err)
				require.NoError(t, w.Flush())
				_, err = w.Write(second)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())

				assert.Equal(t, append(append([]byte{}, first...), second...), got)
			})
		}
	}
}

func TestEmptyGzipStream(t *testing.T) {
	r, err := NewReader(bytes.NewReader(nil), Gzip)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, r.Close())
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewWriter(io.Discard, Config{Algorithm: "brotli"})
	assert.Error(t, err)

	_, err = NewReader(bytes.NewReader(nil), "brotli")
	assert.Error(t, err)
}
