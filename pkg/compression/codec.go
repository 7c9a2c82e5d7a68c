// Package compression provides transparent stream compression for flat files.
// The algorithm is chosen from the file extension, so "orders.tsv.gz" is read
// and written as gzip while "orders.tsv" is plain text.
//
// # Supported Algorithms
//
//   - Gzip (.gz, .gzip): wide compatibility
//   - Zstd (.zst, .zstd): best compression ratio, good speed
//   - LZ4 (.lz4): extremely fast
//   - Snappy (.sz, .snappy): framed snappy stream
//   - S2 (.s2): snappy-compatible, faster
//
// # Basic Usage
//
//	alg := compression.FromPath(path)
//	w, err := compression.NewWriter(file, compression.Config{Algorithm: alg})
//	...
//	r, err := compression.NewReader(file, alg)
//
// Every writer returned by NewWriter can be flushed mid-stream, which lets
// batched writers bound memory without closing the file.
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Auto selects the algorithm from the file extension
	Auto Algorithm = "auto"
)

// Level controls the trade-off between speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

var extensions = map[string]Algorithm{
	".gz":     Gzip,
	".gzip":   Gzip,
	".zst":    Zstd,
	".zstd":   Zstd,
	".lz4":    LZ4,
	".sz":     Snappy,
	".snappy": Snappy,
	".s2":     S2,
}

// Config represents writer configuration.
type Config struct {
	Algorithm Algorithm
	Level     Level
}

// WriteFlusher is a compressing writer that can push buffered data to the
// underlying writer without ending the stream.
type WriteFlusher interface {
	io.WriteCloser
	Flush() error
}

// FromPath returns the algorithm implied by the extension of path, or None.
func FromPath(path string) Algorithm {
	if alg, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return alg
	}
	return None
}

// Parse validates an algorithm name. The empty string means Auto.
func Parse(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case "":
		return Auto, nil
	case None, Gzip, Snappy, LZ4, Zstd, S2, Auto:
		return alg, nil
	default:
		return "", fmt.Errorf("unsupported compression algorithm: %s", name)
	}
}

// Resolve turns Auto into the algorithm implied by path.
func Resolve(alg Algorithm, path string) Algorithm {
	if alg == "" || alg == Auto {
		return FromPath(path)
	}
	return alg
}

// SplitExt splits path into a stem and its extension, where a compression
// suffix is kept together with the extension in front of it:
// "dir/data.tsv.gz" yields ("dir/data", ".tsv.gz").
func SplitExt(path string) (stem, ext string) {
	ext = filepath.Ext(path)
	stem = strings.TrimSuffix(path, ext)
	if _, compressed := extensions[strings.ToLower(ext)]; compressed {
		inner := filepath.Ext(stem)
		stem = strings.TrimSuffix(stem, inner)
		ext = inner + ext
	}
	return stem, ext
}

// NewReader wraps r with a decompressing reader for alg. Closing the returned
// reader does not close r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, Auto, "":
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if errors.Is(err, io.EOF) {
			// zero-byte input is an empty stream
			return io.NopCloser(bytes.NewReader(nil)), nil
		}
		if err != nil {
			return nil, err
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// NewWriter wraps w with a compressing writer. Closing the returned writer
// finishes the compressed stream but does not close w.
func NewWriter(w io.Writer, cfg Config) (WriteFlusher, error) {
	if cfg.Level == 0 {
		cfg.Level = Default
	}

	switch cfg.Algorithm {
	case None, Auto, "":
		return nopWriter{w}, nil
	case Gzip:
		return gzip.NewWriterLevel(w, mapGzipLevel(cfg.Level))
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(mapZstdLevel(cfg.Level)))
	case LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(mapLZ4Level(cfg.Level))); err != nil {
			return nil, fmt.Errorf("failed to set lz4 compression level: %w", err)
		}
		return lw, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		var opts []s2.WriterOption
		switch cfg.Level {
		case Better:
			opts = append(opts, s2.WriterBetterCompression())
		case Best:
			opts = append(opts, s2.WriterBestCompression())
		}
		return s2.NewWriter(w, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", cfg.Algorithm)
	}
}

type nopWriter struct {
	io.Writer
}

func (nopWriter) Flush() error { return nil }
func (nopWriter) Close() error { return nil }

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}
