// Package config provides the configuration system for tsvdb.
// A single Config structure carries every setting the store, the CLI and
// the ambient stack need.
//
// The configuration is organized into logical sections:
//   - Format: separator, encoding, line ending, compression
//   - Performance: workers, partition size, write and split batch sizes
//   - Logging, Metrics, Tracing: ambient observability
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Separator = "comma"
//	config.AutoTune(cfg)
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"strings"
	"unicode/utf8"

	"github.com/ajitpratap0/tsvdb/pkg/compression"
	"github.com/ajitpratap0/tsvdb/pkg/lineio"
	"github.com/ajitpratap0/tsvdb/pkg/logger"
	"github.com/ajitpratap0/tsvdb/pkg/observability"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// Config is the tsvdb configuration.
type Config struct {
	// Separator is a single character or one of tab, comma, semicolon, pipe
	Separator string `yaml:"separator" json:"separator" mapstructure:"separator"`
	// Encoding names the text encoding of files (utf-8, utf-16le, windows-1252, ...)
	Encoding string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	// LineEnding is written after every line
	LineEnding string `yaml:"line_ending" json:"line_ending" mapstructure:"line_ending"`
	// Compression is auto, none, gzip, snappy, lz4, zstd or s2
	Compression  string `yaml:"compression" json:"compression" mapstructure:"compression"`
	MaxLineBytes int    `yaml:"max_line_bytes" json:"max_line_bytes" mapstructure:"max_line_bytes"`

	Performance PerformanceConfig          `yaml:"performance" json:"performance" mapstructure:"performance"`
	Logging     logger.Config              `yaml:"logging" json:"logging" mapstructure:"logging"`
	Metrics     MetricsConfig              `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
	Tracing     observability.TracingConfig `yaml:"tracing" json:"tracing" mapstructure:"tracing"`
}

// PerformanceConfig controls parallelism and batching.
// Zero values are filled in by AutoTune.
type PerformanceConfig struct {
	Workers        int `yaml:"workers" json:"workers" mapstructure:"workers"`
	ChunkSize      int `yaml:"chunk_size" json:"chunk_size" mapstructure:"chunk_size"`
	WriteBatchSize int `yaml:"write_batch_size" json:"write_batch_size" mapstructure:"write_batch_size"`
	SplitBatchSize int `yaml:"split_batch_size" json:"split_batch_size" mapstructure:"split_batch_size"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in Prometheus text format on exit
	Textfile string `yaml:"textfile" json:"textfile" mapstructure:"textfile"`
}

var separatorNames = map[string]rune{
	"tab":       '\t',
	`\t`:        '\t',
	"comma":     ',',
	"semicolon": ';',
	"pipe":      '|',
}

// Default returns the default configuration: tab separated UTF-8 with CRLF
// line endings and compression inferred from file extensions.
func Default() *Config {
	return &Config{
		Separator:    "tab",
		Encoding:     "utf-8",
		LineEnding:   lineio.DefaultLineEnding,
		Compression:  string(compression.Auto),
		MaxLineBytes: lineio.DefaultMaxLineBytes,
		Performance: PerformanceConfig{
			ChunkSize:      1000,
			WriteBatchSize: 10000,
			SplitBatchSize: 100000,
		},
		Logging: logger.DefaultConfig(),
		Tracing: observability.TracingConfig{
			ServiceName:  "tsvdb",
			SamplingRate: 1.0,
			Output:       "stderr",
		},
	}
}

// SeparatorRune resolves Separator to the delimiter rune.
func (c *Config) SeparatorRune() (rune, error) {
	return ParseSeparator(c.Separator)
}

// ParseSeparator resolves a separator given as a name or a single character.
// The empty string is a tab.
func ParseSeparator(s string) (rune, error) {
	if s == "" {
		return '\t', nil
	}
	if r, ok := separatorNames[strings.ToLower(s)]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, tsvdberrors.Newf(tsvdberrors.ErrorTypeInvalidArgument,
			"separator must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '\r' || r == '\n' {
		return 0, tsvdberrors.New(tsvdberrors.ErrorTypeInvalidArgument, "separator cannot be a line break")
	}
	return r, nil
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	if _, err := c.SeparatorRune(); err != nil {
		return err
	}
	if _, err := lineio.LookupEncoding(c.Encoding); err != nil {
		return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "invalid encoding")
	}
	if _, err := compression.Parse(c.Compression); err != nil {
		return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "invalid compression")
	}
	if c.LineEnding != "" && strings.Trim(c.LineEnding, "\r\n") != "" {
		return tsvdberrors.Newf(tsvdberrors.ErrorTypeConfig, "line_ending must be made of CR and LF, got %q", c.LineEnding)
	}
	if c.MaxLineBytes < 0 {
		return tsvdberrors.New(tsvdberrors.ErrorTypeConfig, "max_line_bytes cannot be negative")
	}
	p := c.Performance
	if p.Workers < 0 || p.ChunkSize < 0 {
		return tsvdberrors.New(tsvdberrors.ErrorTypeConfig, "workers and chunk_size cannot be negative")
	}
	if p.WriteBatchSize < 0 || p.SplitBatchSize < 0 {
		return tsvdberrors.New(tsvdberrors.ErrorTypeInvalidArgument, "batch sizes cannot be negative")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return tsvdberrors.New(tsvdberrors.ErrorTypeConfig, "tracing.sampling_rate must be between 0 and 1")
	}
	return nil
}

// LineOptions returns the line I/O options implied by the configuration.
// An invalid compression name falls back to Auto; call Validate first.
func (c *Config) LineOptions() lineio.Options {
	alg, err := compression.Parse(c.Compression)
	if err != nil {
		alg = compression.Auto
	}
	return lineio.Options{
		Encoding:     c.Encoding,
		Compression:  alg,
		Level:        compression.Default,
		MaxLineBytes: c.MaxLineBytes,
		LineEnding:   c.LineEnding,
	}
}
