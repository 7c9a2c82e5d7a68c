// Package lineio reads and writes text files one line at a time, handling
// text encodings and transparent compression.
//
// A Reader yields lines without their terminators and accepts both "\n" and
// "\r\n". A byte order mark at the start of the stream overrides the
// configured encoding and is never returned as part of the first line.
// A Writer terminates every line with the configured line ending (CRLF by
// default) and can be flushed between batches without closing the file.
package lineio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ajitpratap0/tsvdb/pkg/compression"
)

const (
	// DefaultMaxLineBytes bounds the length of a single line.
	DefaultMaxLineBytes = 16 * 1024 * 1024
	// DefaultLineEnding is the terminator written after every line.
	DefaultLineEnding = "\r\n"

	initialBufferSize = 64 * 1024
	writeBufferSize   = 256 * 1024
)

// Options configures readers and writers. The zero value reads and writes
// UTF-8 with CRLF line endings. Readers always infer compression from the
// file extension; Compression and Level apply to writers only, where Auto
// also means by extension.
type Options struct {
	Encoding     string
	Compression  compression.Algorithm
	Level        compression.Level
	MaxLineBytes int
	LineEnding   string
}

// LookupEncoding resolves an encoding name such as "utf-8", "utf-16le",
// "windows-1252" or "latin1". The empty name is UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Reader reads lines from a file.
type Reader struct {
	file    *os.File
	decomp  io.ReadCloser
	scanner *bufio.Scanner
	line    int64
}

// Open opens path for line reading.
func Open(path string, opts Options) (*Reader, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return nil, err
	}

	decomp, err := compression.NewReader(f, compression.FromPath(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open compressed stream: %w", err)
	}

	decoded := transform.NewReader(decomp, unicode.BOMOverride(enc.NewDecoder()))

	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, min(initialBufferSize, maxLine)), maxLine)

	return &Reader{file: f, decomp: decomp, scanner: scanner}, nil
}

// Scan advances to the next line. It returns false at end of input or on error;
// Err distinguishes the two.
func (r *Reader) Scan() bool {
	if !r.scanner.Scan() {
		return false
	}
	r.line++
	return true
}

// Text returns the current line without its terminator.
func (r *Reader) Text() string {
	return r.scanner.Text()
}

// Line returns the 1-based number of the current line.
func (r *Reader) Line() int64 {
	return r.line
}

// Err returns the first non-EOF error encountered.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

// Close releases the decompressor and the file.
func (r *Reader) Close() error {
	return multierr.Append(r.decomp.Close(), r.file.Close())
}

// ReadAll returns every line of path.
func ReadAll(path string, opts Options) (lines []string, err error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	for r.Scan() {
		lines = append(lines, r.Text())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.Line()+1, err)
	}
	return lines, nil
}

// Writer writes terminated lines to a file.
type Writer struct {
	file       *os.File
	comp       compression.WriteFlusher
	encoder    *transform.Writer
	buf        *bufio.Writer
	lineEnding string
	lines      int64
}

// Create truncates or creates path for line writing.
func Create(path string, opts Options) (*Writer, error) {
	enc, err := LookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path) //nolint:gosec // path is supplied by the caller
	if err != nil {
		return nil, err
	}

	comp, err := compression.NewWriter(f, compression.Config{
		Algorithm: compression.Resolve(opts.Compression, path),
		Level:     opts.Level,
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open compressed stream: %w", err)
	}

	w := &Writer{file: f, comp: comp, lineEnding: opts.LineEnding}
	if w.lineEnding == "" {
		w.lineEnding = DefaultLineEnding
	}

	var sink io.Writer = comp
	if enc != unicode.UTF8 {
		w.encoder = transform.NewWriter(comp, enc.NewEncoder())
		sink = w.encoder
	}
	w.buf = bufio.NewWriterSize(sink, writeBufferSize)
	return w, nil
}

// WriteLine writes line followed by the line ending.
func (w *Writer) WriteLine(line string) error {
	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	if _, err := w.buf.WriteString(w.lineEnding); err != nil {
		return err
	}
	w.lines++
	return nil
}

// WriteLines writes every line in lines.
func (w *Writer) WriteLines(lines []string) error {
	for _, line := range lines {
		if err := w.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int64 {
	return w.lines
}

// Flush pushes buffered lines through the compressor to the file.
func (w *Writer) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.comp.Flush()
}

// Close flushes everything, finishes the compressed stream and closes the file.
// The file is closed even when flushing fails.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if w.encoder != nil {
		err = multierr.Append(err, w.encoder.Close())
	}
	err = multierr.Append(err, w.comp.Close())
	return multierr.Append(err, w.file.Close())
}
