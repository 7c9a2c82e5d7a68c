// Package testutil provides testing utilities for tsvdb
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/tsvdb/pkg/lineio"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// WriteLines writes lines joined by "\n" to dir/name and returns the path.
// A trailing newline is added after the last line.
func WriteLines(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// WriteCompressed writes lines to path through lineio, so the file gets the
// compression implied by its extension and CRLF line endings.
func WriteCompressed(t *testing.T, path string, lines ...string) string {
	t.Helper()

	w, err := lineio.Create(path, lineio.Options{})
	require.NoError(t, err)
	require.NoError(t, w.WriteLines(lines))
	require.NoError(t, w.Close())
	return path
}

// ReadLines returns the lines of path without terminators, decompressing
// by extension.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	lines, err := lineio.ReadAll(path, lineio.Options{})
	require.NoError(t, err)
	return lines
}

// ReadRaw returns the content of path unchanged.
func ReadRaw(t *testing.T, path string) string {
	t.Helper()

	raw, err := os.ReadFile(path) //nolint:gosec // test fixture path
	require.NoError(t, err)
	return string(raw)
}
