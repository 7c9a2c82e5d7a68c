package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
)

// FileSuite provides a context and a fresh directory per test for suites
// that work on files.
type FileSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	dir       string
	startTime time.Time
}

// SetupSuite runs before all tests in the suite
func (s *FileSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Minute)
	s.startTime = time.Now()
}

// TearDownSuite runs after all tests in the suite
func (s *FileSuite) TearDownSuite() {
	s.cancel()
	s.T().Logf("suite completed in %v", time.Since(s.startTime))
}

// SetupTest creates the directory for the next test.
func (s *FileSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

// Context returns the suite context
func (s *FileSuite) Context() context.Context {
	return s.ctx
}

// Dir returns the directory of the current test
func (s *FileSuite) Dir() string {
	return s.dir
}

// WriteLines writes a fixture into the current test directory.
func (s *FileSuite) WriteLines(name string, lines ...string) string {
	return WriteLines(s.T(), s.dir, name, lines...)
}

// ReadLines reads a file written by the code under test.
func (s *FileSuite) ReadLines(path string) []string {
	return ReadLines(s.T(), path)
}
