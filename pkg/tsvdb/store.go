package tsvdb

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/internal/pipeline"
	"github.com/ajitpratap0/tsvdb/pkg/config"
	"github.com/ajitpratap0/tsvdb/pkg/lineio"
	"github.com/ajitpratap0/tsvdb/pkg/logger"
	"github.com/ajitpratap0/tsvdb/pkg/metrics"
	"github.com/ajitpratap0/tsvdb/pkg/observability"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

// Store holds the rows of one delimited file together with the column index
// derived from its header. Every exported method is safe for concurrent use;
// operations on one store are serialized.
type Store struct {
	mu sync.Mutex

	fileName string
	sep      rune
	lineOpts lineio.Options
	pipe     pipeline.Config
	logger   *zap.Logger

	headerLine string
	index      ColumnIndex
	version    uint64
	rows       []Row
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the base logger. The store adds component and file fields.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithSeparator sets the column separator.
func WithSeparator(sep rune) Option {
	return func(s *Store) {
		s.sep = sep
	}
}

// WithLineOptions sets encoding, compression and line ending for reads and writes.
func WithLineOptions(opts lineio.Options) Option {
	return func(s *Store) {
		s.lineOpts = opts
	}
}

// WithWorkers bounds the parallelism of row passes. chunkSize is the number
// of rows handed to a worker at once; zero keeps the default.
func WithWorkers(workers, chunkSize int) Option {
	return func(s *Store) {
		s.pipe.Workers = workers
		s.pipe.ChunkSize = chunkSize
	}
}

// WithConfig applies separator, line and performance settings from cfg.
// An invalid separator is ignored; validate cfg beforehand.
func WithConfig(cfg *config.Config) Option {
	return func(s *Store) {
		if sep, err := cfg.SeparatorRune(); err == nil {
			s.sep = sep
		}
		s.lineOpts = cfg.LineOptions()
		s.pipe.Workers = cfg.Performance.Workers
		s.pipe.ChunkSize = cfg.Performance.ChunkSize
	}
}

// New creates an empty store bound to fileName, the default target of
// loads and saves. The separator defaults to a tab.
func New(fileName string, opts ...Option) *Store {
	s := &Store{
		fileName: fileName,
		sep:      '\t',
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.With(zap.String("component", "tsvdb"), zap.String("file", fileName))
	s.pipe.Logger = s.logger
	return s
}

// SetHeader parses line into column names and rebuilds the index. line is
// kept verbatim as the header written by later saves. A line that is blank
// after trimming leaves the store unchanged.
func (s *Store) SetHeader(line string, sep rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setHeaderLine(line, sep)
}

func (s *Store) setHeaderLine(line string, sep rune) {
	names := splitHeader(line, sep)
	if len(names) == 0 {
		return
	}
	s.headerLine = line
	s.index = NewColumnIndex(names)
	s.version++
}

// setColumns replaces the header with names, which may be empty.
func (s *Store) setColumns(names []string) {
	s.headerLine = strings.Join(names, string(s.sep))
	s.index = NewColumnIndex(names)
	s.version++
}

// Header returns the raw header line.
func (s *Store) Header() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headerLine
}

// Columns returns the header names in order.
func (s *Store) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Names()
}

// Index returns a copy of the column name to ordinal mapping.
func (s *Store) Index() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Map()
}

// Rows returns a deep copy of the rows.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Schema returns the current schema version, columns and width.
func (s *Store) Schema() Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Schema{
		Version: s.version,
		Columns: s.index.Names(),
		Width:   s.index.Width(),
	}
}

// FileName returns the file the store is bound to.
func (s *Store) FileName() string {
	return s.fileName
}

// Separator returns the column separator.
func (s *Store) Separator() rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sep
}

// run executes one operation under the store lock, inside a span, and
// records its duration and outcome.
func (s *Store) run(ctx context.Context, op string, fn func(ctx context.Context, log *zap.Logger) (Result, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = logger.ContextWith(ctx, logger.OperationKey, op)
	ctx, span := observability.StartOperation(ctx, op, attribute.String("file", s.fileName))
	timer := metrics.NewTimer(op)
	log := logger.WithContext(ctx, s.logger)
	log.Debug("operation started")

	res, err := fn(ctx, log)
	res.Operation = op
	res.SchemaVersion = s.version

	elapsed := timer.ObserveDuration(err)
	observability.EndOperation(span, err,
		attribute.Int("rows", res.Rows),
		attribute.Int("width", res.Width),
		attribute.Int64("schema_version", int64(res.SchemaVersion)))

	if err != nil {
		log.Error("operation failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return res, err
	}
	metrics.RowsProcessed.WithLabelValues(op).Add(float64(res.Rows))
	log.Debug("operation finished",
		zap.Int("rows", res.Rows),
		zap.Int("width", res.Width),
		zap.Duration("elapsed", elapsed))
	return res, nil
}

// cancelled maps a failed row pass to an error. Row passes only fail when
// the context ends.
func cancelled(err error) error {
	return tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeInternal, "row pass interrupted")
}
