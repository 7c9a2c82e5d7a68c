// Package tsvdb is a column editor for delimited flat files such as TSV and
// CSV exports.
//
// A file is loaded into a row store keyed by its header line, edited with
// column-level transforms and written back, optionally compressed and in a
// configurable text encoding. Row-wise work runs in parallel over row
// partitions.
//
// # Architecture
//
//   - pkg/tsvdb: the row store, loader, transforms, writer, splitter and
//     multi-file runs
//   - pkg/expr: the "$column" value expressions used by SetValues
//   - pkg/lineio: line readers and writers with encodings and compression
//   - pkg/compression: gzip, zstd, snappy, s2 and lz4 streams
//   - internal/pipeline: partitioned fan-out/fan-in over rows
//   - pkg/config, pkg/logger, pkg/metrics, pkg/observability: configuration,
//     zap logging, Prometheus metrics and OpenTelemetry tracing
//   - pkg/tsvdberrors: error kinds reported by every operation
//
// # Quick Start
//
//	store := tsvdb.New("customers.tsv")
//	if _, err := store.Load(ctx, tsvdb.LoadOptions{}); err != nil {
//	    return err
//	}
//	if _, err := store.RemoveColumns(ctx, "slim.tsv", []string{"Notes"}); err != nil {
//	    return err
//	}
//
// The tsvdb command wraps the same operations:
//
//	tsvdb select --columns Id,Name -o merged.tsv a.tsv b.tsv.gz
//	tsvdb split --batch-size 50000 big.tsv
package tsvdb
