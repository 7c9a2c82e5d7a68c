// Package tsvdb edits delimited flat files with a header line.
//
// A Store loads one file into memory as a header plus rows, applies
// column-level transforms and writes the result back. Row-wise work is
// partitioned across workers; every public Store method holds the store lock
// for its whole duration.
//
// # Basic Usage
//
//	store := tsvdb.New("orders.tsv")
//	if _, err := store.Load(ctx, tsvdb.LoadOptions{}); err != nil {
//	    return err
//	}
//	res, err := store.SetValues(ctx,
//	    []string{"Ref", "Status"},
//	    []string{"ord-$Region$Number", "open"})
//	status := tsvdb.NewStatus(res, err)
//
// # Transforms
//
//   - AddColumnIDs, AddColumns: replace the header and pad rows, then save
//   - RemoveColumns: drop columns and write to an output file
//   - SelectColumns: write chosen columns prefixed by the source file name
//   - SetValues: assign literal or "$column" expressions, then save
//
// Unknown column names are ignored and short rows are padded; neither is an
// error. Failures carry a tsvdberrors kind: read_failure, write_failure,
// argument_mismatch or invalid_argument.
//
// # Splitting
//
// Split streams a file into chunk files named <stem>_Split_<n><ext>, each
// starting with the source header. It works on the file directly and needs
// no Store.
//
// # Several Files
//
// Files runs the same operation over a list of files, one store at a time,
// and stops at the first failure.
package tsvdb
