package main

import (
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/tsvdb/pkg/tsvdb"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

func (a *app) storeOptions() []tsvdb.Option {
	return []tsvdb.Option{tsvdb.WithConfig(a.cfg)}
}

func (a *app) list(s string) []string {
	sep := ','
	if r := []rune(a.listSep); len(r) == 1 {
		sep = r[0]
	}
	return tsvdb.SplitList(s, sep)
}

func (a *app) loadCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "load <file>...",
		Short: "Load files and report their row counts",
		Long: `Load every file and report the row count of the last one. With --output a
single file is written back out in batches, which converts between separators,
encodings and compressions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return a.report(tsvdb.Result{Operation: "Load"},
					tsvdberrors.New(tsvdberrors.ErrorTypeInvalidArgument, "--output takes a single input file"))
			}
			var res tsvdb.Result
			for _, name := range args {
				store := tsvdb.New(name, a.storeOptions()...)
				r, err := store.Load(cmd.Context(), tsvdb.LoadOptions{})
				if err != nil {
					return a.report(r, err)
				}
				res = r
				if output != "" {
					return a.report(store.SaveBatched(cmd.Context(), output, a.cfg.Performance.WriteBatchSize))
				}
			}
			return a.report(res, nil)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the loaded file to this path")
	return cmd
}

func (a *app) addIDsCmd() *cobra.Command {
	var ids, columns string
	cmd := &cobra.Command{
		Use:   "add-ids <file>...",
		Short: "Replace the header with <name>Id columns followed by extra columns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := tsvdb.NewFiles(args, a.storeOptions()...)
			return a.report(files.AddColumnIDs(cmd.Context(), a.list(ids), a.list(columns)))
		},
	}
	cmd.Flags().StringVar(&ids, "ids", "", "Names to add as <name>Id columns")
	cmd.Flags().StringVar(&columns, "columns", "", "Columns to add after the Id columns")
	return cmd
}

func (a *app) addColumnsCmd() *cobra.Command {
	var columns string
	cmd := &cobra.Command{
		Use:   "add-columns <file>...",
		Short: "Replace the header with the given columns, padding rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := tsvdb.NewFiles(args, a.storeOptions()...)
			return a.report(files.AddColumns(cmd.Context(), a.list(columns)))
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "New header columns")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	var columns, output string
	cmd := &cobra.Command{
		Use:   "remove <file>...",
		Short: "Remove columns",
		Long:  "Remove columns from every file in place, or from a single file into --output.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				files := tsvdb.NewFiles(args, a.storeOptions()...)
				return a.report(files.RemoveColumns(cmd.Context(), a.list(columns)))
			}
			if len(args) > 1 {
				return a.report(tsvdb.Result{Operation: "RemoveColumns"},
					tsvdberrors.New(tsvdberrors.ErrorTypeInvalidArgument, "--output takes a single input file"))
			}
			store := tsvdb.New(args[0], a.storeOptions()...)
			if res, err := store.Load(cmd.Context(), tsvdb.LoadOptions{}); err != nil {
				return a.report(res, err)
			}
			return a.report(store.RemoveColumns(cmd.Context(), output, a.list(columns)))
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "Columns to remove")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: rewrite in place)")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func (a *app) selectCmd() *cobra.Command {
	var columns, output string
	cmd := &cobra.Command{
		Use:   "select <file>...",
		Short: "Select columns, prefixed by the source file name",
		Long: `Select columns from every file. With --output the selections of all files
are merged into one file; otherwise every file is rewritten in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := tsvdb.NewFiles(args, a.storeOptions()...)
			return a.report(files.SelectColumns(cmd.Context(), output, a.list(columns)))
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "Columns to select")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Merged output file")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func (a *app) setCmd() *cobra.Command {
	var columns, values string
	cmd := &cobra.Command{
		Use:   "set <file>...",
		Short: "Set column values from literals or $column expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := tsvdb.NewFiles(args, a.storeOptions()...)
			return a.report(files.SetValues(cmd.Context(), a.list(columns), a.list(values)))
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "Columns to set")
	cmd.Flags().StringVar(&values, "values", "", "Value expressions, one per column")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "split <file>...",
		Short: "Split files into chunks that repeat the header",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchSize == 0 {
				batchSize = a.cfg.Performance.SplitBatchSize
			}
			opts := tsvdb.SplitOptions{Line: a.cfg.LineOptions()}
			var total tsvdb.Result
			for _, name := range args {
				res, err := tsvdb.Split(cmd.Context(), name, batchSize, opts)
				total.Operation = res.Operation
				total.Message = res.Message
				total.Rows += res.Rows
				total.Outputs = append(total.Outputs, res.Outputs...)
				if err != nil {
					return a.report(total, err)
				}
			}
			return a.report(total, nil)
		},
	}
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "Data lines per chunk (default from configuration)")
	return cmd
}
