package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tsvdb/pkg/config"
	"github.com/ajitpratap0/tsvdb/pkg/logger"
	"github.com/ajitpratap0/tsvdb/pkg/metrics"
	"github.com/ajitpratap0/tsvdb/pkg/observability"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdb"
	"github.com/ajitpratap0/tsvdb/pkg/tsvdberrors"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all commands of one invocation.
type app struct {
	out      io.Writer
	v        *viper.Viper
	cfgFile  string
	listSep  string
	cfg      *config.Config
	shutdown observability.ShutdownFunc
}

// flag name -> configuration key
var overlays = map[string]string{
	"separator":        "separator",
	"encoding":         "encoding",
	"compression":      "compression",
	"workers":          "performance.workers",
	"log-level":        "logging.level",
	"metrics-textfile": "metrics.textfile",
	"trace":            "tracing.enabled",
	"trace-output":     "tracing.output",
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, v: viper.New()}

	root := &cobra.Command{
		Use:   "tsvdb",
		Short: "tsvdb - column editor for delimited flat files",
		Long: `tsvdb loads delimited text files with a header line, edits their columns
and writes them back. Every command prints one JSON status and exits non-zero
on failure.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Path to YAML configuration file")
	pf.String("separator", "tab", "Column separator: a single character or tab, comma, semicolon, pipe")
	pf.String("encoding", "utf-8", "Text encoding of input and output files")
	pf.String("compression", "auto", "Output compression (auto picks by file extension)")
	pf.Int("workers", 0, "Number of parallel workers (0 = one per logical CPU)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("metrics-textfile", "", "Write Prometheus metrics to this file on exit")
	pf.Bool("trace", false, "Export trace spans")
	pf.String("trace-output", "stderr", "Trace destination: stdout, stderr or a file")
	pf.StringVar(&a.listSep, "list-separator", ",", "Separator of column and value lists in arguments")

	a.v.SetEnvPrefix("TSVDB")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()
	for flagName, key := range overlays {
		_ = a.v.BindPFlag(key, pf.Lookup(flagName))
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "tsvdb v%s\n", version)
			fmt.Fprintf(a.out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(
		a.loadCmd(),
		a.addIDsCmd(),
		a.addColumnsCmd(),
		a.removeCmd(),
		a.selectCmd(),
		a.setCmd(),
		a.splitCmd(),
	)
	return root
}

// setup builds the configuration from defaults, the config file, TSVDB_*
// environment variables and flags, in increasing precedence.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.cfgFile != "" {
		loaded, err := config.Load(a.cfgFile)
		if err != nil {
			return a.report(tsvdb.Result{Operation: "config"}, err)
		}
		cfg = loaded
	}

	for _, key := range overlays {
		if !a.v.IsSet(key) {
			continue
		}
		switch key {
		case "performance.workers":
			cfg.Performance.Workers = a.v.GetInt(key)
		case "tracing.enabled":
			cfg.Tracing.Enabled = a.v.GetBool(key)
		default:
			*stringField(cfg, key) = a.v.GetString(key)
		}
	}

	host := config.AutoTune(cfg)
	if err := cfg.Validate(); err != nil {
		return a.report(tsvdb.Result{Operation: "config"}, err)
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return a.report(tsvdb.Result{Operation: "config"},
			tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "invalid logging configuration"))
	}

	cfg.Tracing.ServiceVersion = version
	shutdown, err := observability.InitTracing(cfg.Tracing)
	if err != nil {
		return a.report(tsvdb.Result{Operation: "config"},
			tsvdberrors.Wrap(err, tsvdberrors.ErrorTypeConfig, "invalid tracing configuration"))
	}
	a.shutdown = shutdown
	a.cfg = cfg

	logger.Get().Debug("configuration ready",
		zap.String("command", cmd.Name()),
		zap.Int("workers", cfg.Performance.Workers),
		zap.Int("logical_cpus", host.LogicalCPUs),
		zap.Uint64("available_bytes", host.AvailableBytes))
	return nil
}

func stringField(cfg *config.Config, key string) *string {
	switch key {
	case "separator":
		return &cfg.Separator
	case "encoding":
		return &cfg.Encoding
	case "compression":
		return &cfg.Compression
	case "logging.level":
		return &cfg.Logging.Level
	case "metrics.textfile":
		return &cfg.Metrics.Textfile
	case "tracing.output":
		return &cfg.Tracing.Output
	}
	panic("unknown configuration key " + key)
}

func (a *app) teardown() error {
	var err error
	if a.shutdown != nil {
		err = multierr.Append(err, a.shutdown(context.Background()))
	}
	if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
		err = multierr.Append(err, metrics.WriteTextfile(a.cfg.Metrics.Textfile))
	}
	_ = logger.Sync()
	return err
}

// report prints the status of an operation and passes err through.
func (a *app) report(res tsvdb.Result, err error) error {
	enc := gojson.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(tsvdb.NewStatus(res, err)); encErr != nil {
		return multierr.Append(err, encErr)
	}
	return err
}
