package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	"github.com/geoknoesis/rdf-dedup/dedup"
	"github.com/geoknoesis/rdf-dedup/rdf"
)

const logName = "deduprdf"

var errInteractiveInput = errors.New("no input file given and stdin is a terminal; use --file or pipe data in")

// config holds the resolved flag, environment and config file values.
type config struct {
	File       string
	Output     string
	Limit      int64
	NoPrefixes bool
	Strict     bool
	MaxLine    int
	MaxStmt    int
	Verbose    int
	Quiet      bool
	Log        string
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DEDUPRDF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var configFile string

	cmd := &cobra.Command{
		Use:   "deduprdf",
		Short: "Remove duplicate triples from a Turtle or N-Triples stream",
		Long: `Read Turtle or N-Triples and write every distinct triple once, as
N-Triples, in the order of first occurrence.

Reads from stdin unless --file is given and writes to stdout unless
--output is given. Malformed statements are reported and skipped.

Every flag can also be set with a DEDUPRDF_<FLAG> environment variable
(dashes become underscores) or in the file named by --config.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}
			cfg := config{
				File:       v.GetString("file"),
				Output:     v.GetString("output"),
				Limit:      v.GetInt64("limit"),
				NoPrefixes: v.GetBool("no-prefixes"),
				Strict:     v.GetBool("strict"),
				MaxLine:    v.GetInt("max-line-bytes"),
				MaxStmt:    v.GetInt("max-statement-bytes"),
				Verbose:    v.GetInt("verbose"),
				Quiet:      v.GetBool("quiet"),
				Log:        v.GetString("log"),
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "input file (default stdin)")
	flags.StringP("output", "o", "", "output file, truncated if it exists (default stdout)")
	flags.Int64P("limit", "m", -1, "stop after writing this many triples (negative for no limit)")
	flags.Bool("no-prefixes", false, "reject @prefix and PREFIX directives, reporting each one as a syntax error")
	flags.Bool("strict", false, "validate IRIs, blank node labels and language tags")
	flags.Int("max-line-bytes", rdf.DefaultMaxLineBytes, "longest accepted input line (negative for no limit)")
	flags.Int("max-statement-bytes", rdf.DefaultMaxStatementBytes, "longest accepted statement (negative for no limit)")
	flags.CountP("verbose", "v", "increase log verbosity")
	flags.BoolP("quiet", "q", false, "suppress all logging, warnings included")
	flags.String("log", "", "log to this file instead of stderr")
	flags.StringVar(&configFile, "config", "", "read settings from this file (YAML, TOML or JSON)")
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd
}

func run(cmd *cobra.Command, cfg config) error {
	configureLogging(cfg)
	log := commonlog.GetLogger(logName)
	log.Noticef("%s %s", logName, version)

	in, closeIn, err := openInput(cmd, cfg.File)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(cmd, cfg.Output)
	if err != nil {
		return err
	}

	var opts []rdf.Option
	if cfg.NoPrefixes {
		opts = append(opts, rdf.OptNoParsePrefixes())
	}
	opts = append(opts,
		rdf.OptStrict(cfg.Strict),
		rdf.OptMaxLineBytes(cfg.MaxLine),
		rdf.OptMaxStatementBytes(cfg.MaxStmt),
	)

	src := rdf.NewStatementReader(in, opts...)
	defer src.Close()
	enc := rdf.NewEncoder(out)

	pipeline := dedup.NewPipeline(src, enc, dedup.NewLogReporter(log), dedup.Options{Limit: cfg.Limit})
	stats, runErr := pipeline.Run(cmd.Context())
	if err := closeOut(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close output: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	log.Infof("read %d triples, wrote %d, dropped %d duplicates, %d warnings",
		stats.Read, stats.Emitted, stats.Duplicates, stats.Warnings)
	return nil
}

// quietVerbosity maps to commonlog's None level.
const quietVerbosity = -4

func logVerbosity(cfg config) int {
	if cfg.Quiet {
		return quietVerbosity
	}
	return cfg.Verbose
}

func configureLogging(cfg config) {
	verbosity := logVerbosity(cfg)
	var path *string
	if cfg.Log != "" {
		path = &cfg.Log
	}
	commonlog.Configure(verbosity, path)
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "" {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && isTerminal(f) {
			return nil, nil, errInteractiveInput
		}
		return in, func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(cmd *cobra.Command, name string) (io.Writer, func() error, error) {
	if name == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, f.Close, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
