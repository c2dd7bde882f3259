package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"github.com/peter-kozarec/navsharpe/internal/dbg"
	"github.com/peter-kozarec/navsharpe/internal/export"
	"github.com/peter-kozarec/navsharpe/internal/ingest"
	"go.uber.org/zap"
)

type convertCmd struct {
	stderr io.Writer

	to         string
	query      string
	timeColumn string
	navColumn  string
	logMode    string
	logLevel   string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a NAV table between storage formats" }
func (*convertCmd) Usage() string {
	return `navsharpe convert [-to <csv|arrow|parquet|navbin>] <source> <dest>

  Loads <source> and writes it to <dest>. Without -to the format follows
  the extension of <dest>.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "output format (csv, arrow, parquet, navbin)")
	f.StringVar(&c.query, "query", ingest.DefaultQuery, "query run against SQL sources")
	f.StringVar(&c.timeColumn, "time-column", ingest.NavbinTimeColumn, "time column written to navbin")
	f.StringVar(&c.navColumn, "nav-column", ingest.NavbinNavColumn, "NAV column written to navbin, forced to float64 when reading csv")
	f.StringVar(&c.logMode, "log-mode", dbg.ModeDev, "logger mode (dev, prod)")
	f.StringVar(&c.logLevel, "log-level", "", "logger level")
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintf(c.stderr, "Error: expected a source and a destination\n\n%s", c.Usage())
		return subcommands.ExitUsageError
	}
	src, dst := f.Arg(0), f.Arg(1)

	var (
		format export.Format
		err    error
	)
	if c.to != "" {
		format, err = export.ParseFormat(c.to)
	} else {
		format, err = export.FormatOf(dst)
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger, err := dbg.NewLogger(c.logMode, c.logLevel)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	loader := ingest.NewLoader(logger, ingest.WithQuery(c.query), ingest.WithFloatColumns(c.navColumn))
	tbl, err := loader.Load(ctx, src)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return ExitIngestion
	}
	defer tbl.Release()

	if err := export.Write(tbl, dst, format, export.WithNavbinColumns(c.timeColumn, c.navColumn)); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	logger.Info("converted",
		zap.String("source", src),
		zap.String("dest", dst),
		zap.Stringer("format", format),
		zap.Int64("rows", tbl.NumRows()))
	return subcommands.ExitSuccess
}

type versionCmd struct {
	stdout io.Writer
}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print the version" }
func (*versionCmd) Usage() string          { return "navsharpe version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (c *versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(c.stdout, "navsharpe %s\n", Version)
	return subcommands.ExitSuccess
}
