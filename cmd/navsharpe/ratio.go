package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
	"github.com/peter-kozarec/navsharpe/internal/config"
	"github.com/peter-kozarec/navsharpe/internal/dbg"
	"github.com/peter-kozarec/navsharpe/internal/ingest"
	"github.com/peter-kozarec/navsharpe/internal/report"
	"github.com/peter-kozarec/navsharpe/pkg/pipeline"
	"github.com/peter-kozarec/navsharpe/pkg/ratio"
	"github.com/peter-kozarec/navsharpe/pkg/returns"
	"go.uber.org/zap"
)

type ratioCmd struct {
	stdout, stderr io.Writer

	configPath string
	column     string
	period     ratio.Period
	factor     float64
	riskFree   float64
	zeroPolicy string
	ddof       int
	workers    int
	chunkSize  int
	query      string
	logMode    string
	logLevel   string
}

func (*ratioCmd) Name() string     { return "ratio" }
func (*ratioCmd) Synopsis() string { return "compute the annualized sharpe ratio of a NAV series" }
func (*ratioCmd) Usage() string {
	return `navsharpe ratio [-config <file>] [-column <name>] [-period <period>] <source>

  Loads <source> (csv, arrow, parquet, navbin file, or a duckdb://,
  postgres://, sqlite:// or s3:// URL), computes the returns of the NAV
  column and prints the annualized sharpe ratio.
`
}

func (c *ratioCmd) SetFlags(f *flag.FlagSet) {
	def := config.Default()
	f.StringVar(&c.configPath, "config", "", "YAML configuration file")
	f.StringVar(&c.column, "column", def.Column, "NAV column name")
	f.TextVar(&c.period, "period", def.Period, "sampling period (daily, weekly, monthly, quarterly, yearly)")
	f.Float64Var(&c.factor, "factor", def.Factor, "periods per year, overrides -period when non zero")
	f.Float64Var(&c.riskFree, "risk-free", def.RiskFree, "per-period risk free return")
	f.StringVar(&c.zeroPolicy, "zero-policy", def.ZeroPolicy, "zero previous NAV handling (null, error)")
	f.IntVar(&c.ddof, "ddof", def.DDOF, "delta degrees of freedom of the standard deviation")
	f.IntVar(&c.workers, "workers", def.Workers, "statistics workers, 0 uses GOMAXPROCS")
	f.IntVar(&c.chunkSize, "chunk-size", def.ChunkSize, "rows per chunk")
	f.StringVar(&c.query, "query", def.SQL.Query, "query run against SQL sources")
	f.StringVar(&c.logMode, "log-mode", def.Log.Mode, "logger mode (dev, prod)")
	f.StringVar(&c.logLevel, "log-level", def.Log.Level, "logger level")
}

// settings loads the configuration file, if any, and applies the flags set
// on the command line over it.
func (c *ratioCmd) settings(f *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return cfg, err
		}
	}

	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "column":
			cfg.Column = c.column
		case "period":
			cfg.Period = c.period
		case "factor":
			cfg.Factor = c.factor
		case "risk-free":
			cfg.RiskFree = c.riskFree
		case "zero-policy":
			cfg.ZeroPolicy = c.zeroPolicy
		case "ddof":
			cfg.DDOF = c.ddof
		case "workers":
			cfg.Workers = c.workers
		case "chunk-size":
			cfg.ChunkSize = c.chunkSize
		case "query":
			cfg.SQL.Query = c.query
		case "log-mode":
			cfg.Log.Mode = c.logMode
		case "log-level":
			cfg.Log.Level = c.logLevel
		}
	})
	return cfg, cfg.Validate()
}

func (c *ratioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(c.stderr, "Error: expected exactly one source\n\n%s", c.Usage())
		return subcommands.ExitUsageError
	}
	cfg, err := c.settings(f)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	policy, _ := returns.ParseZeroPolicy(cfg.ZeroPolicy)

	logger, err := dbg.NewLogger(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Debug(fmt.Sprintf("navsharpe %s", Version))

	loader := ingest.NewLoader(logger,
		ingest.WithChunkSize(cfg.ChunkSize),
		ingest.WithQuery(cfg.SQL.Query),
		ingest.WithFloatColumns(cfg.Column),
		ingest.WithS3(ingest.S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		}))

	tbl, err := loader.Load(ctx, f.Arg(0))
	if err != nil {
		logger.Error("unable to load source", zap.Error(err))
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return ExitIngestion
	}
	defer tbl.Release()

	driver := pipeline.NewDriver(logger,
		pipeline.WithZeroPolicy(policy),
		pipeline.WithChunkSize(cfg.ChunkSize),
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithDDOF(cfg.DDOF),
		pipeline.WithRiskFree(cfg.RiskFree),
		pipeline.WithFactor(cfg.Factor))

	res, err := driver.Run(ctx, tbl, cfg.Column, cfg.Period)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return ExitComputation
	}

	rep, err := report.New(res)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return ExitComputation
	}
	rep.Print(logger)
	if _, err := rep.WriteTo(c.stdout); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
