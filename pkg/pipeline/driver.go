// Package pipeline sequences extraction, returns, statistics and
// annualization over one NAV column of an ingested table.
package pipeline

import (
	"context"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
	"github.com/peter-kozarec/navsharpe/pkg/ratio"
	"github.com/peter-kozarec/navsharpe/pkg/returns"
	"github.com/peter-kozarec/navsharpe/pkg/stats"
	"github.com/peter-kozarec/navsharpe/pkg/table"
	"go.uber.org/zap"
)

// StageTiming is the wall clock time spent in one stage.
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

type Result struct {
	RunID  uuid.UUID
	State  State
	Column string
	Period ratio.Period
	Factor float64

	Rows         int
	Observations int64

	Mean       float64
	StdDev     float64
	DailyRatio float64
	Ratio      float64
	Volatility float64

	Elapsed time.Duration
	Timings []StageTiming
}

type Driver struct {
	logger   *zap.Logger
	settings settings

	calculator *returns.Calculator
	aggregator *stats.Aggregator
}

func NewDriver(logger *zap.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := settings{
		mem:  memory.DefaultAllocator,
		ddof: stats.DefaultVarianceOptions().DDOF,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Driver{
		logger:   logger,
		settings: s,
		calculator: returns.NewCalculator(logger,
			returns.WithAllocator(s.mem),
			returns.WithZeroPolicy(s.zeroPolicy),
			returns.WithChunkSize(s.chunkSize)),
		aggregator: stats.NewAggregator(logger, stats.WithWorkers(s.workers)),
	}
}

// Run computes the annualized ratio of the named NAV column. On failure the
// returned Result only carries the run id and StateFailed, and the error is
// a *StageError.
func (d *Driver) Run(ctx context.Context, tbl *table.Table, name string, period ratio.Period) (Result, error) {
	r := &run{
		driver: d,
		result: Result{
			RunID:  uuid.Must(uuid.NewV7()),
			State:  StatePending,
			Column: name,
			Period: period,
		},
	}
	r.logger = d.logger.With(zap.Stringer("run_id", r.result.RunID), zap.String("column", name))
	return r.exec(ctx, tbl, period)
}

type run struct {
	driver *Driver
	logger *zap.Logger
	result Result
	stage  time.Time
}

func (r *run) exec(ctx context.Context, tbl *table.Table, period ratio.Period) (Result, error) {
	startTime := time.Now()
	r.stage = startTime

	nav, err := tbl.Column(r.result.Column)
	if err != nil {
		return r.fail(StageExtract, err)
	}
	defer nav.Release()
	r.result.Rows = nav.Len()
	r.advance(StageExtract, StateExtracted)

	rets, err := r.driver.calculator.Compute(nav)
	if err != nil {
		return r.fail(StageReturns, err)
	}
	defer rets.Release()
	r.advance(StageReturns, StateReturnsComputed)

	moments, err := r.driver.aggregator.Moments(ctx, rets.Column())
	if err != nil {
		return r.fail(StageStatistics, err)
	}
	mean, err := stats.Mean(moments)
	if err != nil {
		return r.fail(StageStatistics, err)
	}
	stddev, err := stats.StdDev(moments, stats.VarianceOptions{DDOF: r.driver.settings.ddof})
	if err != nil {
		return r.fail(StageStatistics, err)
	}
	r.advance(StageStatistics, StateStatisticsComputed)

	opts := []ratio.Option{ratio.WithRiskFree(r.driver.settings.riskFree)}
	if r.driver.settings.factor != 0 {
		opts = append(opts, ratio.WithFactor(r.driver.settings.factor))
	}
	annualizer, err := ratio.NewAnnualizer(period, opts...)
	if err != nil {
		return r.fail(StageAnnualize, err)
	}
	value, err := annualizer.Ratio(mean, stddev)
	if err != nil {
		return r.fail(StageAnnualize, err)
	}
	volatility, err := annualizer.Volatility(stddev)
	if err != nil {
		return r.fail(StageAnnualize, err)
	}
	r.advance(StageAnnualize, StateAnnualized)

	r.result.Elapsed = time.Since(startTime)
	r.result.Factor = annualizer.Factor()
	r.result.Observations = moments.Count
	r.result.Mean = mean.Float64()
	r.result.StdDev = stddev.Float64()
	r.result.DailyRatio = value.Daily
	r.result.Ratio = value.Annualized
	r.result.Volatility = volatility
	r.transition(StateDone)

	r.logger.Info("ratio computed",
		zap.Stringer("period", period),
		zap.Int64("observations", moments.Count),
		zap.Float64("ratio", value.Annualized),
		zap.Duration("elapsed", r.result.Elapsed))

	return r.result, nil
}

func (r *run) advance(stage Stage, to State) {
	now := time.Now()
	r.result.Timings = append(r.result.Timings, StageTiming{Stage: stage, Duration: now.Sub(r.stage)})
	r.stage = now
	r.transition(to)
}

func (r *run) transition(to State) {
	from := r.result.State
	if from.Terminal() {
		r.logger.Warn("transition from terminal state ignored", zap.Stringer("from", from), zap.Stringer("to", to))
		return
	}
	r.result.State = to
	r.logger.Debug("state transition", zap.Stringer("from", from), zap.Stringer("to", to))
	if r.driver.settings.observer != nil {
		r.driver.settings.observer(from, to)
	}
}

func (r *run) fail(stage Stage, err error) (Result, error) {
	r.transition(StateFailed)
	r.logger.Error("pipeline failed", zap.String("stage", string(stage)), zap.Error(err))
	return Result{RunID: r.result.RunID, State: StateFailed, Column: r.result.Column, Period: r.result.Period},
		&StageError{Stage: stage, Err: err}
}
