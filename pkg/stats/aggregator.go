// Package stats computes the mean and sample standard deviation of a column
// as a chunk-parallel reduction.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/peter-kozarec/navsharpe/pkg/column"
	"github.com/peter-kozarec/navsharpe/pkg/datum"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrInsufficientData = errors.New("insufficient data")

// VarianceOptions configures the variance divisor count-DDOF.
type VarianceOptions struct {
	DDOF int
}

func DefaultVarianceOptions() VarianceOptions {
	return VarianceOptions{DDOF: 1}
}

type Aggregator struct {
	logger  *zap.Logger
	workers int
}

func NewAggregator(logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Moments reduces col in up to Workers partitions, one goroutine each, and
// combines the partials in partition order.
func (a *Aggregator) Moments(ctx context.Context, col *column.Column) (Moments, error) {
	startTime := time.Now()

	parts := col.Split(a.workers)
	defer func() {
		for _, p := range parts {
			p.Release()
		}
	}()

	partials := make([]Moments, len(parts))
	g, ctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partials[i] = Reduce(part)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Moments{}, fmt.Errorf("reducing partitions: %w", err)
	}

	var total Moments
	for _, p := range partials {
		total = Combine(total, p)
	}

	a.logger.Debug("moments reduced",
		zap.Int("partitions", len(parts)),
		zap.Int64("count", total.Count),
		zap.Duration("duration", time.Since(startTime)))

	return total, nil
}

// Mean is the arithmetic mean of the present values.
func Mean(m Moments) (datum.ScalarResult, error) {
	if m.Count == 0 {
		return datum.NullScalar(), fmt.Errorf("%w: mean of zero values", ErrInsufficientData)
	}
	return datum.Scalar(m.Mean), nil
}

// Variance is M2/(count-ddof).
func Variance(m Moments, opts VarianceOptions) (datum.ScalarResult, error) {
	dof := m.Count - int64(opts.DDOF)
	if dof <= 0 {
		return datum.NullScalar(), fmt.Errorf("%w: %d values with ddof %d", ErrInsufficientData, m.Count, opts.DDOF)
	}
	// M2 is never negative in exact arithmetic
	return datum.Scalar(math.Max(m.M2, 0) / float64(dof)), nil
}

func StdDev(m Moments, opts VarianceOptions) (datum.ScalarResult, error) {
	v, err := Variance(m, opts)
	if err != nil {
		return v, err
	}
	return datum.Scalar(math.Sqrt(v.Float64())), nil
}
