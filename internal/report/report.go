package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/govalues/decimal"
	"github.com/google/uuid"
	"github.com/peter-kozarec/navsharpe/pkg/pipeline"
	"go.uber.org/zap"
)

const (
	ratioScale  = 5
	returnScale = 8
)

// Number is a rounded result. Values beyond the 19 digits of a decimal keep
// their float64 form.
type Number struct {
	dec   decimal.Decimal
	float float64
	exact bool
}

func newNumber(v float64, scale int) (Number, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}, fmt.Errorf("non finite value %v", v)
	}
	d, err := decimal.NewFromFloat64(v)
	if err != nil {
		return Number{float: v}, nil
	}
	return Number{dec: d.Round(scale).Trim(0), exact: true}, nil
}

// Decimal returns the rounded value and false when it does not fit a decimal.
func (n Number) Decimal() (decimal.Decimal, bool) {
	return n.dec, n.exact
}

func (n Number) String() string {
	if n.exact {
		return n.dec.String()
	}
	return strconv.FormatFloat(n.float, 'g', -1, 64)
}

type Report struct {
	RunID        uuid.UUID
	Column       string
	Period       string
	Factor       Number
	Observations int64

	MeanReturn           Number
	StdDev               Number
	DailyRatio           Number
	SharpeRatio          Number
	AnnualizedVolatility Number

	Elapsed time.Duration
}

func New(res pipeline.Result) (Report, error) {
	r := Report{
		RunID:        res.RunID,
		Column:       res.Column,
		Period:       res.Period.String(),
		Observations: res.Observations,
		Elapsed:      res.Elapsed,
	}

	fields := []struct {
		dst   *Number
		value float64
		scale int
		name  string
	}{
		{&r.Factor, res.Factor, 2, "factor"},
		{&r.MeanReturn, res.Mean, returnScale, "mean"},
		{&r.StdDev, res.StdDev, returnScale, "stddev"},
		{&r.DailyRatio, res.DailyRatio, ratioScale, "daily ratio"},
		{&r.SharpeRatio, res.Ratio, ratioScale, "ratio"},
		{&r.AnnualizedVolatility, res.Volatility * 100, 2, "volatility"},
	}
	for _, f := range fields {
		n, err := newNumber(f.value, f.scale)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = n
	}
	return r, nil
}

func (r Report) Print(logger *zap.Logger) {
	logger.Info("nav report",
		zap.Stringer("run_id", r.RunID),
		zap.String("column", r.Column),
		zap.String("period", r.Period),
		zap.Stringer("factor", r.Factor),
		zap.Int64("observations", r.Observations))

	logger.Info("risk metrics",
		zap.Stringer("mean_return", r.MeanReturn),
		zap.Stringer("stddev", r.StdDev),
		zap.Stringer("daily_ratio", r.DailyRatio),
		zap.Stringer("sharpe_ratio", r.SharpeRatio),
		zap.String("annualized_volatility", fmt.Sprintf("%s%%", r.AnnualizedVolatility)),
		zap.String("elapsed", fmt.Sprintf("%.3fms", float64(r.Elapsed.Microseconds())/1000)))
}

// WriteTo writes the two line console summary.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "sharpe ratio: %s\nelapsed: %.3f ms\n",
		r.SharpeRatio, float64(r.Elapsed.Microseconds())/1000)
	return int64(n), err
}
