// Package ratio scales a per-period mean/volatility ratio to a year.
package ratio

import (
	"errors"
	"fmt"
	"math"

	"github.com/peter-kozarec/navsharpe/pkg/datum"
)

var (
	ErrDegenerateVariance = errors.New("standard deviation is zero")
	ErrInvalidInput       = errors.New("invalid input")
)

// Ratio holds the per-period and the annualized value.
type Ratio struct {
	Daily      float64
	Annualized float64
}

type Annualizer struct {
	factor   float64
	riskFree float64
}

// NewAnnualizer uses the factor of period unless WithFactor overrides it.
func NewAnnualizer(period Period, opts ...Option) (*Annualizer, error) {
	a := &Annualizer{factor: float64(period.Factor())}
	for _, opt := range opts {
		opt(a)
	}
	if !(a.factor > 0) || math.IsInf(a.factor, 0) {
		return nil, fmt.Errorf("%w: annualization factor %v", ErrInvalidInput, a.factor)
	}
	if math.IsNaN(a.riskFree) || math.IsInf(a.riskFree, 0) {
		return nil, fmt.Errorf("%w: risk free rate %v", ErrInvalidInput, a.riskFree)
	}
	return a, nil
}

func (a *Annualizer) Factor() float64 { return a.factor }

// Ratio computes (mean-riskFree)/stddev and scales it by sqrt(factor).
func (a *Annualizer) Ratio(mean, stddev datum.ScalarResult) (Ratio, error) {
	m, ok := mean.Value()
	if !ok || math.IsInf(m, 0) {
		return Ratio{}, fmt.Errorf("%w: mean %s", ErrInvalidInput, mean)
	}
	s, ok := stddev.Value()
	if !ok || s < 0 || math.IsInf(s, 0) {
		return Ratio{}, fmt.Errorf("%w: stddev %s", ErrInvalidInput, stddev)
	}
	if s == 0 {
		return Ratio{}, ErrDegenerateVariance
	}

	daily := (m - a.riskFree) / s
	return Ratio{
		Daily:      daily,
		Annualized: daily * math.Sqrt(a.factor),
	}, nil
}

// Volatility is the annualized standard deviation.
func (a *Annualizer) Volatility(stddev datum.ScalarResult) (float64, error) {
	s, ok := stddev.Value()
	if !ok || s < 0 || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: stddev %s", ErrInvalidInput, stddev)
	}
	return s * math.Sqrt(a.factor), nil
}
