package ratio

import (
	"errors"
	"math"
	"testing"

	"github.com/peter-kozarec/navsharpe/pkg/datum"
)

func TestPeriod_Factor(t *testing.T) {
	tests := []struct {
		in     string
		period Period
		factor int
	}{
		{"daily", Daily, 252},
		{"weekly", Weekly, 52},
		{"monthly", Monthly, 12},
		{"quarterly", Quarterly, 4},
		{"Yearly", Yearly, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePeriod(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p != tt.period || p.Factor() != tt.factor {
				t.Errorf("expected %v/%d, got %v/%d", tt.period, tt.factor, p, p.Factor())
			}
		})
	}

	if _, err := ParsePeriod("hourly"); err == nil {
		t.Error("expected an error for an unknown period")
	}
	if Period(42).Factor() != 0 {
		t.Error("unknown period should have no factor")
	}
}

func TestAnnualizer_Ratio(t *testing.T) {
	tests := []struct {
		name       string
		period     Period
		opts       []Option
		mean       datum.ScalarResult
		stddev     datum.ScalarResult
		daily      float64
		annualized float64
		err        error
	}{
		{
			name:       "zero mean",
			period:     Daily,
			mean:       datum.Scalar(0),
			stddev:     datum.Scalar(0.1 * math.Sqrt2),
			daily:      0,
			annualized: 0,
		},
		{
			name:       "daily",
			period:     Daily,
			mean:       datum.Scalar(0.001),
			stddev:     datum.Scalar(0.01),
			daily:      0.1,
			annualized: 0.1 * math.Sqrt(252),
		},
		{
			name:       "monthly with risk free",
			period:     Monthly,
			opts:       []Option{WithRiskFree(0.002)},
			mean:       datum.Scalar(0.01),
			stddev:     datum.Scalar(0.04),
			daily:      0.2,
			annualized: 0.2 * math.Sqrt(12),
		},
		{
			name:       "custom factor",
			period:     Daily,
			opts:       []Option{WithFactor(365)},
			mean:       datum.Scalar(0.001),
			stddev:     datum.Scalar(0.01),
			daily:      0.1,
			annualized: 0.1 * math.Sqrt(365),
		},
		{
			name:   "zero stddev",
			period: Daily,
			mean:   datum.Scalar(0),
			stddev: datum.Scalar(0),
			err:    ErrDegenerateVariance,
		},
		{
			name:   "null mean",
			period: Daily,
			mean:   datum.NullScalar(),
			stddev: datum.Scalar(0.1),
			err:    ErrInvalidInput,
		},
		{
			name:   "negative stddev",
			period: Daily,
			mean:   datum.Scalar(0.1),
			stddev: datum.Scalar(-0.1),
			err:    ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnnualizer(tt.period, tt.opts...)
			if err != nil {
				t.Fatalf("NewAnnualizer: %v", err)
			}
			r, err := a.Ratio(tt.mean, tt.stddev)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(r.Daily-tt.daily) > 1e-12 {
				t.Errorf("daily: expected %v, got %v", tt.daily, r.Daily)
			}
			if math.Abs(r.Annualized-tt.annualized) > 1e-12 {
				t.Errorf("annualized: expected %v, got %v", tt.annualized, r.Annualized)
			}
		})
	}
}

func TestAnnualizer_YearlyIsIdentity(t *testing.T) {
	a, err := NewAnnualizer(Yearly)
	if err != nil {
		t.Fatalf("NewAnnualizer: %v", err)
	}
	for _, m := range []float64{0.0123, -0.5, 3.75e-4} {
		r, err := a.Ratio(datum.Scalar(m), datum.Scalar(0.037))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Annualized != r.Daily {
			t.Errorf("expected %v, got %v", r.Daily, r.Annualized)
		}
	}
}

func TestAnnualizer_Volatility(t *testing.T) {
	a, err := NewAnnualizer(Weekly)
	if err != nil {
		t.Fatalf("NewAnnualizer: %v", err)
	}
	v, err := a.Volatility(datum.Scalar(0.02))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(v-0.02*math.Sqrt(52)) > 1e-15 {
		t.Errorf("expected %v, got %v", 0.02*math.Sqrt(52), v)
	}
}

func TestAnnualizer_InvalidConfiguration(t *testing.T) {
	if _, err := NewAnnualizer(Period(9)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown period: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewAnnualizer(Daily, WithFactor(-4)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative factor: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewAnnualizer(Daily, WithRiskFree(math.NaN())); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("NaN risk free: expected ErrInvalidInput, got %v", err)
	}
}
