package stats

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/peter-kozarec/navsharpe/pkg/column"
)

func closeTo(expected, actual, rel float64) bool {
	return math.Abs(expected-actual) <= rel*math.Max(1, math.Max(math.Abs(expected), math.Abs(actual)))
}

func twoPass(values []float64, ddof int) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / float64(len(values)-ddof))
}

func TestStats_MeanStdDev(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name   string
		values []float64
		ddof   int
		mean   float64
		std    float64
		err    error
	}{
		{
			name:   "symmetric returns",
			values: []float64{0.10, -0.10},
			ddof:   1,
			mean:   0,
			std:    0.1 * math.Sqrt2,
		},
		{
			name:   "population",
			values: []float64{2, 4, 4, 4, 5, 5, 7, 9},
			ddof:   0,
			mean:   5,
			std:    2,
		},
		{
			name:   "nulls are skipped",
			values: []float64{nan, 1, 2, nan, 3},
			ddof:   1,
			mean:   2,
			std:    1,
		},
		{
			name:   "constant",
			values: []float64{0, 0, 0},
			ddof:   1,
			mean:   0,
			std:    0,
		},
		{
			name:   "single value with bessel correction",
			values: []float64{0.3},
			ddof:   1,
			mean:   0.3,
			err:    ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer mem.AssertSize(t, 0)

			col := column.FromValues(mem, 2, tt.values...)
			defer col.Release()

			m, err := NewAggregator(nil, WithWorkers(3)).Moments(context.Background(), col)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			mean, err := Mean(m)
			if err != nil {
				t.Fatalf("mean: unexpected error: %v", err)
			}
			if !closeTo(tt.mean, mean.Float64(), 1e-12) {
				t.Errorf("mean: expected %v, got %v", tt.mean, mean)
			}

			std, err := StdDev(m, VarianceOptions{DDOF: tt.ddof})
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("stddev: expected %v, got %v", tt.err, err)
				}
				if std.IsValid() {
					t.Errorf("stddev: expected null scalar on error, got %v", std)
				}
				return
			}
			if err != nil {
				t.Fatalf("stddev: unexpected error: %v", err)
			}
			if !closeTo(tt.std, std.Float64(), 1e-12) {
				t.Errorf("stddev: expected %v, got %v", tt.std, std)
			}
		})
	}
}

func TestStats_EmptyColumn(t *testing.T) {
	col := column.FromValues(nil, 4)
	defer col.Release()

	m, err := NewAggregator(nil).Moments(context.Background(), col)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Mean(m); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("mean: expected ErrInsufficientData, got %v", err)
	}
	if _, err := StdDev(m, DefaultVarianceOptions()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("stddev: expected ErrInsufficientData, got %v", err)
	}
}

func TestStats_CombineIsCommutativeWithIdentity(t *testing.T) {
	var a, b Moments
	for _, v := range []float64{0.013, -0.002, 0.0071} {
		a = a.Observe(v)
	}
	for _, v := range []float64{0.004, 0.0005} {
		b = b.Observe(v)
	}

	if Combine(a, b) != Combine(b, a) {
		t.Errorf("combine is not commutative: %+v vs %+v", Combine(a, b), Combine(b, a))
	}
	if Combine(a, Moments{}) != a || Combine(Moments{}, a) != a {
		t.Error("zero moments is not the identity")
	}
}

func TestStats_LargeMagnitudeIsStable(t *testing.T) {
	values := make([]float64, 0, 1000)
	for i := 0; i < 1000; i++ {
		values = append(values, 1e9+float64(i%7)*1e-3)
	}
	col := column.FromValues(nil, 64, values...)
	defer col.Release()

	m, err := NewAggregator(nil, WithWorkers(8)).Moments(context.Background(), col)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	std, err := StdDev(m, DefaultVarianceOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, want := twoPass(values, 1)
	if !closeTo(want, std.Float64(), 1e-6) {
		t.Errorf("expected %v, got %v", want, std)
	}
}

func TestStats_CanceledContext(t *testing.T) {
	col := column.FromValues(nil, 2, 1, 2, 3, 4)
	defer col.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewAggregator(nil, WithWorkers(2)).Moments(ctx, col); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestStats_PartitioningIsInvisible(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	values := gen.SliceOf(gen.Float64Range(-0.2, 0.2)).SuchThat(func(v []float64) bool { return len(v) >= 2 })

	properties.Property("mean and stddev do not depend on chunks or workers", prop.ForAll(
		func(v []float64, chunk, workers int) bool {
			ref := column.FromValues(nil, len(v), v...)
			defer ref.Release()
			col := column.FromValues(nil, chunk, v...)
			defer col.Release()

			single, err := NewAggregator(nil, WithWorkers(1)).Moments(context.Background(), ref)
			if err != nil {
				return false
			}
			parallel, err := NewAggregator(nil, WithWorkers(workers)).Moments(context.Background(), col)
			if err != nil {
				return false
			}

			s1, _ := StdDev(single, DefaultVarianceOptions())
			s2, _ := StdDev(parallel, DefaultVarianceOptions())
			return single.Count == parallel.Count &&
				closeTo(single.Mean, parallel.Mean, 1e-9) &&
				closeTo(s1.Float64(), s2.Float64(), 1e-9)
		},
		values,
		gen.IntRange(1, 17),
		gen.IntRange(1, 12),
	))

	properties.Property("matches a two-pass computation", prop.ForAll(
		func(v []float64, workers int) bool {
			col := column.FromValues(nil, 5, v...)
			defer col.Release()
			m, err := NewAggregator(nil, WithWorkers(workers)).Moments(context.Background(), col)
			if err != nil {
				return false
			}
			std, err := StdDev(m, DefaultVarianceOptions())
			if err != nil {
				return false
			}
			wantMean, wantStd := twoPass(v, 1)
			return closeTo(wantMean, m.Mean, 1e-9) && closeTo(wantStd, std.Float64(), 1e-9)
		},
		values,
		gen.IntRange(1, 12),
	))

	properties.TestingRun(t)
}
