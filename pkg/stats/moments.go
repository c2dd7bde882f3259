package stats

import (
	"github.com/peter-kozarec/navsharpe/pkg/column"
)

// Moments is the mergeable partial state of a mean/variance reduction:
// the number of present values, their mean and the sum of squared
// deviations from that mean.
type Moments struct {
	Count int64
	Mean  float64
	M2    float64
}

// Observe folds one value in using Welford's update.
func (m Moments) Observe(x float64) Moments {
	m.Count++
	delta := x - m.Mean
	m.Mean += delta / float64(m.Count)
	m.M2 += delta * (x - m.Mean)
	return m
}

// Combine merges two partials with Chan's parallel rule. It is commutative
// bit for bit, and the zero Moments is its identity.
func Combine(a, b Moments) Moments {
	if a.Count == 0 {
		return b
	}
	if b.Count == 0 {
		return a
	}
	// canonical operand order keeps the result independent of argument order
	if b.Count < a.Count || (b.Count == a.Count && b.Mean < a.Mean) {
		a, b = b, a
	}
	na, nb := float64(a.Count), float64(b.Count)
	n := na + nb
	delta := b.Mean - a.Mean
	return Moments{
		Count: a.Count + b.Count,
		Mean:  a.Mean + delta*(nb/n),
		M2:    a.M2 + b.M2 + delta*delta*(na*nb/n),
	}
}

// Reduce folds every present value of col, skipping nulls.
func Reduce(col *column.Column) Moments {
	var m Moments
	cur := col.Cursor()
	for cur.Next() {
		if x, ok := cur.Value(); ok {
			m = m.Observe(x)
		}
	}
	return m
}
