// Package returns turns a NAV column into period-over-period returns.
package returns

import (
	"errors"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/peter-kozarec/navsharpe/pkg/column"
	"github.com/peter-kozarec/navsharpe/pkg/datum"
	"github.com/peter-kozarec/navsharpe/pkg/stats"
	"go.uber.org/zap"
)

var (
	ErrDivisionByZero = errors.New("division by zero NAV")
	// ErrTooFewValues is a stats.ErrInsufficientData.
	ErrTooFewValues = fmt.Errorf("%w: at least two NAV values are required", stats.ErrInsufficientData)
)

// ZeroPolicy decides what a zero previous NAV produces.
type ZeroPolicy int

const (
	// ZeroAsNull emits a null return for the transition.
	ZeroAsNull ZeroPolicy = iota
	// ZeroAsError fails the whole computation with ErrDivisionByZero.
	ZeroAsError
)

func (p ZeroPolicy) String() string {
	switch p {
	case ZeroAsNull:
		return "null"
	case ZeroAsError:
		return "error"
	}
	return fmt.Sprintf("ZeroPolicy(%d)", int(p))
}

func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch s {
	case "", "null":
		return ZeroAsNull, nil
	case "error":
		return ZeroAsError, nil
	}
	return 0, fmt.Errorf("unknown zero policy %q", s)
}

type Calculator struct {
	logger    *zap.Logger
	mem       memory.Allocator
	policy    ZeroPolicy
	chunkSize int
}

func NewCalculator(logger *zap.Logger, opts ...Option) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calculator{
		logger:    logger,
		mem:       memory.DefaultAllocator,
		policy:    ZeroAsNull,
		chunkSize: column.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns a column of len(nav)-1 where row i is the fractional change
// from nav[i] to nav[i+1]. A null on either side yields a null return.
func (c *Calculator) Compute(nav *column.Column) (datum.ArrayResult, error) {
	n := nav.Len()
	if n < 2 {
		return datum.ArrayResult{}, fmt.Errorf("%w: got %d", ErrTooFewValues, n)
	}

	current := nav.Slice(1, n-1)
	defer current.Release()
	previous := nav.Slice(0, n-1)
	defer previous.Release()

	b := column.NewBuilder(c.mem, c.chunkSize)
	cur, prev := current.Cursor(), previous.Cursor()

	var nulls, zeros int
	for row := 0; cur.Next() && prev.Next(); row++ {
		x, xOk := cur.Value()
		p, pOk := prev.Value()
		if !xOk || !pOk {
			b.AppendNull()
			nulls++
			continue
		}

		r := (x - p) / p
		if p == 0 || math.IsInf(r, 0) {
			if c.policy == ZeroAsError {
				b.Release()
				return datum.ArrayResult{}, fmt.Errorf("%w: row %d", ErrDivisionByZero, row)
			}
			b.AppendNull()
			zeros++
			continue
		}
		b.Append(r)
	}

	if nulls > 0 || zeros > 0 {
		c.logger.Debug("returns contain nulls",
			zap.Int("missing_nav", nulls),
			zap.Int("zero_nav", zeros))
	}

	return datum.Array(b.Finish()), nil
}
