// Package datum holds the result of a computation: either a single scalar or
// a full column, never both.
package datum

import (
	"fmt"
	"math"

	"github.com/peter-kozarec/navsharpe/pkg/column"
)

type Kind int

const (
	KindScalar Kind = iota
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Datum is implemented only by ScalarResult and ArrayResult.
type Datum interface {
	Kind() Kind
	String() string
	datum()
}

// ScalarResult is a reduced value, possibly null.
type ScalarResult struct {
	value float64
	valid bool
}

// Scalar wraps v; NaN yields a null scalar.
func Scalar(v float64) ScalarResult {
	if math.IsNaN(v) {
		return ScalarResult{}
	}
	return ScalarResult{value: v, valid: true}
}

func NullScalar() ScalarResult { return ScalarResult{} }

func (ScalarResult) Kind() Kind { return KindScalar }
func (ScalarResult) datum()     {}

func (s ScalarResult) Value() (float64, bool) { return s.value, s.valid }
func (s ScalarResult) IsValid() bool          { return s.valid }

// Float64 returns the value, or NaN for a null scalar.
func (s ScalarResult) Float64() float64 {
	if !s.valid {
		return math.NaN()
	}
	return s.value
}

func (s ScalarResult) String() string {
	if !s.valid {
		return "null"
	}
	return fmt.Sprintf("%g", s.value)
}

// ArrayResult owns one reference to a column.
type ArrayResult struct {
	col *column.Column
}

// Array takes over the caller's reference to col.
func Array(col *column.Column) ArrayResult {
	return ArrayResult{col: col}
}

func (ArrayResult) Kind() Kind { return KindArray }
func (ArrayResult) datum()     {}

func (a ArrayResult) Column() *column.Column { return a.col }
func (a ArrayResult) Len() int               { return a.col.Len() }
func (a ArrayResult) Release()               { a.col.Release() }

func (a ArrayResult) String() string {
	return fmt.Sprintf("array<double>[%d]", a.col.Len())
}
