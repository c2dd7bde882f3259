package column

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var ErrUnsupportedType = errors.New("unsupported column type")

// IsNumeric reports whether FromChunked accepts the data type.
func IsNumeric(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.FLOAT64, arrow.FLOAT32,
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return true
	}
	return false
}

// FromChunked converts an Arrow chunked array of any numeric type into a
// float64 column. Float64 chunks are shared, other types are widened.
func FromChunked(mem memory.Allocator, chunked *arrow.Chunked) (*Column, error) {
	if !IsNumeric(chunked.DataType()) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, chunked.DataType())
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	chunks := make([]*array.Float64, 0, len(chunked.Chunks()))
	defer func() {
		for _, chunk := range chunks {
			chunk.Release()
		}
	}()

	for _, arr := range chunked.Chunks() {
		chunk, err := widen(mem, arr)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return New(chunks...), nil
}

func widen(mem memory.Allocator, arr arrow.Array) (*array.Float64, error) {
	var at func(int) float64
	switch a := arr.(type) {
	case *array.Float64:
		a.Retain()
		return a, nil
	case *array.Float32:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int8:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int16:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int32:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Int64:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint8:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint16:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint32:
		at = func(i int) float64 { return float64(a.Value(i)) }
	case *array.Uint64:
		at = func(i int) float64 { return float64(a.Value(i)) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, arr.DataType())
	}

	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Reserve(arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(at(i))
	}
	return b.NewFloat64Array(), nil
}
