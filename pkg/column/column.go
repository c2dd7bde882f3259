// Package column stores a logical float64 sequence as a list of Arrow chunks.
//
// Consumers address rows by logical offset and walk values through a Cursor;
// chunk boundaries are never visible to them.
package column

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Column is an immutable, reference counted view over float64 chunks.
// NaN values are reported as nulls.
type Column struct {
	refs atomic.Int64

	chunks []*array.Float64
	starts []int // starts[i] is the arena row of chunks[i] first value

	offset int
	length int
}

// New builds a column over the given chunks. The column retains every chunk,
// the caller keeps ownership of its own references.
func New(chunks ...*array.Float64) *Column {
	c := &Column{
		chunks: make([]*array.Float64, 0, len(chunks)),
		starts: make([]int, 0, len(chunks)),
	}
	for _, chunk := range chunks {
		chunk.Retain()
		c.starts = append(c.starts, c.length)
		c.chunks = append(c.chunks, chunk)
		c.length += chunk.Len()
	}
	c.refs.Store(1)
	return c
}

func (c *Column) Len() int { return c.length }

// NullN counts nulls and NaN values in the view.
func (c *Column) NullN() int {
	var n int
	cur := c.Cursor()
	for cur.Next() {
		if _, ok := cur.Value(); !ok {
			n++
		}
	}
	return n
}

// At returns the value at logical row i and whether it is present.
func (c *Column) At(i int) (float64, bool) {
	if i < 0 || i >= c.length {
		panic(fmt.Sprintf("column: index %d out of range [0:%d]", i, c.length))
	}
	k, pos := c.locate(c.offset + i)
	return value(c.chunks[k], pos)
}

// Slice returns a view of length rows starting at offset. The view shares
// chunks with c and must be released independently.
func (c *Column) Slice(offset, length int) *Column {
	if offset < 0 || length < 0 || offset+length > c.length {
		panic(fmt.Sprintf("column: slice [%d:%d] out of range [0:%d]", offset, offset+length, c.length))
	}
	for _, chunk := range c.chunks {
		chunk.Retain()
	}
	v := &Column{
		chunks: c.chunks,
		starts: c.starts,
		offset: c.offset + offset,
		length: length,
	}
	v.refs.Store(1)
	return v
}

// Split cuts the view into at most parts contiguous, non-empty views of
// near equal length. An empty column yields no views.
func (c *Column) Split(parts int) []*Column {
	if parts < 1 {
		parts = 1
	}
	if parts > c.length {
		parts = c.length
	}
	views := make([]*Column, 0, parts)
	size, rest := 0, 0
	if parts > 0 {
		size, rest = c.length/parts, c.length%parts
	}
	offset := 0
	for i := 0; i < parts; i++ {
		n := size
		if i < rest {
			n++
		}
		views = append(views, c.Slice(offset, n))
		offset += n
	}
	return views
}

// Values copies the view into a slice; absent values become NaN.
func (c *Column) Values() []float64 {
	out := make([]float64, 0, c.length)
	cur := c.Cursor()
	for cur.Next() {
		v, ok := cur.Value()
		if !ok {
			v = math.NaN()
		}
		out = append(out, v)
	}
	return out
}

// Chunked exports the view as an Arrow chunked array. The caller must release it.
func (c *Column) Chunked() *arrow.Chunked {
	var slices []arrow.Array
	end := c.offset + c.length
	for k, chunk := range c.chunks {
		lo, hi := c.starts[k], c.starts[k]+chunk.Len()
		if hi <= c.offset || lo >= end {
			continue
		}
		from, to := max(lo, c.offset)-lo, min(hi, end)-lo
		slices = append(slices, array.NewSlice(chunk, int64(from), int64(to)))
	}
	chunked := arrow.NewChunked(arrow.PrimitiveTypes.Float64, slices)
	for _, s := range slices {
		s.Release()
	}
	return chunked
}

func (c *Column) Retain() {
	c.refs.Add(1)
}

// Release drops one reference; chunks are released with the last one.
func (c *Column) Release() {
	if c.refs.Add(-1) == 0 {
		for _, chunk := range c.chunks {
			chunk.Release()
		}
	}
}

func (c *Column) locate(row int) (chunk, pos int) {
	// last chunk starting at or before row; empty chunks never match an in-range row
	k := sort.Search(len(c.starts), func(i int) bool { return c.starts[i] > row }) - 1
	return k, row - c.starts[k]
}

func value(chunk *array.Float64, pos int) (float64, bool) {
	if chunk.IsNull(pos) {
		return 0, false
	}
	v := chunk.Value(pos)
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
