package column

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

const DefaultChunkSize = 1 << 16

// Builder appends values and cuts them into chunks of a fixed size.
type Builder struct {
	mem       memory.Allocator
	chunkSize int

	current *array.Float64Builder
	chunks  []*array.Float64
}

func NewBuilder(mem memory.Allocator, chunkSize int) *Builder {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Builder{
		mem:       mem,
		chunkSize: chunkSize,
	}
}

func (b *Builder) Append(v float64) {
	b.reserve()
	b.current.Append(v)
	b.cut()
}

func (b *Builder) AppendNull() {
	b.reserve()
	b.current.AppendNull()
	b.cut()
}

// Finish returns the built column and resets the builder.
func (b *Builder) Finish() *Column {
	if b.current != nil && b.current.Len() > 0 {
		b.chunks = append(b.chunks, b.current.NewFloat64Array())
	}
	col := New(b.chunks...)
	b.Release()
	return col
}

// Release drops everything appended so far.
func (b *Builder) Release() {
	for _, chunk := range b.chunks {
		chunk.Release()
	}
	b.chunks = nil
	if b.current != nil {
		b.current.Release()
		b.current = nil
	}
}

func (b *Builder) reserve() {
	if b.current == nil {
		b.current = array.NewFloat64Builder(b.mem)
		b.current.Reserve(b.chunkSize)
	}
}

func (b *Builder) cut() {
	if b.current.Len() == b.chunkSize {
		b.chunks = append(b.chunks, b.current.NewFloat64Array())
		b.current.Reserve(b.chunkSize)
	}
}

// FromValues builds a column from plain values, NaN marking nulls.
func FromValues(mem memory.Allocator, chunkSize int, values ...float64) *Column {
	b := NewBuilder(mem, chunkSize)
	for _, v := range values {
		b.Append(v)
	}
	return b.Finish()
}
