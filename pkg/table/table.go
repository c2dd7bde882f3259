// Package table wraps an ingested Arrow table and extracts NAV columns from it.
package table

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/peter-kozarec/navsharpe/pkg/column"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrUnsupportedType = column.ErrUnsupportedType
)

// Field describes one column of the schema.
type Field struct {
	Name     string
	Type     string
	Nullable bool
}

// Table is immutable once built.
type Table struct {
	mem memory.Allocator
	tbl arrow.Table
}

// New wraps tbl, retaining it. Column names must be unique.
func New(mem memory.Allocator, tbl arrow.Table) (*Table, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	seen := make(map[string]struct{}, tbl.NumCols())
	for _, f := range tbl.Schema().Fields() {
		if _, ok := seen[f.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	tbl.Retain()
	return &Table{mem: mem, tbl: tbl}, nil
}

// FromColumns builds a float64 table; all columns must have the same length.
func FromColumns(mem memory.Allocator, names []string, cols []*column.Column) (*Table, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d names for %d columns", len(names), len(cols))
	}

	var rows int
	for i, col := range cols {
		if i == 0 {
			rows = col.Len()
		} else if col.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", names[i], col.Len(), rows)
		}
	}

	fields := make([]arrow.Field, len(cols))
	arrowCols := make([]arrow.Column, len(cols))
	for i, col := range cols {
		fields[i] = arrow.Field{Name: names[i], Type: arrow.PrimitiveTypes.Float64, Nullable: true}
		chunked := col.Chunked()
		arrowCols[i] = *arrow.NewColumn(fields[i], chunked)
		chunked.Release()
	}
	defer func() {
		for i := range arrowCols {
			arrowCols[i].Release()
		}
	}()

	tbl := array.NewTable(arrow.NewSchema(fields, nil), arrowCols, int64(rows))
	defer tbl.Release()
	return New(mem, tbl)
}

func (t *Table) NumRows() int64 { return t.tbl.NumRows() }
func (t *Table) NumCols() int64 { return t.tbl.NumCols() }

func (t *Table) Schema() []Field {
	fields := make([]Field, 0, t.tbl.NumCols())
	for _, f := range t.tbl.Schema().Fields() {
		fields = append(fields, Field{Name: f.Name, Type: f.Type.String(), Nullable: f.Nullable})
	}
	return fields
}

// Column returns the numeric column with exactly the given name as a float64
// column. The caller must release it.
func (t *Table) Column(name string) (*column.Column, error) {
	indices := t.tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	col, err := column.FromChunked(t.mem, t.tbl.Column(indices[0]).Data())
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return col, nil
}

// Arrow exposes the underlying table for serialization. It stays owned by t.
func (t *Table) Arrow() arrow.Table { return t.tbl }

func (t *Table) Release() { t.tbl.Release() }
