package table

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/peter-kozarec/navsharpe/pkg/column"
)

func newFundTable(t *testing.T, mem memory.Allocator) *Table {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "date", Type: arrow.BinaryTypes.String},
		{Name: "nav", Type: arrow.PrimitiveTypes.Float64},
		{Name: "cumulative_nav", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.StringBuilder).AppendValues([]string{"2024-01-02", "2024-01-03", "2024-01-04"}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{1.0, 1.1, 0.99}, nil)
	b.Field(2).(*array.Int64Builder).AppendValues([]int64{100, 110, 99}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	out, err := New(mem, tbl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return out
}

func TestTable_Column(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := newFundTable(t, mem)
	defer tbl.Release()

	tests := []struct {
		name   string
		column string
		want   []float64
		err    error
	}{
		{name: "float column", column: "nav", want: []float64{1.0, 1.1, 0.99}},
		{name: "integer column is widened", column: "cumulative_nav", want: []float64{100, 110, 99}},
		{name: "missing column", column: "Cumulative_NAV", err: ErrColumnNotFound},
		{name: "non numeric column", column: "date", err: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, err := tbl.Column(tt.column)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				if col != nil {
					t.Error("expected no column on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer col.Release()
			got := col.Values()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("row %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestTable_Schema(t *testing.T) {
	tbl := newFundTable(t, memory.NewGoAllocator())
	defer tbl.Release()

	if tbl.NumRows() != 3 || tbl.NumCols() != 3 {
		t.Fatalf("expected 3x3, got %dx%d", tbl.NumRows(), tbl.NumCols())
	}
	want := []Field{
		{Name: "date", Type: "utf8"},
		{Name: "nav", Type: "float64"},
		{Name: "cumulative_nav", Type: "int64"},
	}
	for i, f := range tbl.Schema() {
		if f != want[i] {
			t.Errorf("field %d: expected %+v, got %+v", i, want[i], f)
		}
	}
}

func TestTable_DuplicateNames(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a := column.FromValues(mem, 4, 1, 2)
	defer a.Release()
	b := column.FromValues(mem, 4, 3, 4)
	defer b.Release()

	if _, err := FromColumns(mem, []string{"nav", "nav"}, []*column.Column{a, b}); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("expected ErrDuplicateColumn, got %v", err)
	}
}

func TestTable_FromColumns(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	nav := column.FromValues(mem, 2, 1, 2, 3)
	defer nav.Release()
	short := column.FromValues(mem, 2, 1)
	defer short.Release()

	if _, err := FromColumns(mem, []string{"a", "b"}, []*column.Column{nav, short}); err == nil {
		t.Error("expected a length mismatch error")
	}

	tbl, err := FromColumns(mem, []string{"cumulative_nav"}, []*column.Column{nav})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	defer tbl.Release()

	col, err := tbl.Column("cumulative_nav")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	defer col.Release()
	if col.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", col.Len())
	}
}
