package ingest

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/peter-kozarec/navsharpe/internal/navbin"
	"github.com/peter-kozarec/navsharpe/pkg/column"
	"github.com/peter-kozarec/navsharpe/pkg/table"
)

var csvNulls = []string{"", "NULL", "null", "NA", "N/A"}

func (l *Loader) readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	opts := []csv.Option{
		csv.WithAllocator(l.mem),
		csv.WithHeader(true),
		csv.WithChunk(l.chunkSize),
		csv.WithNullReader(true, csvNulls...),
	}
	if len(l.floats) > 0 {
		types := make(map[string]arrow.DataType, len(l.floats))
		for _, name := range l.floats {
			types[name] = arrow.PrimitiveTypes.Float64
		}
		opts = append(opts, csv.WithColumnTypes(types))
	}

	r := csv.NewInferringReader(f, opts...)
	defer r.Release()

	var recs []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := r.Err(); err != nil {
		for _, rec := range recs {
			rec.Release()
		}
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if r.Schema() == nil {
		return nil, fmt.Errorf("reading csv: no data rows")
	}
	return l.fromRecords(r.Schema(), recs)
}

func (l *Loader) readIPC(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(l.mem))
	if err != nil {
		return nil, fmt.Errorf("opening ipc file: %w", err)
	}
	defer func() { _ = r.Close() }()

	recs := make([]arrow.Record, 0, r.NumRecords())
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.RecordAt(i)
		if err != nil {
			for _, rec := range recs {
				rec.Release()
			}
			return nil, fmt.Errorf("reading ipc record %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return l.fromRecords(r.Schema(), recs)
}

func (l *Loader) readParquet(ctx context.Context, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(l.mem), pqarrow.ArrowReadProperties{}, l.mem)
	if err != nil {
		return nil, fmt.Errorf("reading parquet: %w", err)
	}
	defer tbl.Release()
	return table.New(l.mem, tbl)
}

func (l *Loader) readNavbin(path string) (*table.Table, error) {
	r := navbin.NewReader(path)
	if err := r.Open(); err != nil {
		return nil, err
	}
	defer r.Close()

	count, err := r.EntryCount()
	if err != nil {
		return nil, err
	}

	ts := array.NewInt64Builder(l.mem)
	defer ts.Release()
	ts.Reserve(int(count))
	nav := column.NewBuilder(l.mem, l.chunkSize)
	defer nav.Release()

	var rec navbin.Record
	for i := int64(0); i < count; i++ {
		if err := r.Read(i, &rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ts.Append(rec.TimeStamp)
		if math.IsNaN(rec.Nav) {
			nav.AppendNull()
		} else {
			nav.Append(rec.Nav)
		}
	}

	tsArr := ts.NewArray()
	defer tsArr.Release()
	navCol := nav.Finish()
	defer navCol.Release()

	return l.fromChunked(
		[]arrow.Field{
			{Name: NavbinTimeColumn, Type: arrow.PrimitiveTypes.Int64},
			{Name: NavbinNavColumn, Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		},
		[]*arrow.Chunked{
			arrow.NewChunked(arrow.PrimitiveTypes.Int64, []arrow.Array{tsArr}),
			navCol.Chunked(),
		},
		count)
}

const (
	NavbinTimeColumn = "ts"
	NavbinNavColumn  = "cumulative_nav"
)
