// Package export serializes tables to csv, Arrow IPC, Parquet and navbin files.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/peter-kozarec/navsharpe/internal/navbin"
	"github.com/peter-kozarec/navsharpe/pkg/column"
	"github.com/peter-kozarec/navsharpe/pkg/table"
)

var ErrMissingTime = errors.New("table has no int64 or timestamp time column")

type settings struct {
	mem        memory.Allocator
	chunkSize  int64
	timeColumn string
	navColumn  string
}

type Option func(*settings)

func WithAllocator(mem memory.Allocator) Option {
	return func(s *settings) {
		if mem != nil {
			s.mem = mem
		}
	}
}

// WithChunkSize sets the rows per record batch or row group.
func WithChunkSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.chunkSize = int64(n)
		}
	}
}

// WithNavbinColumns names the time and NAV columns written to navbin files.
func WithNavbinColumns(timeColumn, navColumn string) Option {
	return func(s *settings) {
		s.timeColumn = timeColumn
		s.navColumn = navColumn
	}
}

// Write serializes tbl to path. A partially written file is removed.
func Write(tbl *table.Table, path string, format Format, opts ...Option) (err error) {
	s := settings{
		mem:        memory.DefaultAllocator,
		chunkSize:  column.DefaultChunkSize,
		timeColumn: "ts",
		navColumn:  "cumulative_nav",
	}
	for _, opt := range opts {
		opt(&s)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	switch format {
	case FormatCSV:
		err = writeCSV(f, tbl.Arrow(), s)
	case FormatArrow:
		err = writeIPC(f, tbl.Arrow(), s)
	case FormatParquet:
		err = writeParquet(f, tbl.Arrow(), s)
	case FormatNavbin:
		err = writeNavbin(f, tbl, s)
	default:
		err = fmt.Errorf("unknown format %v", format)
	}
	if err != nil {
		return fmt.Errorf("writing %s %q: %w", format, path, err)
	}
	return nil
}

func writeCSV(w io.Writer, tbl arrow.Table, s settings) error {
	tr := array.NewTableReader(tbl, s.chunkSize)
	defer tr.Release()

	cw := csv.NewWriter(w, tbl.Schema(), csv.WithHeader(true), csv.WithNullWriter(""))
	for tr.Next() {
		if err := cw.Write(tr.Record()); err != nil {
			return err
		}
	}
	if err := tr.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeIPC(w io.Writer, tbl arrow.Table, s settings) error {
	tr := array.NewTableReader(tbl, s.chunkSize)
	defer tr.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(tbl.Schema()), ipc.WithAllocator(s.mem))
	if err != nil {
		return err
	}
	for tr.Next() {
		if err := fw.Write(tr.Record()); err != nil {
			_ = fw.Close()
			return err
		}
	}
	if err := tr.Err(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func writeParquet(w io.Writer, tbl arrow.Table, s settings) error {
	props := parquet.NewWriterProperties(
		parquet.WithAllocator(s.mem),
		parquet.WithCompression(compress.Codecs.Snappy))
	return pqarrow.WriteTable(tbl, w, s.chunkSize, props, pqarrow.DefaultWriterProps())
}

func writeNavbin(w io.Writer, tbl *table.Table, s settings) error {
	stamps, err := timeValues(tbl.Arrow(), s.timeColumn)
	if err != nil {
		return err
	}
	nav, err := tbl.Column(s.navColumn)
	if err != nil {
		return err
	}
	defer nav.Release()

	nw := navbin.NewWriter(w)
	cur := nav.Cursor()
	for i := 0; cur.Next(); i++ {
		v, ok := cur.Value()
		if !ok {
			v = math.NaN()
		}
		if err := nw.Write(navbin.Record{TimeStamp: stamps[i], Nav: v}); err != nil {
			return err
		}
	}
	return nw.Flush()
}

func timeValues(tbl arrow.Table, name string) ([]int64, error) {
	indices := tbl.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingTime, name)
	}

	stamps := make([]int64, 0, tbl.NumRows())
	for _, chunk := range tbl.Column(indices[0]).Data().Chunks() {
		switch a := chunk.(type) {
		case *array.Int64:
			stamps = append(stamps, a.Int64Values()...)
		case *array.Timestamp:
			unit := a.DataType().(*arrow.TimestampType).Unit
			for i := 0; i < a.Len(); i++ {
				stamps = append(stamps, a.Value(i).ToTime(unit).UnixNano())
			}
		default:
			return nil, fmt.Errorf("%w: %q is %s", ErrMissingTime, name, chunk.DataType())
		}
	}
	return stamps, nil
}
