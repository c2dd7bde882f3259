// Package ingest loads NAV tables from files, databases and object storage.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/peter-kozarec/navsharpe/pkg/column"
	"github.com/peter-kozarec/navsharpe/pkg/table"
	"go.uber.org/zap"
)

var (
	ErrIngestion         = errors.New("ingestion failed")
	ErrUnsupportedSource = errors.New("unsupported source")
)

const DefaultQuery = "SELECT * FROM fund_nav ORDER BY 1"

type Loader struct {
	logger    *zap.Logger
	mem       memory.Allocator
	chunkSize int
	query     string
	floats    []string
	s3        S3Options
	objects   objectGetter
}

func NewLoader(logger *zap.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		logger:    logger,
		mem:       memory.DefaultAllocator,
		chunkSize: column.DefaultChunkSize,
		query:     DefaultQuery,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads src into a table. src is either a local path, whose extension
// selects the format, or a duckdb://, postgres://, sqlite:// or s3:// URL.
// Every failure wraps ErrIngestion.
func (l *Loader) Load(ctx context.Context, src string) (*table.Table, error) {
	tbl, err := l.load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIngestion, src, err)
	}
	l.logger.Debug("source loaded",
		zap.String("source", src),
		zap.Int64("rows", tbl.NumRows()),
		zap.Int64("columns", tbl.NumCols()))
	return tbl, nil
}

func (l *Loader) load(ctx context.Context, src string) (*table.Table, error) {
	if scheme, rest, ok := strings.Cut(src, "://"); ok {
		switch strings.ToLower(scheme) {
		case "s3":
			return l.loadObject(ctx, rest)
		case "duckdb":
			return l.Query(ctx, "duckdb", rest, l.query)
		case "postgres", "postgresql":
			return l.Query(ctx, "postgres", src, l.query)
		case "sqlite", "sqlite3":
			return l.Query(ctx, "sqlite3", rest, l.query)
		default:
			return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, scheme)
		}
	}
	return l.loadFile(ctx, src)
}

func (l *Loader) loadFile(ctx context.Context, path string) (*table.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return l.readCSV(path)
	case ".arrow", ".feather", ".ipc":
		return l.readIPC(path)
	case ".parquet":
		return l.readParquet(ctx, path)
	case ".navbin":
		return l.readNavbin(path)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedSource, ext)
	}
}

// fromRecords builds a table over recs and releases them.
func (l *Loader) fromRecords(schema *arrow.Schema, recs []arrow.Record) (*table.Table, error) {
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	tbl := array.NewTableFromRecords(schema, recs)
	defer tbl.Release()
	return table.New(l.mem, tbl)
}

// fromChunked builds a table from one chunked array per field and releases
// the chunked arrays.
func (l *Loader) fromChunked(fields []arrow.Field, chunks []*arrow.Chunked, rows int64) (*table.Table, error) {
	cols := make([]arrow.Column, len(fields))
	for i := range fields {
		cols[i] = *arrow.NewColumn(fields[i], chunks[i])
		chunks[i].Release()
	}
	defer func() {
		for i := range cols {
			cols[i].Release()
		}
	}()

	tbl := array.NewTable(arrow.NewSchema(fields, nil), cols, rows)
	defer tbl.Release()
	return table.New(l.mem, tbl)
}
