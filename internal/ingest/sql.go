package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/peter-kozarec/navsharpe/pkg/table"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
)

// Query runs query against the database and builds one column per result
// column. Columns whose non null values are all integers become int64,
// numeric ones float64 and anything else a string.
func (l *Loader) Query(ctx context.Context, driverName, dataSourceName, query string) (*table.Table, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driverName, err)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error running query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("error reading columns: %w", err)
	}

	values := make([][]any, len(names))
	dest := make([]any, len(names))
	for i := range dest {
		dest[i] = new(any)
	}

	var n int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning row %d: %w", n, err)
		}
		for i := range dest {
			values[i] = append(values[i], *(dest[i].(*any)))
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning rows: %w", err)
	}

	fields := make([]arrow.Field, len(names))
	chunks := make([]*arrow.Chunked, len(names))
	for i, name := range names {
		arr := l.buildSQLColumn(values[i])
		fields[i] = arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}
		chunks[i] = arrow.NewChunked(arr.DataType(), []arrow.Array{arr})
		arr.Release()
	}

	l.logger.Debug("query finished", zap.String("driver", driverName), zap.Int64("rows", n))
	return l.fromChunked(fields, chunks, n)
}

type sqlKind int

const (
	sqlNull sqlKind = iota
	sqlInt
	sqlFloat
	sqlString
)

func (l *Loader) buildSQLColumn(values []any) arrow.Array {
	kind := sqlNull
	for _, v := range values {
		if v == nil {
			continue
		}
		k := kindOf(v)
		if k > kind {
			kind = k
		}
		if kind == sqlString {
			break
		}
	}

	switch kind {
	case sqlInt:
		b := array.NewInt64Builder(l.mem)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			i, _ := asInt(v)
			b.Append(i)
		}
		return b.NewArray()
	case sqlFloat, sqlNull:
		b := array.NewFloat64Builder(l.mem)
		defer b.Release()
		for _, v := range values {
			f, ok := asFloat(v)
			if !ok {
				b.AppendNull()
				continue
			}
			b.Append(f)
		}
		return b.NewArray()
	default:
		b := array.NewStringBuilder(l.mem)
		defer b.Release()
		for _, v := range values {
			if v == nil {
				b.AppendNull()
				continue
			}
			b.Append(asString(v))
		}
		return b.NewArray()
	}
}

func kindOf(v any) sqlKind {
	if _, ok := asInt(v); ok {
		return sqlInt
	}
	if _, ok := asFloat(v); ok {
		return sqlFloat
	}
	return sqlString
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case int:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	}
	return 0, false
}

// asFloat accepts numeric values and the textual decimals some drivers
// return for NUMERIC columns.
func asFloat(v any) (float64, bool) {
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case []byte:
		f, err := strconv.ParseFloat(string(x), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}
