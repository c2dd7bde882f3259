package ingest

import "github.com/apache/arrow-go/v18/arrow/memory"

type Option func(*Loader)

func WithAllocator(mem memory.Allocator) Option {
	return func(l *Loader) {
		if mem != nil {
			l.mem = mem
		}
	}
}

// WithChunkSize sets the rows per chunk of csv and navbin sources.
func WithChunkSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.chunkSize = n
		}
	}
}

// WithQuery sets the statement run against SQL sources.
func WithQuery(query string) Option {
	return func(l *Loader) {
		if query != "" {
			l.query = query
		}
	}
}

// WithFloatColumns forces the named csv columns to float64 instead of
// inferring their type from the first row.
func WithFloatColumns(names ...string) Option {
	return func(l *Loader) {
		l.floats = append(l.floats, names...)
	}
}

func WithS3(opts S3Options) Option {
	return func(l *Loader) {
		l.s3 = opts
	}
}

func withObjectGetter(g objectGetter) Option {
	return func(l *Loader) {
		l.objects = g
	}
}
