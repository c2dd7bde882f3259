package navbin

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"golang.org/x/exp/mmap"
)

var (
	ErrEof       = errors.New("EOF")
	ErrTruncated = errors.New("file size is not a multiple of record size")
)

type Reader struct {
	dataSourceName string
	reader         *mmap.ReaderAt
	bufferPool     *sync.Pool
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, RecordSize)
				return &buffer
			},
		},
	}
}

func (r *Reader) Open() error {
	var err error
	r.reader, err = mmap.Open(r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open data source %q: %w", r.dataSourceName, err)
	}
	return nil
}

func (r *Reader) Close() {
	if r.reader != nil {
		_ = r.reader.Close()
	}
}

func (r *Reader) Read(index int64, rec *Record) error {
	buffer := r.bufferPool.Get().(*[]byte)
	defer r.bufferPool.Put(buffer)

	n, err := r.reader.ReadAt(*buffer, index*RecordSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read: %w", err)
	}
	if n < RecordSize {
		return ErrEof
	}

	rec.TimeStamp = int64(binary.LittleEndian.Uint64((*buffer)[0:8]))
	rec.Nav = math.Float64frombits(binary.LittleEndian.Uint64((*buffer)[8:16]))
	return nil
}

func (r *Reader) EntryCount() (int64, error) {
	size := int64(r.reader.Len())
	if size%RecordSize != 0 {
		return 0, fmt.Errorf("%q: %w", r.dataSourceName, ErrTruncated)
	}
	return size / RecordSize, nil
}
