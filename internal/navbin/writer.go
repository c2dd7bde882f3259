package navbin

import (
	"bufio"
	"encoding/binary"
	"io"
)

type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(rec Record) error {
	return binary.Write(w.w, binary.LittleEndian, rec)
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
