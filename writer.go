package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

type sink interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

// Writer is the byte sink the encoder and the variants write to.
// It buffers the underlying io.Writer and tracks the first error that occurs.
// After an error, all subsequent write operations become no-ops.
type Writer struct {
	w     sink
	buf   *bufio.Writer // nil when writing straight into an in-memory sink
	count int64         // total bytes written
	err   error         // first error encountered
	order binary.ByteOrder
}

// NewWriter creates a Writer over w. A *bytes.Buffer or *bufio.Writer is
// written to directly; any other writer is buffered and must be flushed.
func NewWriter(w io.Writer) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	switch bw := w.(type) {
	case *Writer:
		return &Writer{w: bw.w, order: bw.order}, nil
	case *bytes.Buffer:
		return &Writer{w: bw, order: binary.BigEndian}, nil
	case *bufio.Writer:
		return &Writer{w: bw, order: binary.BigEndian}, nil
	}
	buf := bufio.NewWriterSize(w, BUFFER_SIZE)
	return &Writer{w: buf, buf: buf, order: binary.BigEndian}, nil
}

// WithByteOrder sets the order used for fixed-width values and returns the
// Writer for chaining.
func (w *Writer) WithByteOrder(order binary.ByteOrder) *Writer {
	w.order = order
	return w
}

func (w *Writer) Order() binary.ByteOrder { return w.order }
func (w *Writer) Count() int64            { return w.count }
func (w *Writer) Err() error              { return w.err }

// Fail records a format error detected by the caller, such as a string too
// long for its length prefix. Only the first error is kept.
func (w *Writer) Fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// setError records the first I/O error as a transport failure.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = transportError(err)
	}
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil || w.buf == nil {
		return w.err
	}
	w.setError(w.buf.Flush())
	return w.err
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteString implements the io.StringWriter interface.
func (w *Writer) WriteString(s string) (int, error) {
	if s == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(s)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteByte implements the io.ByteWriter interface.
func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.WriteByte(v); err != nil {
		w.setError(err)
		return w.err
	}
	w.count++
	return nil
}

// --- Primitive Write Operations ---

func (w *Writer) WriteUint8(v uint8) { _ = w.WriteByte(v) }
func (w *Writer) WriteInt8(v int8)   { _ = w.WriteByte(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

// WriteUvarint writes v as an unsigned LEB128 integer in its shortest form.
func (w *Writer) WriteUvarint(v uint64) {
	if w.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, _ = w.Write(buf[:n])
}
