package nbt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

type source interface {
	io.Reader
	io.ByteReader
}

// Reader is the byte source the decoder and the variants read from.
//
// It counts consumed bytes, enforces an optional byte ceiling and tracks the
// first error. Subsequent reads become no-ops, so a sequence of reads can be
// checked once through Err. End of input is reported as ErrUnexpectedEnd and
// any other failure of the underlying reader as ErrTransport.
type Reader struct {
	r     source
	count int64 // total bytes read
	limit int64 // 0 means unlimited
	err   error // first error encountered
	order binary.ByteOrder
}

// NewReader creates a Reader over r. Readers that already implement
// io.ByteReader are used directly; anything else is buffered.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	switch src := r.(type) {
	// Share the underlying source rather than double-buffering.
	case *Reader:
		return &Reader{r: src.r, order: src.order}, nil
	case source:
		return &Reader{r: src, order: binary.BigEndian}, nil
	}
	return &Reader{r: bufio.NewReaderSize(r, BUFFER_SIZE), order: binary.BigEndian}, nil
}

// WithByteOrder sets the order used for fixed-width values and returns the
// Reader for chaining.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// WithLimit caps the total number of bytes the Reader will consume.
// Zero or a negative value removes the cap.
func (r *Reader) WithLimit(n int64) *Reader {
	r.limit = max(n, 0)
	return r
}

func (r *Reader) Order() binary.ByteOrder { return r.order }
func (r *Reader) Count() int64            { return r.count }
func (r *Reader) Err() error              { return r.err }

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// Fail records a format error detected by the caller, such as a variant that
// finds an impossible length. Only the first error is kept.
func (r *Reader) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// setError classifies and records an error returned by the underlying reader.
func (r *Reader) setError(err error) {
	if r.err != nil || err == nil {
		return
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		r.err = fmt.Errorf("%w: %w", ErrUnexpectedEnd, err)
		return
	}
	r.err = transportError(err)
}

// need checks that n more bytes fit under the limit without consuming them.
func (r *Reader) need(n int64) bool {
	if r.err != nil {
		return false
	}
	if n < 0 {
		r.Fail(fmt.Errorf("%w: %d", ErrNegativeLength, n))
		return false
	}
	if r.limit > 0 && n > r.limit-r.count {
		r.Fail(fmt.Errorf("%w: %d more bytes at offset %d, limit %d", ErrSizeExceeded, n, r.count, r.limit))
		return false
	}
	return true
}

// Read implements io.Reader. Reads are truncated at the limit; once it is
// reached further reads fail with ErrSizeExceeded.
func (r *Reader) Read(p []byte) (int, error) {
	if r.limit > 0 && int64(len(p)) > r.limit-r.count {
		p = p[:max(r.limit-r.count, 1)]
	}
	if !r.need(int64(len(p))) {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	if err != nil && err != io.EOF {
		r.setError(err)
	}
	if n == 0 && err == io.EOF {
		return 0, io.EOF
	}
	return n, r.err
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	if !r.need(1) {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err != nil {
		r.setError(err)
		return 0, r.err
	}
	r.count++
	return b, nil
}

// readFull reads exactly n bytes. Beyond CHUNK_SIZE the buffer grows with
// the data actually received, so a forged length cannot force a large
// allocation up front.
func (r *Reader) readFull(n int64) []byte {
	if !r.need(n) {
		return nil
	}
	if n <= CHUNK_SIZE {
		buf := make([]byte, n)
		read, err := io.ReadFull(r.r, buf)
		r.count += int64(read)
		if err != nil {
			r.setError(err)
			return nil
		}
		return buf
	}

	buf := make([]byte, 0, CHUNK_SIZE)
	for int64(len(buf)) < n {
		step := int(min(n-int64(len(buf)), int64(max(cap(buf)-len(buf), CHUNK_SIZE))))
		buf = slices.Grow(buf, step)
		read, err := io.ReadFull(r.r, buf[len(buf):len(buf)+step])
		buf = buf[:len(buf)+read]
		r.count += int64(read)
		if err != nil {
			r.setError(err)
			return nil
		}
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	return r.readFull(int64(n))
}

// --- Primitive Read Operations ---

func (r *Reader) ReadUint8(dest *uint8) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = b
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	b, err := r.ReadByte()
	if err == nil {
		*dest = int8(b)
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = r.order.Uint16(buf)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = int16(r.order.Uint16(buf))
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = int32(r.order.Uint32(buf))
	}
}

func (r *Reader) ReadInt64(dest *int64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = int64(r.order.Uint64(buf))
	}
}

func (r *Reader) ReadFloat32(dest *float32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = math.Float32frombits(r.order.Uint32(buf))
	}
}

func (r *Reader) ReadFloat64(dest *float64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = math.Float64frombits(r.order.Uint64(buf))
	}
}

// ReadUvarint reads an unsigned LEB128 integer that must fit in bits (32 or 64).
func (r *Reader) ReadUvarint(dest *uint64, bits int) {
	var v uint64
	for shift := 0; shift < bits; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		if shift+7 > bits && uint64(b&0x7f)>>(bits-shift) != 0 {
			r.Fail(fmt.Errorf("%w: more than %d bits at offset %d", ErrVarintOverflow, bits, r.count))
			return
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			*dest = v
			return
		}
	}
	r.Fail(fmt.Errorf("%w: unterminated %d-bit varint at offset %d", ErrVarintOverflow, bits, r.count))
}
