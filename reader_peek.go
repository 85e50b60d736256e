package nbt

import (
	"io"
)

// PeekableReader lets compression detection look at the first bytes of a
// stream that has no Peek method of its own, then hands them back to the
// decoder unconsumed.
type PeekableReader struct {
	R io.Reader // The underlying reader.
	B []byte    // Bytes peeked but not yet read.
}

// PeekReader returns a PeekableReader. A PeekableReader is returned as is.
func PeekReader(r io.Reader) *PeekableReader {
	if pr, ok := r.(*PeekableReader); ok {
		return pr
	}
	return &PeekableReader{R: r}
}

// Peek returns the next n bytes without advancing the reader. Fewer bytes
// are returned together with the error that cut the read short.
func (r *PeekableReader) Peek(n int) ([]byte, error) {
	if len(r.B) >= n {
		return r.B[:n], nil
	}

	i := len(r.B)
	r.B = append(r.B, make([]byte, n-i)...)

	var err error
	for i < n {
		read, er := r.R.Read(r.B[i:])
		i += read
		if er != nil {
			err = er
			break
		}
	}
	r.B = r.B[:i]
	return r.B, err
}

// Read drains the peeked bytes before reading from the underlying reader.
func (r *PeekableReader) Read(p []byte) (n int, err error) {
	if len(r.B) > 0 {
		n = copy(p, r.B)
		r.B = r.B[n:]
		return n, nil
	}
	return r.R.Read(p)
}

func (r *PeekableReader) ReadByte() (byte, error) {
	if len(r.B) > 0 {
		b := r.B[0]
		r.B = r.B[1:]
		return b, nil
	}
	if br, ok := r.R.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var one [1]byte
	if _, err := io.ReadFull(r.R, one[:]); err != nil {
		return 0, err
	}
	return one[0], nil
}

// Close closes the underlying reader if it implements io.Closer.
func (r *PeekableReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
