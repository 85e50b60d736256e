package nbt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// maxListPrealloc bounds the capacity reserved from a list's declared count;
// longer lists grow as their elements are actually read.
const maxListPrealloc = 1 << 12

type peekSource interface {
	source
	Peek(n int) ([]byte, error)
}

// Decoder reads NBT documents from a byte stream.
//
// A Decoder on an uncompressed stream may be called repeatedly to read
// documents stored back to back; Decode returns io.EOF once the stream ends
// cleanly between documents.
type Decoder struct {
	r           peekSource
	variant     Variant
	compression Compression
	limits      Limits
}

// NewDecoder returns a Decoder reading big-endian, uncompressed NBT from r
// with DefaultLimits.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{variant: BigEndian, compression: CompressionNone, limits: DefaultLimits()}
	switch src := r.(type) {
	case nil:
	case peekSource:
		d.r = src
	default:
		d.r = bufio.NewReaderSize(r, BUFFER_SIZE)
	}
	return d
}

// WithVariant selects the wire dialect. A nil variant is ignored.
func (d *Decoder) WithVariant(v Variant) *Decoder {
	if v != nil {
		d.variant = v
	}
	return d
}

// WithCompression selects how the stream is decompressed before decoding.
func (d *Decoder) WithCompression(c Compression) *Decoder {
	d.compression = c
	return d
}

// WithLimits replaces the decoding limits.
func (d *Decoder) WithLimits(l Limits) *Decoder {
	d.limits = l
	return d
}

// Decode reads one root tag and its name. On failure no tree is returned and
// the error is a *DecodeError wrapping one of the package's sentinel errors.
func (d *Decoder) Decode() (string, Tag, error) {
	return d.decode(false)
}

func (d *Decoder) decode(whole bool) (name string, tag Tag, err error) {
	if d.r == nil {
		return "", nil, ErrNilIO
	}
	src, err := WrapReader(d.r, d.compression)
	if err != nil {
		if !whole && errors.Is(err, io.EOF) {
			return "", nil, io.EOF
		}
		return "", nil, &DecodeError{Err: err}
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			name, tag, err = "", nil, &DecodeError{Err: transportError(cerr)}
		}
	}()

	r, err := NewReader(src)
	if err != nil {
		return "", nil, err
	}
	r.WithByteOrder(d.variant.Order()).WithLimit(d.limits.MaxSize)

	s := &decodeState{r: r, v: d.variant, limits: d.limits}
	name, tag = s.readRoot()
	if err := r.Err(); err != nil {
		if !whole && r.Count() == 0 && errors.Is(err, io.EOF) {
			return "", nil, io.EOF
		}
		return "", nil, &DecodeError{Offset: r.Count(), Err: err}
	}
	if whole {
		if err := CheckTrailingZeros(r.r); err != nil {
			return "", nil, &DecodeError{Offset: r.Count(), Err: err}
		}
	}
	return name, tag, nil
}

// Decode decodes a complete document held in data. Bytes after the root tag
// must be zero padding, otherwise the decode fails with ErrTrailingData.
func Decode(data []byte, variant Variant, compression Compression, limits Limits) (string, Tag, error) {
	d := NewDecoder(bytes.NewReader(data)).
		WithVariant(variant).
		WithCompression(compression).
		WithLimits(limits)
	return d.decode(true)
}

type decodeState struct {
	r      *Reader
	v      Variant
	limits Limits
}

func (s *decodeState) readRoot() (string, Tag) {
	var id uint8
	s.r.ReadUint8(&id)
	if s.r.Err() != nil {
		return "", nil
	}
	t := TagType(id)
	switch {
	case t == TagEnd:
		s.r.Fail(fmt.Errorf("%w: %s", ErrInvalidRootType, t))
		return "", nil
	case !t.Valid():
		s.r.Fail(fmt.Errorf("%w: %d at offset %d", ErrUnknownTagType, id, s.r.Count()-1))
		return "", nil
	}
	name := s.v.ReadString(s.r)
	if s.r.Err() != nil {
		return "", nil
	}
	return name, s.readPayload(t, s.limits.depth())
}

// enter accounts for one more level of List/Compound nesting.
func (s *decodeState) enter(depth int) (int, bool) {
	depth--
	if depth <= 0 {
		s.r.Fail(fmt.Errorf("%w: limit %d at offset %d", ErrDepthExceeded, s.limits.depth(), s.r.Count()))
		return 0, false
	}
	return depth, true
}

func (s *decodeState) readPayload(t TagType, depth int) Tag {
	r, v := s.r, s.v
	switch t {
	case TagByte:
		var b int8
		r.ReadInt8(&b)
		return Byte(b)
	case TagShort:
		return Short(v.ReadInt16(r))
	case TagInt:
		return Int(v.ReadInt32(r))
	case TagLong:
		return Long(v.ReadInt64(r))
	case TagFloat:
		var f float32
		r.ReadFloat32(&f)
		return Float(f)
	case TagDouble:
		var f float64
		r.ReadFloat64(&f)
		return Double(f)
	case TagByteArray:
		n := v.ReadLength(r)
		return ByteArray(r.ReadBytes(n))
	case TagString:
		return String(v.ReadString(r))
	case TagIntArray:
		n := v.ReadLength(r)
		buf := r.readFull(int64(n) * 4)
		if r.Err() != nil {
			return nil
		}
		out := make(IntArray, n)
		for i := range out {
			out[i] = int32(r.order.Uint32(buf[i*4:]))
		}
		return out
	case TagLongArray:
		n := v.ReadLength(r)
		buf := r.readFull(int64(n) * 8)
		if r.Err() != nil {
			return nil
		}
		out := make(LongArray, n)
		for i := range out {
			out[i] = int64(r.order.Uint64(buf[i*8:]))
		}
		return out
	case TagList:
		return s.readList(depth)
	case TagCompound:
		return s.readCompound(depth)
	}
	r.Fail(fmt.Errorf("%w: %d at offset %d", ErrUnknownTagType, byte(t), r.Count()))
	return nil
}

func (s *decodeState) readList(depth int) Tag {
	r := s.r
	depth, ok := s.enter(depth)
	if !ok {
		return nil
	}
	var id uint8
	r.ReadUint8(&id)
	elem := TagType(id)
	if r.Err() == nil && !elem.Valid() {
		r.Fail(fmt.Errorf("%w: list element type %d at offset %d", ErrUnknownTagType, id, r.Count()-1))
	}
	n := s.v.ReadLength(r)
	if r.Err() != nil {
		return nil
	}
	if elem == TagEnd && n > 0 {
		r.Fail(fmt.Errorf("%w: list of %d %s elements at offset %d", ErrInvalidFieldType, n, elem, r.Count()))
		return nil
	}
	// Every element takes at least a few bytes, so an impossible count fails
	// here instead of after materialising part of the list.
	if !r.need(int64(n) * minPayload(elem)) {
		return nil
	}

	items := make([]Tag, 0, min(n, maxListPrealloc))
	for range n {
		item := s.readPayload(elem, depth)
		if r.Err() != nil {
			return nil
		}
		items = append(items, item)
	}
	return &List{Elem: elem, Items: items}
}

func (s *decodeState) readCompound(depth int) Tag {
	r := s.r
	depth, ok := s.enter(depth)
	if !ok {
		return nil
	}
	c := NewCompound()
	for {
		var id uint8
		r.ReadUint8(&id)
		if r.Err() != nil {
			return nil
		}
		t := TagType(id)
		if t == TagEnd {
			return c
		}
		if !t.Valid() {
			r.Fail(fmt.Errorf("%w: %d at offset %d", ErrUnknownTagType, id, r.Count()-1))
			return nil
		}
		name := s.v.ReadString(r)
		if r.Err() != nil {
			return nil
		}
		item := s.readPayload(t, depth)
		if r.Err() != nil {
			return nil
		}
		if s.limits.RejectDuplicateKeys && c.Has(name) {
			r.Fail(fmt.Errorf("%w: %q at offset %d", ErrDuplicateKey, name, r.Count()))
			return nil
		}
		c.put(name, item)
	}
}

// minPayload is the fewest bytes any variant spends on one value of type t.
func minPayload(t TagType) int64 {
	switch t {
	case TagEnd:
		return 0
	case TagShort:
		return 2
	case TagFloat:
		return 4
	case TagDouble:
		return 8
	case TagList:
		return 2
	}
	return 1
}
