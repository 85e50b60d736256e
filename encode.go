package nbt

import (
	"bytes"
	"fmt"
	"io"
)

// Encoder writes NBT documents to a byte stream.
type Encoder struct {
	w           io.Writer
	variant     Variant
	compression Compression
	limits      Limits
}

// NewEncoder returns an Encoder writing big-endian, uncompressed NBT to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, variant: BigEndian, compression: CompressionNone, limits: DefaultLimits()}
}

// WithVariant selects the wire dialect. A nil variant is ignored.
func (e *Encoder) WithVariant(v Variant) *Encoder {
	if v != nil {
		e.variant = v
	}
	return e
}

// WithCompression selects how the encoded bytes are compressed.
func (e *Encoder) WithCompression(c Compression) *Encoder {
	e.compression = c
	return e
}

// WithLimits replaces the limits; only MaxDepth applies when encoding.
func (e *Encoder) WithLimits(l Limits) *Encoder {
	e.limits = l
	return e
}

// Encode writes tag as a root named name. The tree is only read. If encoding
// fails part of the document may already have reached the underlying writer;
// discarding it is up to the caller.
func (e *Encoder) Encode(name string, tag Tag) (err error) {
	if e.w == nil {
		return ErrNilIO
	}
	if tag == nil || tag.Type() == TagEnd {
		return fmt.Errorf("%w: %s", ErrInvalidRootType, typeOf(tag))
	}
	dst, err := WrapWriter(e.w, e.compression)
	if err != nil {
		return err
	}
	defer func() {
		// Closing flushes the compressor; it must happen on every path.
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = transportError(cerr)
		}
	}()

	w, err := NewWriter(unwrapNop(dst))
	if err != nil {
		return err
	}
	w.WithByteOrder(e.variant.Order())

	s := &encodeState{w: w, v: e.variant, limits: e.limits}
	w.WriteUint8(uint8(tag.Type()))
	s.v.WriteString(w, name)
	s.writePayload(tag, e.limits.depth())
	_, err = w.Result()
	return err
}

// Encode encodes tag as a root named name and returns the bytes. Nesting is
// capped at DefaultMaxDepth; use an Encoder with WithLimits for deeper trees.
func Encode(name string, tag Tag, variant Variant, compression Compression) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	err := NewEncoder(buf).
		WithVariant(variant).
		WithCompression(compression).
		Encode(name, tag)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

type encodeState struct {
	w      *Writer
	v      Variant
	limits Limits
}

func (s *encodeState) enter(depth int) (int, bool) {
	depth--
	if depth <= 0 {
		s.w.Fail(fmt.Errorf("%w: limit %d", ErrDepthExceeded, s.limits.depth()))
		return 0, false
	}
	return depth, true
}

func (s *encodeState) writePayload(t Tag, depth int) {
	w, v := s.w, s.v
	switch x := t.(type) {
	case Byte:
		w.WriteInt8(int8(x))
	case Short:
		v.WriteInt16(w, int16(x))
	case Int:
		v.WriteInt32(w, int32(x))
	case Long:
		v.WriteInt64(w, int64(x))
	case Float:
		w.WriteFloat32(float32(x))
	case Double:
		w.WriteFloat64(float64(x))
	case ByteArray:
		v.WriteLength(w, len(x))
		_, _ = w.Write(x)
	case String:
		v.WriteString(w, string(x))
	case IntArray:
		v.WriteLength(w, len(x))
		for _, n := range x {
			w.WriteInt32(n)
		}
	case LongArray:
		v.WriteLength(w, len(x))
		for _, n := range x {
			w.WriteInt64(n)
		}
	case *List:
		s.writeList(x, depth)
	case *Compound:
		s.writeCompound(x, depth)
	default:
		w.Fail(fmt.Errorf("%w: %s", ErrInvalidFieldType, typeOf(t)))
	}
}

func (s *encodeState) writeList(l *List, depth int) {
	w := s.w
	depth, ok := s.enter(depth)
	if !ok {
		return
	}
	elem := elemOf(l)
	if !elem.Valid() {
		w.Fail(fmt.Errorf("%w: list element type %d", ErrUnknownTagType, byte(elem)))
		return
	}
	if l != nil {
		if err := l.Validate(); err != nil {
			w.Fail(err)
			return
		}
	}
	w.WriteUint8(uint8(elem))
	s.v.WriteLength(w, l.Len())
	for i := range l.Len() {
		if w.Err() != nil {
			return
		}
		s.writePayload(l.Items[i], depth)
	}
}

func (s *encodeState) writeCompound(c *Compound, depth int) {
	w := s.w
	depth, ok := s.enter(depth)
	if !ok {
		return
	}
	for name, item := range c.All() {
		if w.Err() != nil {
			return
		}
		if err := checkField(name, item); err != nil {
			w.Fail(err)
			return
		}
		w.WriteUint8(uint8(item.Type()))
		s.v.WriteString(w, name)
		s.writePayload(item, depth)
	}
	w.WriteUint8(uint8(TagEnd))
}
