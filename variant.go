package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/puzpuzpuz/xsync/v4"
)

// Variant describes how one NBT dialect lays integers, counts and strings out
// on the wire. The decoder and encoder never branch on the dialect; they only
// call these methods.
//
// Implementations hold no mutable state and may be shared between goroutines.
// They are always handed a Reader or Writer whose byte order is Order().
type Variant interface {
	// Name identifies the variant, e.g. in the registry.
	Name() string
	// Order is used for TAG_Short in fixed dialects, TAG_Float, TAG_Double
	// and the elements of every array type.
	Order() binary.ByteOrder

	ReadInt16(r *Reader) int16
	ReadInt32(r *Reader) int32
	ReadInt64(r *Reader) int64
	WriteInt16(w *Writer, v int16)
	WriteInt32(w *Writer, v int32)
	WriteInt64(w *Writer, v int64)

	// ReadLength reads the element count of a list or array.
	ReadLength(r *Reader) int
	WriteLength(w *Writer, n int)

	// ReadString reads a length-prefixed UTF-8 string.
	ReadString(r *Reader) string
	WriteString(w *Writer, s string)
}

var (
	// BigEndian is the classic dialect of Java Edition files and protocol:
	// fixed-width big-endian integers, int32 counts and uint16 string lengths.
	BigEndian Variant = fixedVariant{name: "big-endian", order: binary.BigEndian}

	// LittleEndian is the dialect of Bedrock Edition files: the classic
	// layout in little-endian byte order.
	LittleEndian Variant = fixedVariant{name: "little-endian", order: binary.LittleEndian}

	// NetworkLittleEndian is the compact dialect of the Bedrock network
	// protocol. TAG_Int, TAG_Long and list/array counts are zig-zag varints,
	// string lengths are unsigned varints, and everything else is fixed-width
	// little-endian.
	NetworkLittleEndian Variant = varintVariant{}
)

// --- Fixed-width dialects ---

type fixedVariant struct {
	name  string
	order binary.ByteOrder
}

func (v fixedVariant) Name() string            { return v.name }
func (v fixedVariant) Order() binary.ByteOrder { return v.order }

func (fixedVariant) ReadInt16(r *Reader) int16 {
	var n int16
	r.ReadInt16(&n)
	return n
}

func (fixedVariant) ReadInt32(r *Reader) int32 {
	var n int32
	r.ReadInt32(&n)
	return n
}

func (fixedVariant) ReadInt64(r *Reader) int64 {
	var n int64
	r.ReadInt64(&n)
	return n
}

func (fixedVariant) WriteInt16(w *Writer, n int16) { w.WriteInt16(n) }
func (fixedVariant) WriteInt32(w *Writer, n int32) { w.WriteInt32(n) }
func (fixedVariant) WriteInt64(w *Writer, n int64) { w.WriteInt64(n) }

func (fixedVariant) ReadLength(r *Reader) int {
	var n int32
	r.ReadInt32(&n)
	return checkLength(r, int64(n))
}

func (fixedVariant) WriteLength(w *Writer, n int) {
	if n > math.MaxInt32 {
		w.Fail(fmt.Errorf("%w: %d elements do not fit an int32 count", ErrSizeExceeded, n))
		return
	}
	w.WriteInt32(int32(n))
}

func (fixedVariant) ReadString(r *Reader) string {
	var n uint16
	r.ReadUint16(&n)
	return readUTF8(r, int(n))
}

func (fixedVariant) WriteString(w *Writer, s string) {
	if len(s) > math.MaxUint16 {
		w.Fail(fmt.Errorf("%w: %d bytes, at most %d", ErrStringTooLong, len(s), math.MaxUint16))
		return
	}
	if !checkUTF8(w, s) {
		return
	}
	w.WriteUint16(uint16(len(s)))
	_, _ = w.WriteString(s)
}

// --- Varint dialect ---

type varintVariant struct{}

func (varintVariant) Name() string            { return "network" }
func (varintVariant) Order() binary.ByteOrder { return binary.LittleEndian }

func (varintVariant) ReadInt16(r *Reader) int16 {
	var n int16
	r.ReadInt16(&n)
	return n
}

func (varintVariant) ReadInt32(r *Reader) int32 {
	var u uint64
	r.ReadUvarint(&u, 32)
	return unzigzag[int32](u)
}

func (varintVariant) ReadInt64(r *Reader) int64 {
	var u uint64
	r.ReadUvarint(&u, 64)
	return unzigzag[int64](u)
}

func (varintVariant) WriteInt16(w *Writer, n int16) { w.WriteInt16(n) }
func (varintVariant) WriteInt32(w *Writer, n int32) { w.WriteUvarint(zigzag(n)) }
func (varintVariant) WriteInt64(w *Writer, n int64) { w.WriteUvarint(zigzag(n)) }

func (v varintVariant) ReadLength(r *Reader) int {
	return checkLength(r, int64(v.ReadInt32(r)))
}

func (v varintVariant) WriteLength(w *Writer, n int) {
	if n > math.MaxInt32 {
		w.Fail(fmt.Errorf("%w: %d elements do not fit an int32 count", ErrSizeExceeded, n))
		return
	}
	v.WriteInt32(w, int32(n))
}

func (varintVariant) ReadString(r *Reader) string {
	var n uint64
	r.ReadUvarint(&n, 32)
	return readUTF8(r, checkLength(r, int64(n)))
}

func (varintVariant) WriteString(w *Writer, s string) {
	if len(s) > math.MaxInt32 {
		w.Fail(fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s)))
		return
	}
	if !checkUTF8(w, s) {
		return
	}
	w.WriteUvarint(uint64(len(s)))
	_, _ = w.WriteString(s)
}

// --- Shared helpers ---

func checkLength(r *Reader, n int64) int {
	if r.Err() != nil {
		return 0
	}
	switch {
	case n < 0:
		r.Fail(fmt.Errorf("%w: %d at offset %d", ErrNegativeLength, n, r.Count()))
		return 0
	case n > math.MaxInt32:
		r.Fail(fmt.Errorf("%w: length %d at offset %d", ErrSizeExceeded, n, r.Count()))
		return 0
	}
	return int(n)
}

func readUTF8(r *Reader, n int) string {
	buf := r.ReadBytes(n)
	if r.Err() != nil {
		return ""
	}
	if !utf8.Valid(buf) {
		r.Fail(fmt.Errorf("%w: %d bytes at offset %d", ErrInvalidString, n, r.Count()-int64(n)))
		return ""
	}
	return string(buf)
}

func checkUTF8(w *Writer, s string) bool {
	if !utf8.ValidString(s) {
		w.Fail(fmt.Errorf("%w: %q", ErrInvalidString, s))
		return false
	}
	return true
}

// --- Registry ---

// variants maps lower-case names and aliases to dialects for tools that
// select one by name.
var variants = xsync.NewMap[string, Variant]()

func init() {
	RegisterVariant(BigEndian, "java")
	RegisterVariant(LittleEndian, "bedrock")
	RegisterVariant(NetworkLittleEndian, "little-endian-varint")
}

// RegisterVariant makes v available to ParseVariant under its Name and any
// aliases. A later registration under the same name replaces the earlier one.
func RegisterVariant(v Variant, aliases ...string) {
	variants.Store(strings.ToLower(v.Name()), v)
	for _, alias := range aliases {
		variants.Store(strings.ToLower(alias), v)
	}
}

// ParseVariant returns the variant registered under name.
func ParseVariant(name string) (Variant, error) {
	if v, ok := variants.Load(strings.ToLower(name)); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownVariant, name, strings.Join(VariantNames(), ", "))
}

// VariantNames lists every registered name and alias in sorted order.
func VariantNames() []string {
	var names []string
	variants.Range(func(name string, _ Variant) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}
