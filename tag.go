// Package nbt reads and writes Named Binary Tag documents in the Java
// big-endian, Bedrock little-endian and Bedrock network dialects.
package nbt

import (
	"fmt"
	"math"
)

// TagType is the one-byte discriminant that precedes every tag on the wire.
type TagType byte

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var tagNames = [...]string{
	TagEnd:       "TAG_End",
	TagByte:      "TAG_Byte",
	TagShort:     "TAG_Short",
	TagInt:       "TAG_Int",
	TagLong:      "TAG_Long",
	TagFloat:     "TAG_Float",
	TagDouble:    "TAG_Double",
	TagByteArray: "TAG_Byte_Array",
	TagString:    "TAG_String",
	TagList:      "TAG_List",
	TagCompound:  "TAG_Compound",
	TagIntArray:  "TAG_Int_Array",
	TagLongArray: "TAG_Long_Array",
}

// Valid reports whether t is one of the assigned discriminants.
func (t TagType) Valid() bool { return t <= TagLongArray }

func (t TagType) String() string {
	if t.Valid() {
		return tagNames[t]
	}
	return fmt.Sprintf("TAG_Unknown(%d)", byte(t))
}

// Tag is a single NBT value. The set of implementations is closed: End, Byte,
// Short, Int, Long, Float, Double, ByteArray, String, *List, *Compound,
// IntArray and LongArray.
type Tag interface {
	Type() TagType
	tag()
}

type (
	// End terminates a compound on the wire. It carries no value and is never
	// a valid root, compound entry or list element.
	End struct{}

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	String string

	// ByteArray holds the raw bytes of a TAG_Byte_Array. The wire treats them
	// as signed; the bits are carried unchanged.
	ByteArray []byte
	IntArray  []int32
	LongArray []int64
)

func (End) Type() TagType       { return TagEnd }
func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (*List) Type() TagType     { return TagList }
func (*Compound) Type() TagType { return TagCompound }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }

func (End) tag()       {}
func (Byte) tag()      {}
func (Short) tag()     {}
func (Int) tag()       {}
func (Long) tag()      {}
func (Float) tag()     {}
func (Double) tag()    {}
func (ByteArray) tag() {}
func (String) tag()    {}
func (*List) tag()     {}
func (*Compound) tag() {}
func (IntArray) tag()  {}
func (LongArray) tag() {}

// Named pairs a root tag with its name, as stored at the top of a document.
type Named struct {
	Name string
	Tag  Tag
}

// Equal reports whether both the names and the trees are equal.
func (n Named) Equal(o Named) bool {
	return n.Name == o.Name && Equal(n.Tag, o.Tag)
}

// Equal reports whether a and b are structurally equal: same discriminant and
// value at every node. List order matters, compound order does not. Floating
// point values compare by bit pattern, so a NaN equals an identical NaN.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case End:
		return true
	case Byte:
		return x == b.(Byte)
	case Short:
		return x == b.(Short)
	case Int:
		return x == b.(Int)
	case Long:
		return x == b.(Long)
	case Float:
		return math.Float32bits(float32(x)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Double)))
	case String:
		return x == b.(String)
	case ByteArray:
		return sliceEqual(x, b.(ByteArray))
	case IntArray:
		return sliceEqual(x, b.(IntArray))
	case LongArray:
		return sliceEqual(x, b.(LongArray))
	case *List:
		return x.Equal(b.(*List))
	case *Compound:
		return x.Equal(b.(*Compound))
	}
	return false
}

func sliceEqual[S ~[]E, E comparable](a, b S) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
