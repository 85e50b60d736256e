package nbt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagTypeString(t *testing.T) {
	assert.Equal(t, "TAG_End", TagEnd.String())
	assert.Equal(t, "TAG_Long_Array", TagLongArray.String())
	assert.Equal(t, "TAG_Unknown(13)", TagType(13).String())
	assert.True(t, TagLongArray.Valid())
	assert.False(t, TagType(13).Valid())
}

func TestEqual(t *testing.T) {
	nan := math.Float64frombits(0x7FF8000000000002)
	cases := []struct {
		name string
		a, b Tag
		want bool
	}{
		{"SameInt", Int(1), Int(1), true},
		{"NoWidening", Int(1), Long(1), false},
		{"SameNaN", Double(nan), Double(nan), true},
		{"DifferentNaNPayload", Double(nan), Double(math.NaN()), false},
		{"SignedZero", Float(0), Float(float32(math.Copysign(0, -1))), false},
		{"ByteArrays", ByteArray{1, 2}, ByteArray{1, 2}, true},
		{"ByteArrayLength", ByteArray{1, 2}, ByteArray{1}, false},
		{"BothNil", nil, nil, true},
		{"OneNil", Int(0), nil, false},
		{"ListOrder", mustList(t, TagInt, Int(1), Int(2)), mustList(t, TagInt, Int(2), Int(1)), false},
		{"EmptyListElemType", mustList(t, TagInt), mustList(t, TagByte), false},
		{"CompoundOrder",
			compoundOf(t, "a", Int(1), "b", Int(2)),
			compoundOf(t, "b", Int(2), "a", Int(1)),
			true},
		{"CompoundValue",
			compoundOf(t, "a", Int(1)),
			compoundOf(t, "a", Int(2)),
			false},
		{"CompoundKeys",
			compoundOf(t, "a", Int(1)),
			compoundOf(t, "b", Int(1)),
			false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.a, tc.b))
			assert.Equal(t, tc.want, Equal(tc.b, tc.a))
		})
	}
}

func TestNamedEqual(t *testing.T) {
	a := Named{Name: "level", Tag: compoundOf(t, "x", Int(1))}
	b := Named{Name: "level", Tag: compoundOf(t, "x", Int(1))}
	assert.True(t, a.Equal(b))
	b.Name = "other"
	assert.False(t, a.Equal(b))
}

func TestList(t *testing.T) {
	t.Run("UnknownElemType", func(t *testing.T) {
		_, err := NewList(TagType(42))
		assert.ErrorIs(t, err, ErrUnknownTagType)
	})

	t.Run("Mismatch", func(t *testing.T) {
		_, err := NewList(TagInt, Int(1), Float(2))
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("EndItem", func(t *testing.T) {
		_, err := NewList(TagEnd, End{})
		assert.ErrorIs(t, err, ErrInvalidFieldType)
	})

	t.Run("AppendIsAtomic", func(t *testing.T) {
		l := mustList(t, TagString, String("a"))
		err := l.Append(String("b"), Int(3))
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Equal(t, 1, l.Len())
		assert.Equal(t, String("a"), l.At(0))
	})

	t.Run("EncodeRevalidates", func(t *testing.T) {
		l := mustList(t, TagInt, Int(1))
		l.Items = append(l.Items, Float(1))
		_, err := Encode("", l, BigEndian, CompressionNone)
		assert.ErrorIs(t, err, ErrTypeMismatch)

		c := compoundOf(t, "list", mustList(t, TagInt))
		inner, _ := c.GetList("list")
		inner.Items = append(inner.Items, nil)
		_, err = Encode("", c, BigEndian, CompressionNone)
		assert.ErrorIs(t, err, ErrInvalidFieldType)
	})

	t.Run("EndInTypedList", func(t *testing.T) {
		l := &List{Elem: TagInt, Items: []Tag{End{}}}
		err := l.Validate()
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.ErrorIs(t, err, ErrInvalidFieldType)

		_, err = Encode("", l, BigEndian, CompressionNone)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("NilList", func(t *testing.T) {
		var l *List
		assert.Zero(t, l.Len())
		assert.True(t, l.Equal(&List{}))
	})
}

func TestCompound(t *testing.T) {
	t.Run("ZeroValue", func(t *testing.T) {
		var c Compound
		require.NoError(t, c.Add("x", Int(1)))
		assert.True(t, c.Has("x"))
	})

	t.Run("AddRejectsDuplicate", func(t *testing.T) {
		c := compoundOf(t, "x", Int(1))
		err := c.Add("x", Int(2))
		assert.ErrorIs(t, err, ErrDuplicateKey)
		v, _ := c.GetInt("x")
		assert.EqualValues(t, 1, v)
	})

	t.Run("SetKeepsPosition", func(t *testing.T) {
		c := compoundOf(t, "a", Int(1), "b", Int(2), "c", Int(3))
		require.NoError(t, c.Set("a", String("one")))
		require.NoError(t, c.Set("d", Int(4)))
		assert.Equal(t, []string{"a", "b", "c", "d"}, c.Keys())
		s, err := c.GetString("a")
		require.NoError(t, err)
		assert.Equal(t, "one", s)
	})

	t.Run("RejectsEndAndNil", func(t *testing.T) {
		c := NewCompound()
		assert.ErrorIs(t, c.Add("x", End{}), ErrInvalidFieldType)
		assert.ErrorIs(t, c.Set("x", nil), ErrInvalidFieldType)
		assert.Zero(t, c.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		c := compoundOf(t, "a", Int(1), "b", Int(2))
		assert.True(t, c.Delete("a"))
		assert.False(t, c.Delete("a"))
		assert.Equal(t, []string{"b"}, c.Keys())
	})

	t.Run("AllStopsEarly", func(t *testing.T) {
		c := compoundOf(t, "a", Int(1), "b", Int(2), "c", Int(3))
		var seen []string
		for k := range c.All() {
			seen = append(seen, k)
			if k == "b" {
				break
			}
		}
		assert.Equal(t, []string{"a", "b"}, seen)
	})

	t.Run("KeysIsACopy", func(t *testing.T) {
		c := compoundOf(t, "a", Int(1))
		keys := c.Keys()
		keys[0] = "z"
		assert.True(t, c.Has("a"))
	})
}

func TestAccessors(t *testing.T) {
	c := compoundOf(t,
		"b", Byte(-1),
		"s", Short(2),
		"i", Int(3),
		"l", Long(4),
		"f", Float(5.5),
		"d", Double(6.5),
		"str", String("seven"),
		"ba", ByteArray{8},
		"ia", IntArray{9},
		"la", LongArray{10},
		"list", mustList(t, TagEnd),
		"c", NewCompound(),
	)

	b, err := c.GetByte("b")
	require.NoError(t, err)
	assert.EqualValues(t, -1, b)
	sh, _ := c.GetShort("s")
	assert.EqualValues(t, 2, sh)
	i, _ := c.GetInt("i")
	assert.EqualValues(t, 3, i)
	l, _ := c.GetLong("l")
	assert.EqualValues(t, 4, l)
	f, _ := c.GetFloat("f")
	assert.EqualValues(t, 5.5, f)
	d, _ := c.GetDouble("d")
	assert.EqualValues(t, 6.5, d)
	str, _ := c.GetString("str")
	assert.Equal(t, "seven", str)
	ba, _ := c.GetByteArray("ba")
	assert.Equal(t, []byte{8}, ba)
	ia, _ := c.GetIntArray("ia")
	assert.Equal(t, []int32{9}, ia)
	la, _ := c.GetLongArray("la")
	assert.Equal(t, []int64{10}, la)
	list, err := c.GetList("list")
	require.NoError(t, err)
	assert.Zero(t, list.Len())
	child, err := c.GetCompound("c")
	require.NoError(t, err)
	assert.Zero(t, child.Len())

	t.Run("NoWidening", func(t *testing.T) {
		_, err := c.GetLong("i")
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Contains(t, err.Error(), `"i"`)
		_, err = c.GetInt("b")
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := c.GetInt("nope")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		var nilCompound *Compound
		_, err = nilCompound.GetInt("x")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("ListOf", func(t *testing.T) {
		c := compoundOf(t,
			"ints", mustList(t, TagInt, Int(1)),
			"empty", mustList(t, TagEnd),
			"n", Int(1),
		)
		l, err := c.GetListOf("ints", TagInt)
		require.NoError(t, err)
		assert.Equal(t, 1, l.Len())

		_, err = c.GetListOf("ints", TagString)
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Contains(t, err.Error(), `"ints"`)

		l, err = c.GetListOf("empty", TagCompound)
		require.NoError(t, err)
		assert.Zero(t, l.Len())

		_, err = c.GetListOf("n", TagInt)
		assert.ErrorIs(t, err, ErrTypeMismatch)
		_, err = c.GetListOf("nope", TagInt)
		assert.ErrorIs(t, err, ErrKeyNotFound)

		assert.True(t, c.HasOfType("n", TagInt))
		assert.False(t, c.HasOfType("n", TagLong))
		assert.False(t, c.HasOfType("nope", TagInt))
	})

	t.Run("As", func(t *testing.T) {
		v, err := As[Int](Int(3))
		require.NoError(t, err)
		assert.Equal(t, Int(3), v)

		_, err = As[*Compound](Int(3))
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.Contains(t, err.Error(), "TAG_Compound")

		_, err = As[Int](nil)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})
}
