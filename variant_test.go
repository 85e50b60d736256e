package nbt

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZigzag(t *testing.T) {
	cases := []struct {
		in   int64
		want uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2147483647, 4294967294},
		{-2147483648, 4294967295},
		{math.MaxInt64, math.MaxUint64 - 1},
		{math.MinInt64, math.MaxUint64},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, zigzag(tc.in), "zigzag(%d)", tc.in)
		assert.Equal(t, tc.in, unzigzag[int64](tc.want), "unzigzag(%d)", tc.want)
	}

	// An int32 never needs more than 32 bits.
	assert.Equal(t, uint64(math.MaxUint32), zigzag(int32(math.MinInt32)))
	assert.Equal(t, int32(math.MinInt32), unzigzag[int32](math.MaxUint32))
}

func TestVarintLen(t *testing.T) {
	assert.Equal(t, 1, VarintLen(int32(0)))
	assert.Equal(t, 1, VarintLen(int32(-64)))
	assert.Equal(t, 2, VarintLen(int32(64)))
	assert.Equal(t, 5, VarintLen(int32(math.MinInt32)))
	assert.Equal(t, 10, VarintLen(int64(math.MinInt64)))
}

func TestVariantIntegers(t *testing.T) {
	values := []int64{0, 1, -1, 127, -128, 300, math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64}
	for _, v := range allVariants {
		t.Run(v.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			w, _ := NewWriter(&buf)
			w.WithByteOrder(v.Order())
			for _, n := range values {
				v.WriteInt16(w, int16(n))
				v.WriteInt32(w, int32(n))
				v.WriteInt64(w, n)
			}
			require.NoError(t, w.Err())

			r, _ := NewReader(&buf)
			r.WithByteOrder(v.Order())
			for _, n := range values {
				assert.Equal(t, int16(n), v.ReadInt16(r))
				assert.Equal(t, int32(n), v.ReadInt32(r))
				assert.Equal(t, n, v.ReadInt64(r))
			}
			require.NoError(t, r.Err())
		})
	}
}

func TestVariantStrings(t *testing.T) {
	for _, v := range allVariants {
		t.Run(v.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			w, _ := NewWriter(&buf)
			w.WithByteOrder(v.Order())
			v.WriteString(w, "")
			v.WriteString(w, "Steve")
			v.WriteString(w, "日本語")
			require.NoError(t, w.Err())

			r, _ := NewReader(&buf)
			r.WithByteOrder(v.Order())
			assert.Equal(t, "", v.ReadString(r))
			assert.Equal(t, "Steve", v.ReadString(r))
			assert.Equal(t, "日本語", v.ReadString(r))
			require.NoError(t, r.Err())
		})

		t.Run(v.Name()+"/InvalidUTF8", func(t *testing.T) {
			var buf bytes.Buffer
			w, _ := NewWriter(&buf)
			v.WriteString(w, "\xff")
			assert.ErrorIs(t, w.Err(), ErrInvalidString)
			assert.Zero(t, buf.Len())
		})
	}

	t.Run("FixedLengthPrefix", func(t *testing.T) {
		long := strings.Repeat("x", math.MaxUint16+1)
		for _, v := range []Variant{BigEndian, LittleEndian} {
			var buf bytes.Buffer
			w, _ := NewWriter(&buf)
			v.WriteString(w, long[:math.MaxUint16])
			require.NoError(t, w.Err())
			v.WriteString(w, long)
			assert.ErrorIs(t, w.Err(), ErrStringTooLong)
		}

		var buf bytes.Buffer
		w, _ := NewWriter(&buf)
		NetworkLittleEndian.WriteString(w, long)
		assert.NoError(t, w.Err())
	})

	t.Run("NetworkLengthIsUnsigned", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf)
		NetworkLittleEndian.WriteString(w, strings.Repeat("a", 100))
		require.NoError(t, w.Err())
		assert.Equal(t, byte(100), buf.Bytes()[0])
	})
}

func TestVariantLengths(t *testing.T) {
	t.Run("NetworkZigzag", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf)
		NetworkLittleEndian.WriteLength(w, 3)
		assert.Equal(t, []byte{0x06}, buf.Bytes())
	})

	t.Run("NetworkNegative", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader([]byte{0x01}))
		NetworkLittleEndian.ReadLength(r)
		assert.ErrorIs(t, r.Err(), ErrNegativeLength)
	})

	t.Run("FixedTooLarge", func(t *testing.T) {
		if math.MaxInt == math.MaxInt32 {
			t.Skip("int is 32 bits")
		}
		var buf bytes.Buffer
		w, _ := NewWriter(&buf)
		n := math.MaxInt32
		BigEndian.WriteLength(w, n+1)
		assert.ErrorIs(t, w.Err(), ErrSizeExceeded)
	})
}

func TestVariantRegistry(t *testing.T) {
	cases := map[string]Variant{
		"big-endian":           BigEndian,
		"JAVA":                 BigEndian,
		"little-endian":        LittleEndian,
		"bedrock":              LittleEndian,
		"network":              NetworkLittleEndian,
		"little-endian-varint": NetworkLittleEndian,
	}
	for name, want := range cases {
		got, err := ParseVariant(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseVariant("snbt")
	assert.ErrorIs(t, err, ErrUnknownVariant)
	assert.Contains(t, err.Error(), "bedrock")

	names := VariantNames()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "java")
}
