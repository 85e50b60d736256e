package nbt

import "golang.org/x/exp/constraints"

// zigzag maps signed integers onto unsigned ones so that values of small
// magnitude, negative or not, encode to few varint bytes. A value of an
// N-bit type always maps into N bits.
func zigzag[T constraints.Signed](v T) uint64 {
	x := int64(v)
	return uint64(x<<1) ^ uint64(x>>63)
}

// unzigzag reverses zigzag.
func unzigzag[T constraints.Signed](u uint64) T {
	return T(int64(u>>1) ^ -int64(u&1))
}

// VarintLen returns the number of bytes v occupies as a zig-zag varint.
func VarintLen[T constraints.Signed](v T) int {
	u := zigzag(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}
