package nbt

// DefaultMaxDepth is the nesting ceiling used when Limits.MaxDepth is zero.
const DefaultMaxDepth = 512

// Limits bounds the resources a single decode may use. The format has no
// total-length header, so these are the only protection against hostile or
// corrupted input.
type Limits struct {
	// MaxDepth caps how deeply lists and compounds may nest, counting the
	// root container as one level. Zero selects DefaultMaxDepth.
	MaxDepth int
	// MaxSize caps the total number of (decompressed) bytes consumed.
	// Zero means unlimited.
	MaxSize int64
	// RejectDuplicateKeys fails a decode with ErrDuplicateKey when a compound
	// repeats a name. By default the last occurrence wins.
	RejectDuplicateKeys bool
}

// DefaultLimits returns the limits used when none are given.
func DefaultLimits() Limits {
	return Limits{MaxDepth: DefaultMaxDepth}
}

func (l Limits) depth() int {
	if l.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return l.MaxDepth
}
