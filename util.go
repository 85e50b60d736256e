package nbt

import (
	"fmt"
	"io"
)

// BUFFER_SIZE is the bufio size used for readers and writers that are not
// already buffered.
const BUFFER_SIZE = 4096

// MAX_PADDING defines the maximum number of trailing bytes to check.
// Region files pad chunks to 4KB sectors; anything longer is not padding.
const MAX_PADDING = 4096

// CheckTrailingZeros verifies that any bytes left in r after a document are
// zero padding. Non-zero bytes mean the buffer held more than one document or
// the document was misparsed.
func CheckTrailingZeros(r io.Reader) error {
	lr := &io.LimitedReader{R: r, N: MAX_PADDING + 1}
	trailing, err := io.ReadAll(lr)
	if err != nil {
		return transportError(err)
	}
	if len(trailing) > MAX_PADDING {
		return fmt.Errorf("%w: exceeds maximum expected padding of %d bytes", ErrTrailingData, MAX_PADDING)
	}
	for i, b := range trailing {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}
