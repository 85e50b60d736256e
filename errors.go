package nbt

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("nbt: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrUnknownTagType indicates a discriminant byte outside TAG_End..TAG_Long_Array.
	ErrUnknownTagType = errors.New("nbt: unknown tag type")

	// ErrUnexpectedEnd indicates the byte source ended before the tag tree was complete.
	ErrUnexpectedEnd = errors.New("nbt: unexpected end of data")

	// ErrDepthExceeded indicates that lists and compounds are nested deeper than Limits.MaxDepth.
	ErrDepthExceeded = errors.New("nbt: maximum nesting depth exceeded")

	// ErrSizeExceeded indicates that decoding would consume more than Limits.MaxSize bytes.
	ErrSizeExceeded = errors.New("nbt: maximum size exceeded")

	// ErrTypeMismatch indicates a tag whose type disagrees with the declared or requested one.
	ErrTypeMismatch = errors.New("nbt: type mismatch")

	// ErrInvalidRootType indicates TAG_End used as the root of a document.
	ErrInvalidRootType = errors.New("nbt: invalid root tag type")

	// ErrInvalidFieldType indicates TAG_End (or a nil tag) used where a value is required.
	ErrInvalidFieldType = errors.New("nbt: invalid field tag type")

	// ErrInvalidString indicates string bytes that are not valid UTF-8.
	ErrInvalidString = errors.New("nbt: invalid string encoding")

	// ErrDuplicateKey indicates a second entry with the same name in one compound.
	ErrDuplicateKey = errors.New("nbt: duplicate compound key")

	// ErrKeyNotFound is returned by compound accessors when the name is absent.
	ErrKeyNotFound = errors.New("nbt: key not found")

	// ErrNegativeLength indicates a list, array or string length below zero.
	ErrNegativeLength = errors.New("nbt: negative length")

	// ErrStringTooLong indicates a string that does not fit the variant's length prefix.
	ErrStringTooLong = errors.New("nbt: string too long")

	// ErrVarintOverflow indicates a variable-length integer wider than its declared width.
	ErrVarintOverflow = errors.New("nbt: varint overflows")

	// ErrTrailingData is returned by Decode when non-zero bytes follow the root tag.
	ErrTrailingData = errors.New("nbt: non-zero trailing data found after decoding")

	// ErrTransport marks failures of the underlying byte source/sink or compression stream,
	// as opposed to malformed NBT.
	ErrTransport = errors.New("nbt: transport error")

	// ErrUnknownVariant is returned by ParseVariant for unregistered names.
	ErrUnknownVariant = errors.New("nbt: unknown variant")

	// ErrUnknownCompression is returned for compression names or values that are not supported.
	ErrUnknownCompression = errors.New("nbt: unknown compression")
)

// DecodeError records where in the byte stream decoding failed.
// It unwraps to one of the sentinel errors above.
type DecodeError struct {
	Offset int64 // bytes consumed when the failure was detected
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (at offset %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// transportError tags an I/O failure so callers can tell it apart from format corruption.
func transportError(err error) error {
	if err == nil || errors.Is(err, ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
