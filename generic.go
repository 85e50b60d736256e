package nbt

import (
	"fmt"
)

// Marshal encodes v as a root named name.
func Marshal[T Marshaler](name string, v T, variant Variant, compression Compression) ([]byte, error) {
	t, err := v.MarshalNBT()
	if err != nil {
		return nil, err
	}
	return Encode(name, t, variant, compression)
}

// Unmarshal decodes a complete document from data into v and returns the
// root name.
func Unmarshal[T Unmarshaler](data []byte, v T, variant Variant, compression Compression, limits Limits) (string, error) {
	name, t, err := Decode(data, variant, compression, limits)
	if err != nil {
		return "", err
	}
	if err := v.UnmarshalNBT(t); err != nil {
		return name, fmt.Errorf("unmarshal root %q: %w", name, err)
	}
	return name, nil
}

// UnmarshalAs is Unmarshal for types whose pointer implements Unmarshaler;
// it allocates the value itself.
func UnmarshalAs[T any, PT interface {
	*T
	Unmarshaler
}](data []byte, variant Variant, compression Compression, limits Limits) (T, string, error) {
	var v T
	name, err := Unmarshal(data, PT(&v), variant, compression, limits)
	return v, name, err
}

// EncodeValue writes v through e as a root named name.
func EncodeValue[T Marshaler](e *Encoder, name string, v T) error {
	t, err := v.MarshalNBT()
	if err != nil {
		return err
	}
	return e.Encode(name, t)
}

// DecodeValue reads the next document from d into v and returns its root
// name. It returns io.EOF unchanged when the stream ends between documents.
func DecodeValue[T Unmarshaler](d *Decoder, v T) (string, error) {
	name, t, err := d.Decode()
	if err != nil {
		return "", err
	}
	if err := v.UnmarshalNBT(t); err != nil {
		return name, fmt.Errorf("unmarshal root %q: %w", name, err)
	}
	return name, nil
}
