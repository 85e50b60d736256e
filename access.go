package nbt

import "fmt"

// As returns t as the concrete tag type T. It fails with ErrTypeMismatch when
// t holds any other type; numbers are never widened or narrowed.
func As[T Tag](t Tag) (T, error) {
	v, ok := t.(T)
	if !ok {
		return v, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, typeOf(t), typeName[T]())
	}
	return v, nil
}

func typeName[T Tag]() string {
	var zero T
	if any(zero) == nil {
		return "tag"
	}
	return zero.Type().String()
}

// Lookup returns the entry name of c as the concrete tag type T.
func Lookup[T Tag](c *Compound, name string) (T, error) {
	t, ok := c.Get(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	v, err := As[T](t)
	if err != nil {
		return v, fmt.Errorf("%q: %w", name, err)
	}
	return v, nil
}

func (c *Compound) GetByte(name string) (int8, error) {
	v, err := Lookup[Byte](c, name)
	return int8(v), err
}

func (c *Compound) GetShort(name string) (int16, error) {
	v, err := Lookup[Short](c, name)
	return int16(v), err
}

func (c *Compound) GetInt(name string) (int32, error) {
	v, err := Lookup[Int](c, name)
	return int32(v), err
}

func (c *Compound) GetLong(name string) (int64, error) {
	v, err := Lookup[Long](c, name)
	return int64(v), err
}

func (c *Compound) GetFloat(name string) (float32, error) {
	v, err := Lookup[Float](c, name)
	return float32(v), err
}

func (c *Compound) GetDouble(name string) (float64, error) {
	v, err := Lookup[Double](c, name)
	return float64(v), err
}

func (c *Compound) GetString(name string) (string, error) {
	v, err := Lookup[String](c, name)
	return string(v), err
}

func (c *Compound) GetByteArray(name string) ([]byte, error) {
	v, err := Lookup[ByteArray](c, name)
	return []byte(v), err
}

func (c *Compound) GetIntArray(name string) ([]int32, error) {
	v, err := Lookup[IntArray](c, name)
	return []int32(v), err
}

func (c *Compound) GetLongArray(name string) ([]int64, error) {
	v, err := Lookup[LongArray](c, name)
	return []int64(v), err
}

func (c *Compound) GetList(name string) (*List, error) {
	return Lookup[*List](c, name)
}

func (c *Compound) GetCompound(name string) (*Compound, error) {
	return Lookup[*Compound](c, name)
}

// GetListOf returns the list stored under name, failing with ErrTypeMismatch
// unless it declares elem as its element type. An empty list declared as
// TAG_End matches any elem, since writers use that for lists with no items.
func (c *Compound) GetListOf(name string, elem TagType) (*List, error) {
	l, err := c.GetList(name)
	if err != nil {
		return nil, err
	}
	if l.Elem != elem && !(l.Elem == TagEnd && l.Len() == 0) {
		return nil, fmt.Errorf("%q: %w: list of %s, want %s", name, ErrTypeMismatch, l.Elem, elem)
	}
	return l, nil
}

// HasOfType reports whether name is present and holds a tag of type t.
func (c *Compound) HasOfType(name string, t TagType) bool {
	v, ok := c.Get(name)
	return ok && v.Type() == t
}
