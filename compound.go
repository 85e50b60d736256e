package nbt

import (
	"fmt"
	"iter"
	"slices"
)

// Compound is a TAG_Compound: a mapping from unique names to tags that
// remembers insertion order, so a decoded document is written back in the
// order it was read.
//
// The zero value is an empty compound ready to use.
type Compound struct {
	keys   []string
	values map[string]Tag
}

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{values: make(map[string]Tag)}
}

// Len returns the number of entries.
func (c *Compound) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the names in insertion order.
func (c *Compound) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// All iterates over the entries in insertion order.
func (c *Compound) All() iter.Seq2[string, Tag] {
	return func(yield func(string, Tag) bool) {
		if c == nil {
			return
		}
		for _, k := range c.keys {
			if !yield(k, c.values[k]) {
				return
			}
		}
	}
}

// Get returns the tag stored under name.
func (c *Compound) Get(name string) (Tag, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.values[name]
	return t, ok
}

// Has reports whether name is present.
func (c *Compound) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Add inserts a new entry. Inserting a name that is already present is an
// error; use Set to replace a value on purpose.
func (c *Compound) Add(name string, t Tag) error {
	if err := checkField(name, t); err != nil {
		return err
	}
	if c.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, name)
	}
	c.insert(name, t)
	return nil
}

// Set stores t under name, replacing any existing value in place. A new name
// is appended at the end.
func (c *Compound) Set(name string, t Tag) error {
	if err := checkField(name, t); err != nil {
		return err
	}
	c.put(name, t)
	return nil
}

// Delete removes name and reports whether it was present.
func (c *Compound) Delete(name string) bool {
	if !c.Has(name) {
		return false
	}
	delete(c.values, name)
	c.keys = slices.DeleteFunc(c.keys, func(k string) bool { return k == name })
	return true
}

// put replaces the value of an existing name in place or appends a new entry.
func (c *Compound) put(name string, t Tag) {
	if c.Has(name) {
		c.values[name] = t
		return
	}
	c.insert(name, t)
}

func (c *Compound) insert(name string, t Tag) {
	if c.values == nil {
		c.values = make(map[string]Tag)
	}
	c.keys = append(c.keys, name)
	c.values[name] = t
}

func checkField(name string, t Tag) error {
	if t == nil || t.Type() == TagEnd {
		return fmt.Errorf("%w: %q is %s", ErrInvalidFieldType, name, typeOf(t))
	}
	return nil
}

// Equal reports whether both compounds hold the same names with equal
// values, regardless of insertion order.
func (c *Compound) Equal(o *Compound) bool {
	if c.Len() != o.Len() {
		return false
	}
	for k, v := range c.All() {
		w, ok := o.Get(k)
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}
