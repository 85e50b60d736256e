package nbt

import "fmt"

// List is a TAG_List: an ordered, homogeneous sequence of unnamed tags.
//
// Elem is fixed when the list is built or decoded and every item must carry
// that exact type. An empty list conventionally declares TagEnd but may
// declare any type. The fields are exported so callers can edit a decoded
// tree in place; the encoder re-validates every list before writing it.
type List struct {
	Elem  TagType
	Items []Tag
}

// NewList creates a list of the given element type holding items.
func NewList(elem TagType, items ...Tag) (*List, error) {
	if !elem.Valid() {
		return nil, fmt.Errorf("%w: list element type %d", ErrUnknownTagType, byte(elem))
	}
	l := &List{Elem: elem, Items: make([]Tag, 0, len(items))}
	if err := l.Append(items...); err != nil {
		return nil, err
	}
	return l, nil
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// At returns the i-th item.
func (l *List) At(i int) Tag { return l.Items[i] }

// Append adds items to the end of the list. Nothing is appended if any item
// is nil, TAG_End or of a type other than Elem.
func (l *List) Append(items ...Tag) error {
	for i, item := range items {
		if err := l.check(len(l.Items)+i, item); err != nil {
			return err
		}
	}
	l.Items = append(l.Items, items...)
	return nil
}

// Validate checks every item against Elem.
func (l *List) Validate() error {
	for i, item := range l.Items {
		if err := l.check(i, item); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) check(i int, item Tag) error {
	if item == nil || item.Type() == TagEnd {
		if item != nil && l.Elem != TagEnd {
			return fmt.Errorf("%w: %w: list of %s holds %s at index %d", ErrTypeMismatch, ErrInvalidFieldType, l.Elem, item.Type(), i)
		}
		return fmt.Errorf("%w: list item %d is %s", ErrInvalidFieldType, i, typeOf(item))
	}
	if item.Type() != l.Elem {
		return fmt.Errorf("%w: list of %s holds %s at index %d", ErrTypeMismatch, l.Elem, item.Type(), i)
	}
	return nil
}

// Equal reports whether both lists declare the same element type and hold
// equal items in the same order.
func (l *List) Equal(o *List) bool {
	if l == nil || o == nil {
		return l.Len() == 0 && o.Len() == 0 && elemOf(l) == elemOf(o)
	}
	if l.Elem != o.Elem || len(l.Items) != len(o.Items) {
		return false
	}
	for i := range l.Items {
		if !Equal(l.Items[i], o.Items[i]) {
			return false
		}
	}
	return true
}

func elemOf(l *List) TagType {
	if l == nil {
		return TagEnd
	}
	return l.Elem
}

func typeOf(t Tag) string {
	if t == nil {
		return "nil"
	}
	return t.Type().String()
}
