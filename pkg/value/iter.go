package value

import "github.com/sandrolain/goxq/pkg/types"

// Iter is a forward-only, single-pass cursor over items. Next returns nil without an error when
// the sequence is exhausted.
type Iter interface {
	Next() (Item, error)
}

// IterFunc adapts a function to Iter.
type IterFunc func() (Item, error)

// Next calls f.
func (f IterFunc) Next() (Item, error) { return f() }

type valueIter struct {
	v   Value
	pos int64
}

func (it *valueIter) Next() (Item, error) {
	if it.pos >= it.v.Size() {
		return nil, nil
	}
	item := it.v.ItemAt(it.pos)
	it.pos++
	return item, nil
}

// IterOf returns an iterator over the items of v.
func IterOf(v Value) Iter {
	return &valueIter{v: v}
}

// EmptyIter returns an exhausted iterator.
func EmptyIter() Iter {
	return IterFunc(func() (Item, error) { return nil, nil })
}

// Collect drains it into a value. An untouched iterator returned by IterOf yields its value
// unchanged, so compact representations survive.
func Collect(it Iter) (Value, error) {
	if vi, ok := it.(*valueIter); ok && vi.pos == 0 {
		vi.pos = vi.v.Size()
		return vi.v, nil
	}
	b := NewBuilder(0)
	for {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}
		if item == nil {
			return b.Value(), nil
		}
		b.Add(item)
	}
}

// Single drains it and returns its only item, or nil for an empty iterator. More than one item
// is a type error.
func Single(it Iter) (Item, error) {
	first, err := it.Next()
	if err != nil || first == nil {
		return nil, err
	}
	second, err := it.Next()
	if err != nil {
		return nil, err
	}
	if second != nil {
		return nil, types.NewError(types.ErrType, "sequence of more than one item is not allowed", -1)
	}
	return first, nil
}
