package value

import "github.com/sandrolain/goxq/pkg/types"

// Builder accumulates items into a value. It is append-only; Value hands the collected items
// over to the result, after which the builder starts again from empty.
type Builder struct {
	items    []Item
	typ      types.ItemType
	homo     bool
	allNodes bool
}

// NewBuilder returns a builder with room for capHint items.
func NewBuilder(capHint int) *Builder {
	if capHint < 0 {
		capHint = 0
	}
	return &Builder{items: make([]Item, 0, capHint)}
}

// Add appends an item.
func (b *Builder) Add(it Item) *Builder {
	b.track(it)
	b.items = append(b.items, it)
	return b
}

// AddValue appends all items of v.
func (b *Builder) AddValue(v Value) *Builder {
	n := int(v.Size())
	if n == 0 {
		return b
	}
	start := len(b.items)
	b.items = append(b.items, make([]Item, n)...)
	v.WriteTo(b.items, start)
	for _, it := range b.items[start:] {
		b.track(it)
	}
	return b
}

// Size returns the number of items collected so far.
func (b *Builder) Size() int { return len(b.items) }

func (b *Builder) track(it Item) {
	t := it.Type()
	if len(b.items) == 0 {
		b.typ, b.homo, b.allNodes = t, true, t.IsNode()
		return
	}
	if t != b.typ {
		b.homo = false
	}
	b.allNodes = b.allNodes && t.IsNode()
}

// Value returns the collected items as the smallest representation: Empty, a single item, or
// an ItemSeq.
func (b *Builder) Value() Value {
	items := b.items
	typ, homo, allNodes := b.typ, b.homo, b.allNodes
	b.items = nil
	switch len(items) {
	case 0:
		return Empty
	case 1:
		return items[0]
	}
	if !homo {
		typ = types.TypeItem
		if allNodes {
			typ = types.TypeNode
		}
	}
	return &ItemSeq{items: items, typ: typ, homo: homo}
}
