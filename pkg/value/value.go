// Package value implements the item/value/sequence data model of the query engine.
//
// A [Value] is an immutable sequence of zero or more items with a known size. The set of
// representations is closed:
//   - [Empty], the canonical empty sequence
//   - a single [Item] (every item is a value of size 1)
//   - [*ItemSeq], a general materialized sequence
//   - [*SingletonSeq], a compact sequence of repetitions of a shorter base value
//
// Values are built through [Builder] (general sequences) and [Replicate] (repeated sequences);
// no other construction path exists, so the normalization rules hold for every value in flight.
// Values never hold mutable references into storage and may be shared freely across goroutines.
package value

import (
	"fmt"

	"github.com/sandrolain/goxq/pkg/types"
)

// Value is a sequence of items.
type Value interface {
	// Size returns the number of items.
	Size() int64
	// ItemAt returns the item at the 0-based position pos. It panics if pos is out of range;
	// callers must respect Size.
	ItemAt(pos int64) Item
	// WriteTo copies items into buf starting at offset and returns the number of items written.
	WriteTo(buf []Item, offset int) int
	// Homogeneous reports whether all items share the same runtime type.
	Homogeneous() bool
	// Materialize resolves node references, failing if a reference is stale.
	Materialize() error
	// AtomValue returns the atomized sequence.
	AtomValue() (Value, error)
	// AtomSize returns the size of the atomized sequence.
	AtomSize() int64
	// EBV returns the effective boolean value.
	EBV() (bool, error)
	// Insert returns a value with it inserted before position pos (0 <= pos <= Size).
	Insert(pos int64, it Item) Value
	// Remove returns a value without the item at pos. An out of range pos returns the receiver.
	Remove(pos int64) Value
	// Reverse returns the items in reverse order.
	Reverse() Value
	// Type returns the declared item type.
	Type() types.ItemType
	// SeqType returns the static sequence type.
	SeqType() types.SeqType
	String() string

	value()
}

type emptySeq struct{}

// Empty is the canonical empty sequence.
var Empty Value = emptySeq{}

func (emptySeq) Size() int64 { return 0 }

func (emptySeq) ItemAt(pos int64) Item {
	panic(fmt.Sprintf("value: index %d out of range [0:0]", pos))
}

func (emptySeq) WriteTo([]Item, int) int       { return 0 }
func (emptySeq) Homogeneous() bool             { return true }
func (emptySeq) Materialize() error            { return nil }
func (emptySeq) AtomValue() (Value, error)     { return Empty, nil }
func (emptySeq) AtomSize() int64               { return 0 }
func (emptySeq) EBV() (bool, error)            { return false, nil }
func (emptySeq) Insert(_ int64, it Item) Value { return it }
func (e emptySeq) Remove(int64) Value          { return e }
func (e emptySeq) Reverse() Value              { return e }
func (emptySeq) Type() types.ItemType          { return types.TypeItem }
func (emptySeq) SeqType() types.SeqType        { return types.SeqEmpty }
func (emptySeq) String() string                { return "()" }
func (emptySeq) value()                        {}

// IsEmpty reports whether v contains no items.
func IsEmpty(v Value) bool {
	return v == nil || v.Size() == 0
}

// copyInsert builds a general sequence with it inserted before pos.
func copyInsert(v Value, pos int64, it Item) Value {
	n := v.Size()
	if pos < 0 {
		pos = 0
	}
	if pos > n {
		pos = n
	}
	b := NewBuilder(int(n + 1))
	for i := int64(0); i < pos; i++ {
		b.Add(v.ItemAt(i))
	}
	b.Add(it)
	for i := pos; i < n; i++ {
		b.Add(v.ItemAt(i))
	}
	return b.Value()
}

// copyRemove builds a general sequence without the item at pos.
func copyRemove(v Value, pos int64) Value {
	n := v.Size()
	if pos < 0 || pos >= n {
		return v
	}
	b := NewBuilder(int(n - 1))
	for i := int64(0); i < n; i++ {
		if i != pos {
			b.Add(v.ItemAt(i))
		}
	}
	return b.Value()
}

// seqEBV applies the effective boolean value rule to a sequence of two or more items.
func seqEBV(v Value) (bool, error) {
	first := v.ItemAt(0)
	if first.Type().IsNode() {
		return true, nil
	}
	return false, types.Errorf(types.ErrEBV, -1,
		"effective boolean value not defined for sequence of %d items starting with %s", v.Size(), first.Type())
}
