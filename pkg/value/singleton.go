package value

import (
	"fmt"
	"math"

	"github.com/sandrolain/goxq/pkg/types"
)

// SingletonSeq is a sequence of reps repetitions of a base value. The base is never empty, never a
// SingletonSeq itself, and reps is at least 2.
//
// Construct it with Replicate only.
type SingletonSeq struct {
	base Value
	reps int64
}

// Replicate returns base repeated reps times. It returns Empty when the result would be empty and
// base itself when reps is 1. It panics when reps exceeds MaxReps(base); callers check first.
func Replicate(base Value, reps int64) Value {
	if base == nil || reps <= 0 || base.Size() == 0 {
		return Empty
	}
	if reps > MaxReps(base) {
		panic(fmt.Sprintf("value: %d repetitions of %d items overflow the sequence size", reps, base.Size()))
	}
	if reps == 1 {
		return base
	}
	if s, ok := base.(*SingletonSeq); ok {
		return &SingletonSeq{base: s.base, reps: s.reps * reps}
	}
	return &SingletonSeq{base: base, reps: reps}
}

// MaxReps returns the largest repetition count of base whose size still fits in an int64.
func MaxReps(base Value) int64 {
	n := base.Size()
	if n == 0 {
		return math.MaxInt64
	}
	return math.MaxInt64 / n
}

// Base returns the repeated value.
func (s *SingletonSeq) Base() Value { return s.base }

// Reps returns the repetition count.
func (s *SingletonSeq) Reps() int64 { return s.reps }

func (s *SingletonSeq) Size() int64 { return s.reps * s.base.Size() }

func (s *SingletonSeq) ItemAt(pos int64) Item {
	if pos < 0 || pos >= s.Size() {
		panic(fmt.Sprintf("value: index %d out of range [0:%d]", pos, s.Size()))
	}
	return s.base.ItemAt(pos % s.base.Size())
}

// WriteTo writes the base once and then tiles the written prefix.
func (s *SingletonSeq) WriteTo(buf []Item, off int) int {
	if off < 0 || off >= len(buf) {
		return 0
	}
	n := int(min(s.Size(), int64(len(buf)-off)))
	bs := int(min(s.base.Size(), int64(n)))
	w := s.base.WriteTo(buf[:off+bs], off)
	for w < n {
		w += copy(buf[off+w:off+n], buf[off:off+w])
	}
	return n
}

func (s *SingletonSeq) Homogeneous() bool { return s.base.Homogeneous() }

func (s *SingletonSeq) Materialize() error { return s.base.Materialize() }

func (s *SingletonSeq) AtomValue() (Value, error) {
	a, err := s.base.AtomValue()
	if err != nil {
		return nil, err
	}
	return Replicate(a, s.reps), nil
}

func (s *SingletonSeq) AtomSize() int64 { return s.base.AtomSize() * s.reps }

// EBV applies the sequence rule to the first base item: true for a node, an error otherwise.
func (s *SingletonSeq) EBV() (bool, error) {
	if s.base.Size() > 1 {
		return s.base.EBV()
	}
	return seqEBV(s)
}

// Insert stays compact when the base is a single item equal to it.
func (s *SingletonSeq) Insert(pos int64, it Item) Value {
	if s.base.Size() == 1 && s.reps < math.MaxInt64 && s.base.ItemAt(0).Equal(it) {
		return Replicate(s.base, s.reps+1)
	}
	return copyInsert(s, pos, it)
}

// Remove stays compact when the base is a single item.
func (s *SingletonSeq) Remove(pos int64) Value {
	if pos < 0 || pos >= s.Size() {
		return s
	}
	if s.base.Size() == 1 {
		return Replicate(s.base, s.reps-1)
	}
	return copyRemove(s, pos)
}

// Reverse returns the receiver for a single-item base. Otherwise every tile flips as well, so
// the items are rebuilt from the end.
func (s *SingletonSeq) Reverse() Value {
	if s.base.Size() == 1 {
		return s
	}
	n := s.Size()
	b := NewBuilder(int(n))
	for i := n - 1; i >= 0; i-- {
		b.Add(s.ItemAt(i))
	}
	return b.Value()
}

func (s *SingletonSeq) Type() types.ItemType { return s.base.Type() }

func (s *SingletonSeq) SeqType() types.SeqType {
	return types.SeqType{Type: s.base.Type(), Occ: types.OccOneOrMore}
}

func (s *SingletonSeq) String() string {
	return fmt.Sprintf("replicate(%s, %d)", s.base, s.reps)
}

func (*SingletonSeq) value() {}
