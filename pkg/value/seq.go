package value

import (
	"fmt"
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
)

// ItemSeq is a materialized sequence of two or more items.
type ItemSeq struct {
	items []Item
	typ   types.ItemType
	homo  bool
}

func (s *ItemSeq) Size() int64 { return int64(len(s.items)) }

func (s *ItemSeq) ItemAt(pos int64) Item {
	if pos < 0 || pos >= int64(len(s.items)) {
		panic(fmt.Sprintf("value: index %d out of range [0:%d]", pos, len(s.items)))
	}
	return s.items[pos]
}

func (s *ItemSeq) WriteTo(buf []Item, off int) int {
	if off < 0 || off >= len(buf) {
		return 0
	}
	return copy(buf[off:], s.items)
}

func (s *ItemSeq) Homogeneous() bool { return s.homo }

func (s *ItemSeq) Materialize() error {
	for _, it := range s.items {
		if err := it.Materialize(); err != nil {
			return err
		}
	}
	return nil
}

func (s *ItemSeq) AtomValue() (Value, error) {
	b := NewBuilder(len(s.items))
	for _, it := range s.items {
		a, err := it.AtomValue()
		if err != nil {
			return nil, err
		}
		b.AddValue(a)
	}
	return b.Value(), nil
}

func (s *ItemSeq) AtomSize() int64 {
	var n int64
	for _, it := range s.items {
		n += it.AtomSize()
	}
	return n
}

func (s *ItemSeq) EBV() (bool, error) { return seqEBV(s) }

func (s *ItemSeq) Insert(pos int64, it Item) Value { return copyInsert(s, pos, it) }

func (s *ItemSeq) Remove(pos int64) Value { return copyRemove(s, pos) }

func (s *ItemSeq) Reverse() Value {
	b := NewBuilder(len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		b.Add(s.items[i])
	}
	return b.Value()
}

func (s *ItemSeq) Type() types.ItemType { return s.typ }

func (s *ItemSeq) SeqType() types.SeqType {
	return types.SeqType{Type: s.typ, Occ: types.OccOneOrMore}
}

func (s *ItemSeq) String() string {
	return seqString(s)
}

func (*ItemSeq) value() {}

// seqString renders a sequence in query notation, abbreviating long sequences.
func seqString(v Value) string {
	const limit = 8
	var sb strings.Builder
	sb.WriteByte('(')
	n := v.Size()
	for i := int64(0); i < n && i < limit; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.ItemAt(i).String())
	}
	if n > limit {
		fmt.Fprintf(&sb, ", ... %d more", n-limit)
	}
	sb.WriteByte(')')
	return sb.String()
}
