package value

import (
	"fmt"

	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
)

// Node is a node item: a database node or a fragment node.
type Node interface {
	Item
	// Name returns the node name, or "" for unnamed kinds.
	Name() string
	// Parent returns the parent node.
	Parent() (Node, bool)
	// Children returns the child nodes in document order. Attributes are not children.
	Children() []Node
	// Attributes returns the attribute nodes of an element.
	Attributes() []Node
}

// DBNode references a node of a database by its pre value.
type DBNode struct {
	data storage.Data
	pre  int
}

// NewDBNode returns a reference to the node at pre in data.
func NewDBNode(data storage.Data, pre int) *DBNode {
	return &DBNode{data: data, pre: pre}
}

// Data returns the database the node belongs to.
func (n *DBNode) Data() storage.Data { return n.data }

// Pre returns the pre value of the node.
func (n *DBNode) Pre() int { return n.pre }

// Kind returns the storage kind of the node.
func (n *DBNode) Kind() storage.Kind { return n.data.Kind(n.pre) }

// Name returns the node name, or "" for unnamed kinds.
func (n *DBNode) Name() string {
	switch n.Kind() {
	case storage.KindElement, storage.KindAttribute, storage.KindPI:
		return n.data.NodeName(n.pre)
	default:
		return ""
	}
}

// Parent returns the parent node.
func (n *DBNode) Parent() (Node, bool) {
	p, ok := n.data.Parent(n.pre)
	if !ok {
		return nil, false
	}
	return NewDBNode(n.data, p), true
}

// Children returns the child nodes.
func (n *DBNode) Children() []Node {
	var out []Node
	for c, ok := n.data.FirstChild(n.pre); ok; c, ok = n.data.NextSibling(c) {
		out = append(out, NewDBNode(n.data, c))
	}
	return out
}

// Attributes returns the attribute nodes.
func (n *DBNode) Attributes() []Node {
	if n.Kind() != storage.KindElement {
		return nil
	}
	cnt := n.data.AttributeCount(n.pre)
	out := make([]Node, 0, cnt)
	for i := 1; i <= cnt; i++ {
		out = append(out, NewDBNode(n.data, n.pre+i))
	}
	return out
}

func (n *DBNode) Size() int64                     { return 1 }
func (n *DBNode) ItemAt(pos int64) Item           { return itemAt(n, pos) }
func (n *DBNode) WriteTo(buf []Item, off int) int { return itemWriteTo(n, buf, off) }
func (n *DBNode) Homogeneous() bool               { return true }
func (n *DBNode) AtomSize() int64                 { return 1 }
func (n *DBNode) EBV() (bool, error)              { return true, nil }
func (n *DBNode) Insert(pos int64, it Item) Value { return itemInsert(n, pos, it) }
func (n *DBNode) Remove(pos int64) Value          { return itemRemove(n, pos) }
func (n *DBNode) Reverse() Value                  { return n }
func (n *DBNode) SeqType() types.SeqType          { return types.SeqType{Type: n.Type(), Occ: types.OccOne} }
func (*DBNode) value()                            {}
func (*DBNode) item()                             {}

// Materialize fails if the node no longer exists in its database.
func (n *DBNode) Materialize() error {
	if n.pre < 0 || n.pre >= n.data.Size() {
		return types.Errorf(types.ErrStaleNode, -1, "node %d no longer exists in database %q", n.pre, n.data.Name())
	}
	return nil
}

// Type maps the storage kind to the item type.
func (n *DBNode) Type() types.ItemType {
	if n.pre < 0 || n.pre >= n.data.Size() {
		return types.TypeNode
	}
	return kindType(n.Kind())
}

// AtomValue returns the typed value: xs:string for comments and processing instructions,
// xs:untypedAtomic for every other kind.
func (n *DBNode) AtomValue() (Value, error) {
	s, err := n.Text()
	if err != nil {
		return nil, err
	}
	switch n.Kind() {
	case storage.KindComment, storage.KindPI:
		return Str(s), nil
	default:
		return Atm(s), nil
	}
}

// Text returns the string value of the node.
func (n *DBNode) Text() (string, error) {
	if err := n.Materialize(); err != nil {
		return "", err
	}
	return storage.StringValue(n.data, n.pre), nil
}

// Equal reports node identity.
func (n *DBNode) Equal(o Item) bool {
	x, ok := o.(*DBNode)
	return ok && x.pre == n.pre && x.data == n.data
}

func (n *DBNode) String() string {
	return fmt.Sprintf("db:open-pre(%s, %d)", quote(n.data.Name()), n.pre)
}

func kindType(k storage.Kind) types.ItemType {
	switch k {
	case storage.KindDocument:
		return types.TypeDocument
	case storage.KindElement:
		return types.TypeElement
	case storage.KindText:
		return types.TypeText
	case storage.KindAttribute:
		return types.TypeAttribute
	case storage.KindComment:
		return types.TypeComment
	case storage.KindPI:
		return types.TypePI
	default:
		return types.TypeNode
	}
}
