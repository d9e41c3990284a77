package value

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"golang.org/x/net/html/charset"

	"github.com/sandrolain/goxq/pkg/types"
)

// fragmentSeq orders fragment trees by creation.
var fragmentSeq atomic.Uint64

// FNode is an in-memory fragment node, created by parsing XML at query time.
type FNode struct {
	kind     types.ItemType
	name     string
	val      string
	parent   *FNode
	children []*FNode
	attrs    []*FNode
	// tree and order place the node in document order across fragments.
	tree  uint64
	order int
}

// ParseFragment parses an XML document into a fragment tree and returns its document node.
// The input encoding is taken from the XML declaration.
func ParseFragment(r io.Reader) (*FNode, error) {
	doc := &FNode{kind: types.TypeDocument, tree: fragmentSeq.Add(1)}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	order := 1
	stack := []*FNode{doc}
	add := func(n *FNode) {
		parent := stack[len(stack)-1]
		n.parent, n.tree, n.order = parent, doc.tree, order
		order++
		parent.children = append(parent.children, n)
	}
	root := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 1 {
				if root {
					return nil, errors.New("document has more than one root element")
				}
				root = true
			}
			n := &FNode{kind: types.TypeElement, name: qname(t.Name)}
			add(n)
			for _, a := range t.Attr {
				attr := &FNode{kind: types.TypeAttribute, name: qname(a.Name), val: a.Value,
					parent: n, tree: doc.tree, order: order}
				order++
				n.attrs = append(n.attrs, attr)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 1 {
				continue
			}
			parent := stack[len(stack)-1]
			if last := len(parent.children) - 1; last >= 0 && parent.children[last].kind == types.TypeText {
				parent.children[last].val += string(t)
				continue
			}
			add(&FNode{kind: types.TypeText, val: string(t)})
		case xml.Comment:
			add(&FNode{kind: types.TypeComment, val: string(t)})
		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			add(&FNode{kind: types.TypePI, name: t.Target, val: string(t.Inst)})
		}
	}
	if !root {
		return nil, errors.New("document has no root element")
	}
	return doc, nil
}

// ParseFragmentString parses an XML string into a fragment tree.
func ParseFragmentString(s string) (*FNode, error) {
	return ParseFragment(strings.NewReader(s))
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Name returns the node name.
func (n *FNode) Name() string { return n.name }

// Parent returns the parent node.
func (n *FNode) Parent() (Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// Children returns the child nodes.
func (n *FNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Attributes returns the attribute nodes.
func (n *FNode) Attributes() []Node {
	out := make([]Node, len(n.attrs))
	for i, a := range n.attrs {
		out[i] = a
	}
	return out
}

func (n *FNode) Size() int64                     { return 1 }
func (n *FNode) ItemAt(pos int64) Item           { return itemAt(n, pos) }
func (n *FNode) WriteTo(buf []Item, off int) int { return itemWriteTo(n, buf, off) }
func (n *FNode) Homogeneous() bool               { return true }
func (n *FNode) Materialize() error              { return nil }
func (n *FNode) AtomSize() int64                 { return 1 }
func (n *FNode) EBV() (bool, error)              { return true, nil }
func (n *FNode) Insert(pos int64, it Item) Value { return itemInsert(n, pos, it) }
func (n *FNode) Remove(pos int64) Value          { return itemRemove(n, pos) }
func (n *FNode) Reverse() Value                  { return n }
func (n *FNode) Type() types.ItemType            { return n.kind }
func (n *FNode) SeqType() types.SeqType          { return types.SeqType{Type: n.kind, Occ: types.OccOne} }
func (n *FNode) Equal(o Item) bool               { x, ok := o.(*FNode); return ok && x == n }
func (*FNode) value()                            {}
func (*FNode) item()                             {}

// AtomValue returns the typed value of the node.
func (n *FNode) AtomValue() (Value, error) {
	s, _ := n.Text()
	if n.kind == types.TypeComment || n.kind == types.TypePI {
		return Str(s), nil
	}
	return Atm(s), nil
}

// Text returns the string value of the node.
func (n *FNode) Text() (string, error) {
	if n.kind != types.TypeDocument && n.kind != types.TypeElement {
		return n.val, nil
	}
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String(), nil
}

func (n *FNode) appendText(sb *strings.Builder) {
	for _, c := range n.children {
		switch c.kind {
		case types.TypeText:
			sb.WriteString(c.val)
		case types.TypeElement:
			c.appendText(sb)
		}
	}
}

func (n *FNode) String() string {
	s, _ := Serialize(n)
	return s
}

// DocOrder compares two nodes in document order. Nodes of different trees are ordered stably:
// database nodes before fragments, databases by name, fragments by creation.
func DocOrder(a, b Node) int {
	switch x := a.(type) {
	case *DBNode:
		y, ok := b.(*DBNode)
		if !ok {
			return -1
		}
		if x.data != y.data {
			return strings.Compare(x.data.Name(), y.data.Name())
		}
		return x.pre - y.pre
	case *FNode:
		y, ok := b.(*FNode)
		if !ok {
			return 1
		}
		if x.tree != y.tree {
			if x.tree < y.tree {
				return -1
			}
			return 1
		}
		return x.order - y.order
	}
	return 0
}
