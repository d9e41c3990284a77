package evaluator

import (
	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// NodeTest filters candidate nodes during navigation.
type NodeTest interface {
	// Matches reports whether the node at pre with the given kind passes the test.
	Matches(data storage.Data, pre int, kind storage.Kind) bool
	String() string
}

// KindTest is a node kind test. The set of kind tests is fixed; tests are compared by identity.
type KindTest struct {
	kind storage.Kind
	any  bool
	name string
}

// Kind tests.
var (
	TestNode    = &KindTest{any: true, name: types.TestNode}
	TestText    = &KindTest{kind: storage.KindText, name: types.TestText}
	TestComment = &KindTest{kind: storage.KindComment, name: types.TestComment}
	TestPI      = &KindTest{kind: storage.KindPI, name: types.TestPI}
)

// Matches reports whether kind passes the test. The node itself is not inspected.
func (t *KindTest) Matches(_ storage.Data, _ int, kind storage.Kind) bool {
	return t.any || kind == t.kind
}

// SameAs reports whether o is the same test.
func (t *KindTest) SameAs(o NodeTest) bool {
	x, ok := o.(*KindTest)
	return ok && x == t
}

func (t *KindTest) String() string { return t.name }

// KindTestFor returns the kind test written as s, e.g. "text()".
func KindTestFor(s string) (*KindTest, bool) {
	switch s {
	case types.TestNode:
		return TestNode, true
	case types.TestText:
		return TestText, true
	case types.TestComment:
		return TestComment, true
	case types.TestPI:
		return TestPI, true
	}
	return nil, false
}

// NameTest matches elements by name; "*" matches every element.
type NameTest struct {
	name string
}

// Matches reports whether the node is an element with the test's name.
func (t *NameTest) Matches(data storage.Data, pre int, kind storage.Kind) bool {
	return kind == storage.KindElement && t.matchName(data.NodeName(pre))
}

func (t *NameTest) matchName(name string) bool {
	return t.name == types.TestAny || t.name == name
}

func (t *NameTest) String() string { return t.name }

// matchNode applies t to a database or fragment node.
func matchNode(t NodeTest, n value.Node) bool {
	if db, ok := n.(*value.DBNode); ok {
		return t.Matches(db.Data(), db.Pre(), db.Kind())
	}
	kind := nodeKind(n.Type())
	if nt, ok := t.(*NameTest); ok {
		return kind == storage.KindElement && nt.matchName(n.Name())
	}
	return t.Matches(nil, -1, kind)
}

func nodeKind(t types.ItemType) storage.Kind {
	switch t {
	case types.TypeDocument:
		return storage.KindDocument
	case types.TypeAttribute:
		return storage.KindAttribute
	case types.TypeText:
		return storage.KindText
	case types.TypeComment:
		return storage.KindComment
	case types.TypePI:
		return storage.KindPI
	default:
		return storage.KindElement
	}
}
