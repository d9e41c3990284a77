package evaluator

import (
	"slices"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// Step is a child or descendant step with a node test.
type Step struct {
	input Expr
	axis  string
	test  NodeTest
	pos   int
}

// Compile compiles the input and pre-evaluates steps over constant input.
func (s *Step) Compile(qc *QueryContext) (Expr, error) {
	in, err := s.input.Compile(qc)
	if err != nil {
		return nil, err
	}
	s.input = in
	if isConst(in) {
		return preEvaluate(qc, s), nil
	}
	return s, nil
}

// Iter streams the matching nodes in document order. A single input node is navigated lazily;
// the results of several input nodes are sorted and freed of duplicates.
func (s *Step) Iter(qc *QueryContext) (value.Iter, error) {
	in, err := s.input.Value(qc)
	if err != nil {
		return nil, err
	}
	nodes := make([]value.Node, 0, in.Size())
	for i := int64(0); i < in.Size(); i++ {
		n, ok := in.ItemAt(i).(value.Node)
		if !ok {
			return nil, types.Errorf(types.ErrPathNonNode, s.pos,
				"path step applied to %s, node expected", in.ItemAt(i).Type())
		}
		if err := n.Materialize(); err != nil {
			return nil, withPosition(err, s.pos)
		}
		nodes = append(nodes, n)
	}
	if len(nodes) <= 1 {
		return s.navigate(nodes), nil
	}

	var out []value.Node
	for _, n := range nodes {
		it := s.navigate([]value.Node{n})
		for {
			item, _ := it.Next()
			if item == nil {
				break
			}
			out = append(out, item.(value.Node))
		}
	}
	slices.SortStableFunc(out, value.DocOrder)
	out = slices.CompactFunc(out, func(a, b value.Node) bool { return a.Equal(b) })
	b := value.NewBuilder(len(out))
	for _, n := range out {
		b.Add(n)
	}
	return value.IterOf(b.Value()), nil
}

func (s *Step) navigate(nodes []value.Node) *stepIter {
	it := &stepIter{test: s.test, desc: s.axis == types.AxisDescendant}
	for _, n := range nodes {
		if kids := n.Children(); len(kids) > 0 {
			it.stack = append(it.stack, kids)
		}
	}
	return it
}

func (s *Step) Value(qc *QueryContext) (value.Value, error) { return iterValue(s, qc) }
func (s *Step) Item(qc *QueryContext) (value.Item, error)   { return iterItem(s, qc) }
func (s *Step) Uses(u Use) bool                             { return s.input.Uses(u) }
func (s *Step) Position() int                               { return s.pos }

func (s *Step) SeqType() types.SeqType {
	t := types.TypeNode
	switch s.test {
	case TestText:
		t = types.TypeText
	case TestComment:
		t = types.TypeComment
	case TestPI:
		t = types.TypePI
	}
	if _, ok := s.test.(*NameTest); ok {
		t = types.TypeElement
	}
	return types.SeqType{Type: t, Occ: types.OccZeroOrMore}
}

func (s *Step) String() string {
	sep := "/"
	if s.axis == types.AxisDescendant {
		sep = "//"
	}
	return s.input.String() + sep + s.test.String()
}

// stepIter walks children, and with desc set their descendants, in document order.
type stepIter struct {
	test  NodeTest
	desc  bool
	stack [][]value.Node
}

func (it *stepIter) Next() (value.Item, error) {
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		if len(it.stack[top]) == 0 {
			it.stack = it.stack[:top]
			continue
		}
		n := it.stack[top][0]
		it.stack[top] = it.stack[top][1:]
		if it.desc {
			if kids := n.Children(); len(kids) > 0 {
				it.stack = append(it.stack, kids)
			}
		}
		if matchNode(it.test, n) {
			return n, nil
		}
	}
	return nil, nil
}
