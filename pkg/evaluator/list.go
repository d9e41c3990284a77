package evaluator

import (
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// List is a sequence constructor "(a, b, ...)".
type List struct {
	exprs []Expr
	pos   int
}

// Compile compiles the members and folds the list when every member is a literal.
func (l *List) Compile(qc *QueryContext) (Expr, error) {
	folded := true
	for i, e := range l.exprs {
		c, err := e.Compile(qc)
		if err != nil {
			return nil, err
		}
		l.exprs[i] = c
		if _, ok := c.(*Literal); !ok {
			folded = false
		}
	}
	if !folded {
		return l, nil
	}
	b := value.NewBuilder(len(l.exprs))
	for _, e := range l.exprs {
		b.AddValue(e.(*Literal).val)
	}
	return &Literal{val: b.Value(), pos: l.pos}, nil
}

// Iter concatenates the members lazily. A member is only evaluated once the previous ones are
// exhausted.
func (l *List) Iter(qc *QueryContext) (value.Iter, error) {
	var (
		i   int
		cur value.Iter
	)
	return value.IterFunc(func() (value.Item, error) {
		for {
			if cur == nil {
				if i == len(l.exprs) {
					return nil, nil
				}
				it, err := l.exprs[i].Iter(qc)
				if err != nil {
					return nil, err
				}
				cur = it
				i++
			}
			item, err := cur.Next()
			if err != nil || item != nil {
				return item, err
			}
			cur = nil
		}
	}), nil
}

func (l *List) Value(qc *QueryContext) (value.Value, error) { return iterValue(l, qc) }
func (l *List) Item(qc *QueryContext) (value.Item, error)   { return iterItem(l, qc) }
func (l *List) Uses(u Use) bool                             { return usesAny(l.exprs, u) }
func (l *List) Position() int                               { return l.pos }

func (l *List) SeqType() types.SeqType {
	if len(l.exprs) == 0 {
		return types.SeqEmpty
	}
	t := l.exprs[0].SeqType().Type
	for _, e := range l.exprs[1:] {
		if e.SeqType().Type != t {
			t = types.TypeItem
			break
		}
	}
	return types.SeqType{Type: t, Occ: types.OccZeroOrMore}
}

func (l *List) String() string {
	parts := make([]string, len(l.exprs))
	for i, e := range l.exprs {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ContextItem is the context item expression ".".
type ContextItem struct {
	pos int
}

func (c *ContextItem) Compile(*QueryContext) (Expr, error)         { return c, nil }
func (c *ContextItem) Iter(qc *QueryContext) (value.Iter, error)   { return itemIter(c, qc) }
func (c *ContextItem) Value(qc *QueryContext) (value.Value, error) { return itemValue(c, qc) }
func (c *ContextItem) Uses(u Use) bool                             { return u == UseContext }
func (c *ContextItem) SeqType() types.SeqType                      { return seqItemOne }
func (c *ContextItem) Position() int                               { return c.pos }
func (c *ContextItem) String() string                              { return "." }

func (c *ContextItem) Item(qc *QueryContext) (value.Item, error) {
	if qc.focus == nil {
		return nil, types.NewError(types.ErrNoContext, "no context item defined", c.pos)
	}
	return qc.focus, nil
}
