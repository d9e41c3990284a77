package evaluator

import (
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// Literal is a constant value, either written in the query or computed at compile time.
type Literal struct {
	val value.Value
	pos int
}

// NewLiteral returns a literal for v.
func NewLiteral(v value.Value, pos int) *Literal {
	if v == nil {
		v = value.Empty
	}
	return &Literal{val: v, pos: pos}
}

// Val returns the constant value.
func (l *Literal) Val() value.Value { return l.val }

func (l *Literal) Compile(*QueryContext) (Expr, error)      { return l, nil }
func (l *Literal) Iter(*QueryContext) (value.Iter, error)   { return value.IterOf(l.val), nil }
func (l *Literal) Value(*QueryContext) (value.Value, error) { return l.val, nil }
func (l *Literal) Uses(Use) bool                            { return false }
func (l *Literal) SeqType() types.SeqType                   { return l.val.SeqType() }
func (l *Literal) Position() int                            { return l.pos }
func (l *Literal) String() string                           { return l.val.String() }

func (l *Literal) Item(*QueryContext) (value.Item, error) {
	switch l.val.Size() {
	case 0:
		return nil, nil
	case 1:
		return l.val.ItemAt(0), nil
	}
	return nil, types.Errorf(types.ErrType, l.pos, "item expected, sequence of %d items found", l.val.Size())
}

// failure is an expression whose pre-evaluation failed. It raises the same error whenever it
// is evaluated, so folding never moves an error out of its evaluation order.
type failure struct {
	err  error
	typ  types.SeqType
	pos  int
	desc string
}

func (f *failure) Compile(*QueryContext) (Expr, error)      { return f, nil }
func (f *failure) Iter(*QueryContext) (value.Iter, error)   { return nil, f.err }
func (f *failure) Value(*QueryContext) (value.Value, error) { return nil, f.err }
func (f *failure) Item(*QueryContext) (value.Item, error)   { return nil, f.err }
func (f *failure) Uses(Use) bool                            { return false }
func (f *failure) SeqType() types.SeqType                   { return f.typ }
func (f *failure) Position() int                            { return f.pos }
func (f *failure) String() string                           { return f.desc }
