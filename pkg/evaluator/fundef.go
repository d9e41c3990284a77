package evaluator

import (
	"fmt"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// Flag is a static property of a function.
type Flag uint8

const (
	// FlagContext marks functions that read the focus or the ambient database.
	FlagContext Flag = 1 << iota
	// FlagNondeterministic marks functions whose result may change between calls.
	FlagNondeterministic
)

// ItemImpl computes the at most one item returned by a call.
type ItemImpl func(qc *QueryContext, f *FunCall) (value.Item, error)

// IterImpl returns a cursor over the result of a call.
type IterImpl func(qc *QueryContext, f *FunCall) (value.Iter, error)

// CompileHook rewrites a call after its arguments are compiled.
type CompileHook func(qc *QueryContext, f *FunCall) (Expr, error)

// FunDef is the immutable signature of a function.
type FunDef struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for unlimited
	Ret     types.SeqType
	Flags   Flag
	// AcceptsContext makes a call without arguments operate on the context item.
	AcceptsContext bool

	item    ItemImpl
	iter    IterImpl
	compile CompileHook
}

// Has reports whether all bits of fl are set.
func (d *FunDef) Has(fl Flag) bool {
	return d.Flags&fl == fl
}

// checkArity validates the number of arguments of a call site.
func (d *FunDef) checkArity(n, pos int) error {
	if n >= d.MinArgs && (d.MaxArgs < 0 || n <= d.MaxArgs) {
		return nil
	}
	var want string
	switch {
	case d.MaxArgs < 0:
		want = fmt.Sprintf("at least %d", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		want = fmt.Sprintf("%d", d.MinArgs)
	default:
		want = fmt.Sprintf("%d to %d", d.MinArgs, d.MaxArgs)
	}
	return types.Errorf(types.ErrArgumentCount, pos,
		"%s: %d argument(s) supplied, %s expected", d.Name, n, want).WithToken(d.Name)
}

// String returns the signature, e.g. "db#1-2 as node()".
func (d *FunDef) String() string {
	arity := fmt.Sprintf("%d", d.MinArgs)
	switch {
	case d.MaxArgs < 0:
		arity += "+"
	case d.MaxArgs != d.MinArgs:
		arity += fmt.Sprintf("-%d", d.MaxArgs)
	}
	return fmt.Sprintf("%s#%s as %s", d.Name, arity, d.Ret)
}
