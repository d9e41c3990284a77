package evaluator

import (
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// Use is a dynamic property an expression may depend on.
type Use uint8

const (
	// UseContext marks expressions that read the focus or the ambient database.
	UseContext Use = iota
	// UseNondeterministic marks expressions whose result may differ between evaluations.
	UseNondeterministic
)

// Expr is a node of a query tree.
//
// Compile is called once, bottom-up, and returns the node itself, a rewritten node or a
// *Literal holding the pre-evaluated result. A compiled tree holds no evaluation state: Iter,
// Value and Item may be called any number of times, from concurrent evaluations.
type Expr interface {
	Compile(qc *QueryContext) (Expr, error)
	// Iter returns a single-pass cursor over the result.
	Iter(qc *QueryContext) (value.Iter, error)
	// Value returns the materialized result.
	Value(qc *QueryContext) (value.Value, error)
	// Item returns the only item of the result, or nil for an empty result. More than one
	// item is a type error.
	Item(qc *QueryContext) (value.Item, error)
	// Uses reports whether the expression or one of its operands depends on u.
	Uses(u Use) bool
	// SeqType returns the static result type.
	SeqType() types.SeqType
	// Position returns the source offset of the expression.
	Position() int
	String() string
}

func iterValue(e Expr, qc *QueryContext) (value.Value, error) {
	it, err := e.Iter(qc)
	if err != nil {
		return nil, err
	}
	return value.Collect(it)
}

func iterItem(e Expr, qc *QueryContext) (value.Item, error) {
	it, err := e.Iter(qc)
	if err != nil {
		return nil, err
	}
	item, err := value.Single(it)
	if err != nil {
		return nil, withPosition(err, e.Position())
	}
	return item, nil
}

func itemIter(e Expr, qc *QueryContext) (value.Iter, error) {
	item, err := e.Item(qc)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return value.EmptyIter(), nil
	}
	return value.IterOf(item), nil
}

func itemValue(e Expr, qc *QueryContext) (value.Value, error) {
	item, err := e.Item(qc)
	if err != nil || item == nil {
		return value.Empty, err
	}
	return item, nil
}

// isConst reports whether e has been reduced to a value, or to an error raised while computing it.
func isConst(e Expr) bool {
	switch e.(type) {
	case *Literal, *failure:
		return true
	}
	return false
}

func usesAny(exprs []Expr, u Use) bool {
	for _, e := range exprs {
		if e.Uses(u) {
			return true
		}
	}
	return false
}

// preEvaluate replaces a constant expression with its value. An error is kept in a failure
// node and raised when the expression is evaluated.
func preEvaluate(qc *QueryContext, e Expr) Expr {
	var (
		v   value.Value
		err error
	)
	if e.SeqType().ZeroOrOne() {
		v, err = itemValue(e, qc)
	} else {
		v, err = e.Value(qc)
	}
	if err != nil {
		qc.ev.metrics.DeferredFailure()
		qc.debug("deferred failure", "expr", e.String(), "error", err)
		return &failure{err: err, typ: e.SeqType(), pos: e.Position(), desc: e.String()}
	}
	qc.ev.metrics.PreEvaluated()
	qc.debug("pre-evaluated", "expr", e.String(), "size", v.Size())
	return &Literal{val: v, pos: e.Position()}
}

// withPosition sets the source offset of a query error that has none.
func withPosition(err error, pos int) error {
	if qe, ok := err.(*types.Error); ok && qe.Position < 0 {
		cp := *qe
		cp.Position = pos
		return &cp
	}
	return err
}
