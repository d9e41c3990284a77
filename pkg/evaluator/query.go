package evaluator

import (
	"context"
	"time"

	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// Query is a compiled expression bound to a database. A Query holds no evaluation state and may
// be evaluated any number of times, concurrently.
type Query struct {
	ev    *Evaluator
	expr  *types.Expression
	root  Expr
	data  storage.Data
	depth int
}

// Root returns the compiled expression tree.
func (q *Query) Root() Expr { return q.root }

// Source returns the query text.
func (q *Query) Source() string { return q.expr.Source() }

// Plan returns the compiled expression tree in query syntax. Pre-evaluated subexpressions
// show up as literals and index requests as index scans.
func (q *Query) Plan() string { return q.root.String() }

// SeqType returns the static type of the result.
func (q *Query) SeqType() types.SeqType { return q.root.SeqType() }

// Iter evaluates the query lazily. The iterator must not be used after ctx is canceled.
func (q *Query) Iter(ctx context.Context) (value.Iter, error) {
	return q.root.Iter(newQueryContext(ctx, q.ev, q.data, q.depth))
}

// Value evaluates the query and materializes the result.
func (q *Query) Value(ctx context.Context) (value.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	v, err := q.root.Value(newQueryContext(ctx, q.ev, q.data, q.depth))
	if err != nil {
		return nil, err
	}
	if err := v.Materialize(); err != nil {
		return nil, err
	}
	if q.depth == 0 {
		q.ev.metrics.ObserveEval(time.Since(start))
	}
	return v, nil
}
