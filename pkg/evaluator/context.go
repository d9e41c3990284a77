package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// QueryContext holds the state of one compilation or evaluation: the ambient database, the
// focus and the nesting depth. Contexts are never shared between evaluations.
type QueryContext struct {
	ctx    context.Context
	ev     *Evaluator
	id     uuid.UUID
	data   storage.Data
	focus  value.Item
	depth  int
	logger *slog.Logger
}

// newQueryContext creates a context over data. The focus is the document node of data, if any.
func newQueryContext(ctx context.Context, ev *Evaluator, data storage.Data, depth int) *QueryContext {
	qc := &QueryContext{
		ctx:   ctx,
		ev:    ev,
		id:    uuid.New(),
		data:  data,
		depth: depth,
	}
	if data != nil && data.Size() > 0 {
		qc.focus = value.NewDBNode(data, 0)
	}
	qc.logger = ev.logger.With("query", qc.id.String())
	return qc
}

// Context returns the Go context of the evaluation.
func (qc *QueryContext) Context() context.Context {
	return qc.ctx
}

// ID returns the identifier used to correlate log records of the query.
func (qc *QueryContext) ID() uuid.UUID {
	return qc.id
}

// Data returns the ambient database, or nil.
func (qc *QueryContext) Data() storage.Data {
	return qc.data
}

// Focus returns the context item, or nil.
func (qc *QueryContext) Focus() value.Item {
	return qc.focus
}

// Depth returns the nesting depth; top-level queries have depth 0.
func (qc *QueryContext) Depth() int {
	return qc.depth
}

// Nested compiles and evaluates query in a fresh context over the same database.
// The nested query shares no evaluation state with the caller.
func (qc *QueryContext) Nested(query string) (value.Value, error) {
	if err := qc.ctx.Err(); err != nil {
		return nil, err
	}
	depth := qc.depth + 1
	if limit := qc.ev.opts.MaxDepth; limit > 0 && depth > limit {
		return nil, types.Errorf(types.ErrNestingTooDeep, -1, "nested queries exceed depth %d", limit)
	}
	qc.ev.metrics.Nested()
	qc.debug("nested query", "depth", depth, "source", query)

	expr, err := qc.ev.parse(query)
	if err != nil {
		return nil, err
	}
	q, err := qc.ev.prepare(qc.ctx, expr, qc.data, depth)
	if err != nil {
		return nil, err
	}
	return q.Value(qc.ctx)
}

// openDB resolves a database by name through the evaluator's catalog.
func (qc *QueryContext) openDB(name string, pos int) (storage.Data, error) {
	if qc.ev.opts.Catalog == nil {
		return nil, types.Errorf(types.ErrNoDatabase, pos, "database %q not found", name)
	}
	data, err := qc.ev.opts.Catalog.Open(name)
	if err != nil {
		return nil, types.Errorf(types.ErrNoDatabase, pos, "database %q not found", name).WithCause(err)
	}
	return data, nil
}

func (qc *QueryContext) debug(msg string, args ...any) {
	if qc.ev.opts.Debug {
		qc.logger.Debug(msg, args...)
	}
}

// String returns a string representation of the context.
func (qc *QueryContext) String() string {
	name := "<none>"
	if qc.data != nil {
		name = qc.data.Name()
	}
	return fmt.Sprintf("QueryContext{id=%s, data=%s, depth=%d}", qc.id, name, qc.depth)
}
