// Package goxq provides the evaluation core of an XML query engine.
//
// Queries run against read-only databases: node tables in document order with optional text,
// attribute and full-text indexes. The engine is designed around:
//   - Compile once, evaluate many times: constant subexpressions are evaluated at compile time
//   - Lazy evaluation: results stream through iterators and stop as soon as a caller is done
//   - Index access: index() requests are validated and rewritten into index scans
//   - Nested queries: eval() and run() compile and evaluate queries at runtime
//
// # Quick Start
//
//	db, _ := memdb.ParseString("books", doc, memdb.WithAllIndexes())
//
//	// Simple evaluation
//	result, err := goxq.Eval(`count(.//book)`, db)
//
//	// Compile once, evaluate many times
//	q, err := goxq.Prepare(ctx, `index("XML", "fulltext")`, db)
//	result1, _ := q.Value(ctx)
//	result2, _ := q.Value(ctx)
//
//	// With options
//	result, err := goxq.Eval(`db("books")//title`, nil,
//	    goxq.WithCatalog(memdb.NewCatalog(db)),
//	    goxq.WithTimeout(5*time.Second),
//	)
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/goxq/pkg/parser
//   - Evaluator: github.com/sandrolain/goxq/pkg/evaluator
//   - Values: github.com/sandrolain/goxq/pkg/value
//   - Storage: github.com/sandrolain/goxq/pkg/storage
package goxq

import (
	"context"
	"fmt"
	"time"

	"github.com/sandrolain/goxq/pkg/evaluator"
	"github.com/sandrolain/goxq/pkg/parser"
	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// Version returns the current version of goxq.
func Version() string {
	return "v0.1.0-dev"
}

// Option configures evaluation behavior.
type Option = evaluator.EvalOption

// Re-exported evaluator options.
var (
	WithCaching        = evaluator.WithCaching
	WithCacheSize      = evaluator.WithCacheSize
	WithCache          = evaluator.WithCache
	WithConcurrency    = evaluator.WithConcurrency
	WithWorkers        = evaluator.WithWorkers
	WithTimeout        = evaluator.WithTimeout
	WithDebug          = evaluator.WithDebug
	WithLogger         = evaluator.WithLogger
	WithMaxDepth       = evaluator.WithMaxDepth
	WithCatalog        = evaluator.WithCatalog
	WithFetcher        = evaluator.WithFetcher
	WithMetrics        = evaluator.WithMetrics
	WithCustomFunction = evaluator.WithCustomFunction
	WithFunctions      = evaluator.WithFunctions
)

// Compile parses a query for repeated evaluation.
//
// The parsed expression can be prepared against several databases. It is safe for concurrent use.
//
// Example:
//
//	expr, err := goxq.Compile(`.//title`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(query string, opts ...parser.CompileOption) (*types.Expression, error) {
	return parser.Compile(query, opts...)
}

// MustCompile is like Compile but panics if the query cannot be parsed.
// It simplifies safe initialization of global variables.
func MustCompile(query string) *types.Expression {
	expr, err := Compile(query)
	if err != nil {
		panic(fmt.Sprintf("goxq: Compile(%q): %v", query, err))
	}
	return expr
}

// Prepare parses and compiles a query against data. The returned query may be evaluated any
// number of times.
func Prepare(ctx context.Context, query string, data storage.Data, opts ...Option) (*evaluator.Query, error) {
	return evaluator.New(opts...).Compile(ctx, query, data)
}

// Eval is a convenience function that compiles and evaluates a query in a single call.
//
// For repeated evaluations of the same query, use Prepare instead.
//
// Example:
//
//	result, err := goxq.Eval(`count(.//book)`, db)
func Eval(query string, data storage.Data, opts ...Option) (value.Value, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return EvalWithContext(ctx, query, data, opts...)
}

// EvalWithContext evaluates a query with a custom context.
func EvalWithContext(ctx context.Context, query string, data storage.Data, opts ...Option) (value.Value, error) {
	expr, err := Compile(query)
	if err != nil {
		return nil, err
	}
	return evaluator.New(opts...).Eval(ctx, expr, data)
}
