// Package parser turns query text into the expression tree consumed by the evaluator.
//
// The grammar is a small XPath subset: string and numeric literals, comma sequences,
// parenthesized expressions, the context item, function calls, and child ("/") or descendant
// ("//") steps with name, wildcard or kind tests. Comments use the (: ... :) syntax and may nest.
//
// # Example
//
//	expr, err := parser.Parse(`db("books")//title/text()`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"github.com/sandrolain/goxq/pkg/types"
)

// Parse parses a query and returns the parsed Expression.
//
// If parsing fails, it returns a *types.Error with code XPST0003 and the position of the offending
// token.
func Parse(query string) (*types.Expression, error) {
	p := NewParser(query)
	return p.Parse()
}

// Compile parses a query with options.
func Compile(query string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting of primary expressions to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
