// Package types defines the core type system for goxq.
//
// This package contains type definitions for:
//   - Expression: parsed query text, ready to be built and compiled
//   - ASTNode: Abstract Syntax Tree nodes
//   - ItemType, SeqType: static item and sequence types
//   - Error types: Structured errors with codes and classes
package types

// Expression represents a parsed query.
//
// An Expression is immutable once parsed and may be compiled many times, against different
// databases, by [evaluator.Evaluator.Prepare]. It is safe for concurrent use.
type Expression struct {
	ast    *ASTNode
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original query text.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
