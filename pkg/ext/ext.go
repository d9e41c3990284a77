// Package ext provides optional extension functions for goxq that go beyond the built-in
// function set.
//
// The extension functions live in sub-packages grouped by category:
//   - extstring – starts-with, ends-with, contains, upper-case, words, repeat, …
//   - extcrypto – random-uuid, hash, hmac
//
// # Integration – all extensions at once
//
//	import "github.com/sandrolain/goxq/pkg/ext"
//
//	result, err := goxq.Eval(query, db, ext.WithAll())
//
// # Integration – by category
//
//	result, err := goxq.Eval(query, db, ext.WithString())
//
// # Integration – single function from a sub-package
//
//	import "github.com/sandrolain/goxq/pkg/ext/extstring"
//
//	result, err := goxq.Eval(query, db,
//	    goxq.WithFunctions(extstring.StartsWith()),
//	)
package ext

import (
	"github.com/sandrolain/goxq/pkg/evaluator"
	"github.com/sandrolain/goxq/pkg/ext/extcrypto"
	"github.com/sandrolain/goxq/pkg/ext/extstring"
	"github.com/sandrolain/goxq/pkg/functions"
)

// All returns all extension function definitions.
func All() []functions.CustomFunctionDef {
	var all []functions.CustomFunctionDef
	all = append(all, extstring.All()...)
	all = append(all, extcrypto.All()...)
	return all
}

// WithAll returns an EvalOption that registers all extension functions.
func WithAll() evaluator.EvalOption {
	return evaluator.WithFunctions(All()...)
}

// WithString returns an EvalOption for the extended string functions.
func WithString() evaluator.EvalOption {
	return evaluator.WithFunctions(extstring.All()...)
}

// WithCrypto returns an EvalOption for the identifier and digest functions.
func WithCrypto() evaluator.EvalOption {
	return evaluator.WithFunctions(extcrypto.All()...)
}
