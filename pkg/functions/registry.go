// Package functions provides types for registering custom query functions.
//
// Users of goxq can define their own functions and register them via
// [goxq.WithCustomFunction], making them callable by name inside queries. Custom functions are
// looked up before the built-in functions, so they may also replace a built-in.
//
// # Example
//
//	result, err := goxq.Eval(`greet("World")`, nil,
//	    goxq.WithCustomFunction("greet", 1, 1, func(ctx context.Context, args ...value.Value) (value.Value, error) {
//	        name, err := args[0].ItemAt(0).Text()
//	        if err != nil {
//	            return nil, err
//	        }
//	        return value.Str("Hello, " + name + "!"), nil
//	    }),
//	)
//	// result == "Hello, World!"
package functions

import (
	"context"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// CustomFunc is the signature for user-defined custom functions.
// args contains the evaluated arguments in order; each argument is a full sequence.
type CustomFunc func(ctx context.Context, args ...value.Value) (value.Value, error)

// CustomFunctionDef describes a user-defined function.
type CustomFunctionDef struct {
	// Name is the function name as it appears inside queries.
	Name string
	// MinArgs and MaxArgs bound the arity checked when a query is compiled.
	// MaxArgs -1 means unlimited.
	MinArgs int
	MaxArgs int
	// Ret is the declared return type. The zero value means item()*.
	Ret types.SeqType
	// Nondeterministic marks functions whose result may differ between calls with the same
	// arguments. Such calls are never evaluated at compile time.
	Nondeterministic bool
	// Fn is the implementation.
	Fn CustomFunc
}

// ReturnType returns the declared return type, defaulting to item()*.
func (d CustomFunctionDef) ReturnType() types.SeqType {
	if d.Ret == (types.SeqType{}) {
		return types.SeqItems
	}
	return d.Ret
}
