package evaluator

import (
	"maps"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// maxDistanceForHint is the largest edit distance for which unknown function names get a hint.
const maxDistanceForHint = 3

// build converts a parsed tree into an expression tree. Function names and arities are
// checked here, before compilation.
func (e *Evaluator) build(node *types.ASTNode) (Expr, error) {
	switch node.Type {
	case types.NodeString:
		return NewLiteral(value.Str(node.StrValue), node.Position), nil

	case types.NodeNumber:
		if node.IsInt {
			return NewLiteral(value.Int(int64(node.NumValue)), node.Position), nil
		}
		return NewLiteral(value.Dbl(node.NumValue), node.Position), nil

	case types.NodeContext:
		return &ContextItem{pos: node.Position}, nil

	case types.NodeSequence:
		if len(node.Expressions) == 0 {
			return NewLiteral(value.Empty, node.Position), nil
		}
		exprs, err := e.buildAll(node.Expressions)
		if err != nil {
			return nil, err
		}
		return &List{exprs: exprs, pos: node.Position}, nil

	case types.NodeFunction:
		return e.buildCall(node)

	case types.NodeStep:
		input, err := e.build(node.LHS)
		if err != nil {
			return nil, err
		}
		var test NodeTest = &NameTest{name: node.StrValue}
		if kt, ok := KindTestFor(node.StrValue); ok {
			test = kt
		}
		return &Step{input: input, axis: node.Axis, test: test, pos: node.Position}, nil
	}
	return nil, types.Errorf(types.ErrSyntax, node.Position, "unsupported expression: %s", node.Type)
}

func (e *Evaluator) buildAll(nodes []*types.ASTNode) ([]Expr, error) {
	exprs := make([]Expr, len(nodes))
	for i, n := range nodes {
		x, err := e.build(n)
		if err != nil {
			return nil, err
		}
		exprs[i] = x
	}
	return exprs, nil
}

// buildCall resolves a function call. Custom functions are found before built-ins.
func (e *Evaluator) buildCall(node *types.ASTNode) (Expr, error) {
	def, ok := e.getCustomFunction(node.StrValue)
	if !ok {
		def, ok = GetFunction(node.StrValue)
	}
	if !ok {
		return nil, e.unknownFunction(node)
	}
	args, err := e.buildAll(node.Arguments)
	if err != nil {
		return nil, err
	}
	if def.AcceptsContext && len(args) == 0 {
		args = []Expr{&ContextItem{pos: node.Position}}
	}
	if err := def.checkArity(len(args), node.Position); err != nil {
		return nil, err
	}
	return &FunCall{def: def, args: args, pos: node.Position}, nil
}

func (e *Evaluator) unknownFunction(node *types.ASTNode) error {
	name := node.StrValue
	for _, p := range functionPrefixes {
		if trimmed, ok := strings.CutPrefix(name, p); ok {
			name = trimmed
			break
		}
	}
	candidates := append(builtinNames(), slices.Collect(maps.Keys(e.customFns))...)
	err := types.Errorf(types.ErrUnknownFunction, node.Position, "unknown function: %s", node.StrValue)
	if hints := closestStrings(maxDistanceForHint, name, candidates); len(hints) > 0 {
		err.Message += " (did you mean " + strings.Join(hints, ", ") + "?)"
	}
	return err.WithToken(node.StrValue)
}

// closestStrings returns the candidates with the smallest edit distance to a, as long as that
// distance does not exceed minDistance.
func closestStrings(minDistance int, a string, candidates []string) []string {
	closest := []string{}
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(a, c)
		switch {
		case d < minDistance:
			closest = []string{c}
			minDistance = d
		case d == minDistance:
			closest = append(closest, c)
		}
	}
	slices.Sort(closest)
	return closest
}
