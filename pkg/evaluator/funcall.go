package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// FunCall is a call of a built-in or custom function.
type FunCall struct {
	def  *FunDef
	args []Expr
	pos  int
}

// Def returns the signature of the called function.
func (f *FunCall) Def() *FunDef { return f.def }

// Args returns the argument expressions.
func (f *FunCall) Args() []Expr { return f.args }

// Compile compiles the arguments left to right, applies the function's compile hook and
// pre-evaluates the call when it is independent of the context, deterministic and all
// arguments are constant.
func (f *FunCall) Compile(qc *QueryContext) (Expr, error) {
	for i, a := range f.args {
		c, err := a.Compile(qc)
		if err != nil {
			return nil, err
		}
		f.args[i] = c
	}
	if f.def.compile != nil {
		e, err := f.def.compile(qc, f)
		if err != nil {
			return nil, err
		}
		if e != Expr(f) {
			return e, nil
		}
	}
	if f.Uses(UseContext) || f.Uses(UseNondeterministic) {
		return f, nil
	}
	for _, a := range f.args {
		if !isConst(a) {
			return f, nil
		}
	}
	return preEvaluate(qc, f), nil
}

func (f *FunCall) Iter(qc *QueryContext) (value.Iter, error) {
	if f.def.iter == nil {
		return itemIter(f, qc)
	}
	it, err := f.def.iter(qc, f)
	if err != nil {
		return nil, withPosition(err, f.pos)
	}
	return it, nil
}

func (f *FunCall) Item(qc *QueryContext) (value.Item, error) {
	if f.def.item == nil {
		return iterItem(f, qc)
	}
	item, err := f.def.item(qc, f)
	if err != nil {
		return nil, withPosition(err, f.pos)
	}
	return item, nil
}

func (f *FunCall) Value(qc *QueryContext) (value.Value, error) {
	if f.def.item != nil {
		return itemValue(f, qc)
	}
	return iterValue(f, qc)
}

// Uses reports the function's own flags and those of its arguments.
func (f *FunCall) Uses(u Use) bool {
	switch u {
	case UseContext:
		if f.def.Has(FlagContext) {
			return true
		}
	case UseNondeterministic:
		if f.def.Has(FlagNondeterministic) {
			return true
		}
	}
	return usesAny(f.args, u)
}

func (f *FunCall) SeqType() types.SeqType { return f.def.Ret }
func (f *FunCall) Position() int          { return f.pos }

func (f *FunCall) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.def.Name + "(" + strings.Join(parts, ", ") + ")"
}

// --- argument helpers ---

func (f *FunCall) valueArg(qc *QueryContext, i int) (value.Value, error) {
	return f.args[i].Value(qc)
}

func (f *FunCall) itemArg(qc *QueryContext, i int) (value.Item, error) {
	return f.args[i].Item(qc)
}

// strArg returns a string argument. The empty sequence is a type error.
func (f *FunCall) strArg(qc *QueryContext, i int) (string, error) {
	s, ok, err := f.optStrArg(qc, i)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", types.Errorf(types.ErrType, f.args[i].Position(),
			"%s: xs:string expected, empty sequence found", f.def.Name)
	}
	return s, nil
}

// optStrArg returns a string argument and whether it was present.
func (f *FunCall) optStrArg(qc *QueryContext, i int) (string, bool, error) {
	item, err := f.itemArg(qc, i)
	if err != nil || item == nil {
		return "", false, err
	}
	t := item.Type()
	if !t.IsStringLike() && !t.IsNode() {
		return "", false, types.Errorf(types.ErrType, f.args[i].Position(),
			"%s: xs:string expected, %s found", f.def.Name, t)
	}
	s, err := item.Text()
	return s, true, err
}

// maxIntDbl is 2^63, the first double outside the int64 range.
const maxIntDbl = 1 << 63

// intArg returns an integer argument. Doubles without fraction and untyped values are accepted.
func (f *FunCall) intArg(qc *QueryContext, i int) (int64, error) {
	item, err := f.itemArg(qc, i)
	if err != nil {
		return 0, err
	}
	pos := f.args[i].Position()
	switch x := item.(type) {
	case nil:
		return 0, types.Errorf(types.ErrType, pos, "%s: xs:integer expected, empty sequence found", f.def.Name)
	case value.Int:
		return int64(x), nil
	case value.Dbl:
		d := float64(x)
		if math.Abs(d) >= maxIntDbl {
			return 0, types.Errorf(types.ErrInvalidArgument, pos, "%s: %s is out of xs:integer range", f.def.Name, x)
		}
		if d == math.Trunc(d) {
			return int64(d), nil
		}
	case value.Atm:
		if n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64); err == nil {
			return n, nil
		}
		return 0, types.Errorf(types.ErrInvalidArgument, pos, "%s: cannot convert %s to xs:integer", f.def.Name, x)
	case value.Node:
		s, err := x.Text()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, nil
		}
		return 0, types.Errorf(types.ErrInvalidArgument, pos, "%s: cannot convert %q to xs:integer", f.def.Name, s)
	}
	return 0, types.Errorf(types.ErrType, pos, "%s: xs:integer expected, %s found", f.def.Name, item.Type())
}

// numArg returns a numeric argument as a double.
func (f *FunCall) numArg(qc *QueryContext, i int) (float64, error) {
	item, err := f.itemArg(qc, i)
	if err != nil {
		return 0, err
	}
	switch x := item.(type) {
	case value.Int:
		return float64(x), nil
	case value.Dbl:
		return float64(x), nil
	case value.Atm:
		if d, err := strconv.ParseFloat(strings.TrimSpace(string(x)), 64); err == nil {
			return d, nil
		}
	}
	if item == nil {
		return 0, types.Errorf(types.ErrType, f.args[i].Position(), "%s: xs:double expected, empty sequence found", f.def.Name)
	}
	return 0, types.Errorf(types.ErrType, f.args[i].Position(), "%s: xs:double expected, %s found", f.def.Name, item.Type())
}
