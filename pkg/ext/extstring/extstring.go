// Package extstring provides string functions beyond the built-in set. Register them via
// goxq.WithFunctions or via the top-level ext.WithString() helper.
package extstring

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/goxq/pkg/ext/extutil"
	"github.com/sandrolain/goxq/pkg/functions"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// All returns all extended string function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		StartsWith(),
		EndsWith(),
		Contains(),
		UpperCase(),
		LowerCase(),
		StringLength(),
		NormalizeSpace(),
		SubstringBefore(),
		SubstringAfter(),
		Words(),
		Repeat(),
	}
}

// predicate builds a two-argument string test.
func predicate(name string, fn func(s, sub string) bool) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: 2,
		MaxArgs: 2,
		Ret:     types.SeqBoolean,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String(name, args[0])
			if err != nil {
				return nil, err
			}
			sub, err := extutil.String(name, args[1])
			if err != nil {
				return nil, err
			}
			return value.Bln(fn(s, sub)), nil
		},
	}
}

// mapping builds a one-argument string to string function.
func mapping(name string, fn func(string) string) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Ret:     types.SeqString,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String(name, args[0])
			if err != nil {
				return nil, err
			}
			return value.Str(fn(s)), nil
		},
	}
}

// StartsWith returns the definition for starts-with($s, $prefix).
func StartsWith() functions.CustomFunctionDef {
	return predicate("starts-with", strings.HasPrefix)
}

// EndsWith returns the definition for ends-with($s, $suffix).
func EndsWith() functions.CustomFunctionDef {
	return predicate("ends-with", strings.HasSuffix)
}

// Contains returns the definition for contains($s, $sub).
func Contains() functions.CustomFunctionDef {
	return predicate("contains", strings.Contains)
}

// UpperCase returns the definition for upper-case($s).
func UpperCase() functions.CustomFunctionDef {
	return mapping("upper-case", strings.ToUpper)
}

// LowerCase returns the definition for lower-case($s).
func LowerCase() functions.CustomFunctionDef {
	return mapping("lower-case", strings.ToLower)
}

// NormalizeSpace returns the definition for normalize-space($s): leading and trailing
// whitespace is removed and inner runs collapse to one space.
func NormalizeSpace() functions.CustomFunctionDef {
	return mapping("normalize-space", func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	})
}

// StringLength returns the definition for string-length($s), counted in characters.
func StringLength() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "string-length",
		MinArgs: 1,
		MaxArgs: 1,
		Ret:     types.SeqInteger,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String("string-length", args[0])
			if err != nil {
				return nil, err
			}
			return value.Int(utf8.RuneCountInString(s)), nil
		},
	}
}

// SubstringBefore returns the definition for substring-before($s, $sep).
func SubstringBefore() functions.CustomFunctionDef {
	return mapping2("substring-before", func(s, sep string) string {
		before, _, ok := strings.Cut(s, sep)
		if !ok {
			return ""
		}
		return before
	})
}

// SubstringAfter returns the definition for substring-after($s, $sep).
func SubstringAfter() functions.CustomFunctionDef {
	return mapping2("substring-after", func(s, sep string) string {
		_, after, ok := strings.Cut(s, sep)
		if !ok {
			return ""
		}
		return after
	})
}

func mapping2(name string, fn func(s, arg string) string) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    name,
		MinArgs: 2,
		MaxArgs: 2,
		Ret:     types.SeqString,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String(name, args[0])
			if err != nil {
				return nil, err
			}
			arg, err := extutil.String(name, args[1])
			if err != nil {
				return nil, err
			}
			return value.Str(fn(s, arg)), nil
		},
	}
}

// Words returns the definition for words($s): the whitespace separated words of $s.
func Words() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "words",
		MinArgs: 1,
		MaxArgs: 1,
		Ret:     types.SeqType{Type: types.TypeString, Occ: types.OccZeroOrMore},
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String("words", args[0])
			if err != nil {
				return nil, err
			}
			return extutil.Strings(strings.Fields(s)), nil
		},
	}
}

// Repeat returns the definition for repeat($s, $count). A negative count is an error.
func Repeat() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "repeat",
		MinArgs: 2,
		MaxArgs: 2,
		Ret:     types.SeqString,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String("repeat", args[0])
			if err != nil {
				return nil, err
			}
			n, err := extutil.Int("repeat", args[1])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, types.Errorf(types.ErrInvalidArgument, -1, "repeat: negative count %d", n)
			}
			return value.Str(strings.Repeat(s, int(n))), nil
		},
	}
}
