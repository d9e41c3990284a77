package evaluator

import (
	"strings"
	"sync"

	"github.com/sandrolain/goxq/pkg/types"
)

var (
	builtinFunctions     map[string]*FunDef
	builtinFunctionsOnce sync.Once
)

var (
	seqDocument = types.SeqType{Type: types.TypeDocument, Occ: types.OccZeroOrOne}
	seqDBNode   = types.SeqType{Type: types.TypeNode, Occ: types.OccOne}
	seqItemOne  = types.SeqType{Type: types.TypeItem, Occ: types.OccOne}
)

// initBuiltinFunctions initializes the built-in function registry.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		defs := []*FunDef{
			// Database and query functions
			{Name: "read", MinArgs: 1, MaxArgs: 1, Ret: types.SeqString, item: fnRead},
			{Name: "eval", MinArgs: 1, MaxArgs: 1, Ret: types.SeqItems, Flags: FlagNondeterministic, iter: fnEval},
			{Name: "run", MinArgs: 1, MaxArgs: 1, Ret: types.SeqItems, Flags: FlagNondeterministic, iter: fnRun},
			{Name: "random", MinArgs: 0, MaxArgs: 0, Ret: types.SeqDouble, Flags: FlagContext | FlagNondeterministic, item: fnRandom},
			{Name: "db", MinArgs: 1, MaxArgs: 2, Ret: seqDBNode, item: fnDB},
			{Name: "node-id", MinArgs: 1, MaxArgs: 1, Ret: types.SeqInteger, item: fnNodeID},
			{Name: "fs-path", MinArgs: 1, MaxArgs: 1, Ret: types.SeqString, item: fnFSPath},
			{Name: "index", MinArgs: 2, MaxArgs: 2, Ret: types.SeqNodes, Flags: FlagContext, iter: fnIndex, compile: compileIndex},

			// Sequence functions
			{Name: "count", MinArgs: 1, MaxArgs: 1, Ret: types.SeqInteger, item: fnCount},
			{Name: "empty", MinArgs: 1, MaxArgs: 1, Ret: types.SeqBoolean, item: fnEmpty},
			{Name: "exists", MinArgs: 1, MaxArgs: 1, Ret: types.SeqBoolean, item: fnExists},
			{Name: "head", MinArgs: 1, MaxArgs: 1, Ret: types.SeqItemOpt, item: fnHead},
			{Name: "tail", MinArgs: 1, MaxArgs: 1, Ret: types.SeqItems, iter: fnTail},
			{Name: "reverse", MinArgs: 1, MaxArgs: 1, Ret: types.SeqItems, iter: fnReverse},
			{Name: "insert-before", MinArgs: 3, MaxArgs: 3, Ret: types.SeqItems, iter: fnInsertBefore},
			{Name: "remove", MinArgs: 2, MaxArgs: 2, Ret: types.SeqItems, iter: fnRemove},
			{Name: "subsequence", MinArgs: 2, MaxArgs: 3, Ret: types.SeqItems, iter: fnSubsequence},
			{Name: "replicate", MinArgs: 2, MaxArgs: 2, Ret: types.SeqItems, iter: fnReplicate},

			// Boolean functions
			{Name: "boolean", MinArgs: 1, MaxArgs: 1, Ret: types.SeqBoolean, item: fnBoolean},
			{Name: "not", MinArgs: 1, MaxArgs: 1, Ret: types.SeqBoolean, item: fnNot},
			{Name: "true", MinArgs: 0, MaxArgs: 0, Ret: types.SeqBoolean, item: fnTrue},
			{Name: "false", MinArgs: 0, MaxArgs: 0, Ret: types.SeqBoolean, item: fnFalse},

			// String functions
			{Name: "string", MinArgs: 0, MaxArgs: 1, Ret: types.SeqString, AcceptsContext: true, item: fnString},
			{Name: "data", MinArgs: 0, MaxArgs: 1, Ret: types.SeqAtomics, AcceptsContext: true, iter: fnData},
			{Name: "concat", MinArgs: 2, MaxArgs: -1, Ret: types.SeqString, item: fnConcat},
			{Name: "string-join", MinArgs: 1, MaxArgs: 2, Ret: types.SeqString, item: fnStringJoin},

			// Node functions
			{Name: "parse-xml", MinArgs: 1, MaxArgs: 1, Ret: seqDocument, item: fnParseXML},
		}
		builtinFunctions = make(map[string]*FunDef, len(defs))
		for _, d := range defs {
			builtinFunctions[d.Name] = d
		}
	})
}

// functionPrefixes are accepted in front of built-in function names.
var functionPrefixes = []string{"fn:", "basex:"}

// GetFunction retrieves a built-in function by name. The "fn:" and "basex:" prefixes are
// accepted.
func GetFunction(name string) (*FunDef, bool) {
	initBuiltinFunctions()
	for _, p := range functionPrefixes {
		if trimmed, ok := strings.CutPrefix(name, p); ok {
			name = trimmed
			break
		}
	}
	fn, ok := builtinFunctions[name]
	return fn, ok
}

// builtinNames returns the names of all built-in functions.
func builtinNames() []string {
	initBuiltinFunctions()
	names := make([]string, 0, len(builtinFunctions))
	for n := range builtinFunctions {
		names = append(names, n)
	}
	return names
}
