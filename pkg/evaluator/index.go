package evaluator

import (
	"fmt"
	"strings"

	"github.com/sandrolain/goxq/pkg/storage"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// indexKinds maps the lower-cased index names accepted by index() to index kinds.
var indexKinds = map[string]storage.IndexKind{
	"text":      storage.IndexText,
	"attribute": storage.IndexAttribute,
	"fulltext":  storage.IndexFullText,
}

var seqTexts = types.SeqType{Type: types.TypeText, Occ: types.OccZeroOrMore}

// compileIndex replaces index($term, $kind) with an index access when $kind is a literal.
func compileIndex(qc *QueryContext, f *FunCall) (Expr, error) {
	lit, ok := f.args[1].(*Literal)
	if !ok {
		return f, nil
	}
	kind, err := lit.Item(qc)
	if err != nil {
		return nil, err
	}
	if kind == nil {
		return nil, types.Errorf(types.ErrType, lit.pos, "index: xs:string expected, empty sequence found")
	}
	name, err := kind.Text()
	if err != nil {
		return nil, err
	}
	if qc.data == nil {
		// Without a database only the kind can be checked; availability is checked on evaluation.
		if _, err := indexKind(f, name); err != nil {
			return nil, err
		}
		return f, nil
	}
	access, err := resolveIndex(qc, f, name)
	if err != nil {
		return nil, err
	}
	qc.debug("index rewrite", "call", f.String(), "access", access.String())
	return access, nil
}

// fnIndex resolves the index kind at evaluation time.
func fnIndex(qc *QueryContext, f *FunCall) (value.Iter, error) {
	name, err := f.strArg(qc, 1)
	if err != nil {
		return nil, err
	}
	access, err := resolveIndex(qc, f, name)
	if err != nil {
		return nil, err
	}
	return access.Iter(qc)
}

// resolveIndex validates the requested index against the ambient database and returns the
// access expression.
func resolveIndex(qc *QueryContext, f *FunCall, name string) (Expr, error) {
	kind, err := indexKind(f, name)
	if err != nil {
		return nil, err
	}
	if qc.data == nil {
		return nil, types.Errorf(types.ErrNoContext, f.pos, "index: no database opened")
	}
	if !qc.data.Meta().HasIndex(kind) {
		return nil, types.Errorf(types.ErrIndexNotBuilt, f.pos,
			"%s index not available in database %q", kind, qc.data.Name()).WithToken(kind.String())
	}
	if kind == storage.IndexFullText {
		return &FTIndexAccess{term: f.args[0], pos: f.pos}, nil
	}
	return &IndexAccess{term: f.args[0], kind: kind, pos: f.pos}, nil
}

// IndexAccess streams the nodes whose text or attribute value equals the search term.
type IndexAccess struct {
	term Expr
	kind storage.IndexKind
	pos  int
}

// Kind returns the scanned index.
func (ia *IndexAccess) Kind() storage.IndexKind { return ia.kind }

func (ia *IndexAccess) Compile(*QueryContext) (Expr, error) { return ia, nil }

func (ia *IndexAccess) Iter(qc *QueryContext) (value.Iter, error) {
	term, ok, err := indexTerm(qc, ia.term)
	if err != nil || !ok {
		return value.EmptyIter(), err
	}
	return lookup(qc, ia.kind, term)
}

func (ia *IndexAccess) Value(qc *QueryContext) (value.Value, error) { return iterValue(ia, qc) }
func (ia *IndexAccess) Item(qc *QueryContext) (value.Item, error)   { return iterItem(ia, qc) }
func (ia *IndexAccess) Uses(u Use) bool                             { return u == UseContext || ia.term.Uses(u) }
func (ia *IndexAccess) Position() int                               { return ia.pos }

func (ia *IndexAccess) SeqType() types.SeqType {
	if ia.kind == storage.IndexAttribute {
		return types.SeqType{Type: types.TypeAttribute, Occ: types.OccZeroOrMore}
	}
	return seqTexts
}

func (ia *IndexAccess) String() string {
	return fmt.Sprintf("index-access(%s, %s)", ia.term, ia.kind)
}

// FTIndexAccess streams the text nodes containing every token of the search term.
type FTIndexAccess struct {
	term Expr
	pos  int
}

func (fa *FTIndexAccess) Compile(*QueryContext) (Expr, error) { return fa, nil }

func (fa *FTIndexAccess) Iter(qc *QueryContext) (value.Iter, error) {
	term, ok, err := indexTerm(qc, fa.term)
	if err != nil || !ok {
		return value.EmptyIter(), err
	}
	tokens := storage.Tokenize(term)
	if len(tokens) == 0 {
		return value.EmptyIter(), nil
	}
	return lookup(qc, storage.IndexFullText, tokens...)
}

func (fa *FTIndexAccess) Value(qc *QueryContext) (value.Value, error) { return iterValue(fa, qc) }
func (fa *FTIndexAccess) Item(qc *QueryContext) (value.Item, error)   { return iterItem(fa, qc) }
func (fa *FTIndexAccess) Uses(u Use) bool                             { return u == UseContext || fa.term.Uses(u) }
func (fa *FTIndexAccess) Position() int                               { return fa.pos }
func (fa *FTIndexAccess) SeqType() types.SeqType                      { return seqTexts }
func (fa *FTIndexAccess) String() string                              { return fmt.Sprintf("ft-index-access(%s)", fa.term) }

// indexKind parses an index kind name. Names are matched case-insensitively.
func indexKind(f *FunCall, name string) (storage.IndexKind, error) {
	kind, ok := indexKinds[strings.ToLower(name)]
	if !ok {
		return 0, types.Errorf(types.ErrUnknownIndexKind, f.args[1].Position(),
			"unknown index kind %q", name).WithToken(name)
	}
	return kind, nil
}

func indexTerm(qc *QueryContext, e Expr) (string, bool, error) {
	item, err := e.Item(qc)
	if err != nil || item == nil {
		return "", false, err
	}
	s, err := item.Text()
	return s, err == nil, err
}

// lookup scans an index of the ambient database and yields database nodes.
func lookup(qc *QueryContext, kind storage.IndexKind, tokens ...string) (value.Iter, error) {
	data := qc.data
	if data == nil {
		return nil, types.NewError(types.ErrNoContext, "index: no database opened", -1)
	}
	qc.ev.metrics.IndexAccess(kind.String())
	ids := data.Lookup(kind, tokens...)
	return value.IterFunc(func() (value.Item, error) {
		pre, ok := ids.Next()
		if !ok {
			return nil, nil
		}
		return value.NewDBNode(data, pre), nil
	}), nil
}
