package evaluator

import (
	"math"
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// --- Sequence Functions ---

func fnCount(qc *QueryContext, f *FunCall) (value.Item, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	return value.Int(v.Size()), nil
}

func fnEmpty(qc *QueryContext, f *FunCall) (value.Item, error) {
	ok, err := hasItems(qc, f.args[0])
	return value.Bln(!ok), err
}

func fnExists(qc *QueryContext, f *FunCall) (value.Item, error) {
	ok, err := hasItems(qc, f.args[0])
	return value.Bln(ok), err
}

// hasItems pulls at most one item from e.
func hasItems(qc *QueryContext, e Expr) (bool, error) {
	it, err := e.Iter(qc)
	if err != nil {
		return false, err
	}
	item, err := it.Next()
	return item != nil, err
}

func fnHead(qc *QueryContext, f *FunCall) (value.Item, error) {
	it, err := f.args[0].Iter(qc)
	if err != nil {
		return nil, err
	}
	return it.Next()
}

func fnTail(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	return value.IterOf(v.Remove(0)), nil
}

func fnReverse(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	return value.IterOf(v.Reverse()), nil
}

// fnInsertBefore inserts a sequence before the 1-based position. Positions below 1 insert at
// the start, positions past the end append.
func fnInsertBefore(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	pos, err := f.intArg(qc, 1)
	if err != nil {
		return nil, err
	}
	ins, err := f.valueArg(qc, 2)
	if err != nil {
		return nil, err
	}
	if ins.Size() > math.MaxInt64-v.Size() {
		return nil, types.Errorf(types.ErrInvalidArgument, f.args[2].Position(),
			"insert-before: result exceeds the maximum sequence size")
	}
	p := min(max(pos, 1)-1, v.Size())
	for i := int64(0); i < ins.Size(); i++ {
		v = v.Insert(p+i, ins.ItemAt(i))
	}
	return value.IterOf(v), nil
}

// fnRemove removes the item at the 1-based position. Out of range positions return the input.
func fnRemove(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	pos, err := f.intArg(qc, 1)
	if err != nil {
		return nil, err
	}
	if pos < 1 {
		return value.IterOf(v), nil
	}
	return value.IterOf(v.Remove(pos - 1)), nil
}

// fnSubsequence returns the items at the 1-based positions p with
// round(start) <= p < round(start) + round(length).
func fnSubsequence(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	start, err := f.numArg(qc, 1)
	if err != nil {
		return nil, err
	}
	end := math.Inf(1)
	if len(f.args) == 3 {
		length, err := f.numArg(qc, 2)
		if err != nil {
			return nil, err
		}
		end = roundHalfUp(start) + roundHalfUp(length)
	}
	start = roundHalfUp(start)
	if math.IsNaN(start) || math.IsNaN(end) {
		return value.EmptyIter(), nil
	}

	// Clamp in float space before converting to int64.
	size := float64(v.Size())
	if start > size || start >= maxIntDbl || end <= max(start, 1) {
		return value.EmptyIter(), nil
	}
	first := int64(max(start, 1)) - 1
	last := v.Size()
	if end <= size && end < maxIntDbl {
		last = int64(end) - 1
	}
	if s, ok := v.(*value.SingletonSeq); ok && s.Base().Size() == 1 {
		return value.IterOf(value.Replicate(s.Base(), last-first)), nil
	}
	b := value.NewBuilder(int(last - first))
	for i := first; i < last; i++ {
		b.Add(v.ItemAt(i))
	}
	return value.IterOf(b.Value()), nil
}

func roundHalfUp(d float64) float64 {
	return math.Floor(d + 0.5)
}

// fnReplicate repeats a sequence. The result is a compact repeated-value sequence.
func fnReplicate(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	n, err := f.intArg(qc, 1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, types.Errorf(types.ErrInvalidArgument, f.args[1].Position(),
			"replicate: negative count %d", n)
	}
	if n > value.MaxReps(v) {
		return nil, types.Errorf(types.ErrInvalidArgument, f.args[1].Position(),
			"replicate: %d repetitions of %d items exceed the maximum sequence size", n, v.Size())
	}
	return value.IterOf(value.Replicate(v, n)), nil
}

// --- Boolean Functions ---

func fnBoolean(qc *QueryContext, f *FunCall) (value.Item, error) {
	b, err := ebv(qc, f.args[0])
	return value.Bln(b), err
}

func fnNot(qc *QueryContext, f *FunCall) (value.Item, error) {
	b, err := ebv(qc, f.args[0])
	return value.Bln(!b), err
}

func fnTrue(*QueryContext, *FunCall) (value.Item, error) { return value.True, nil }

func fnFalse(*QueryContext, *FunCall) (value.Item, error) { return value.False, nil }

func ebv(qc *QueryContext, e Expr) (bool, error) {
	v, err := e.Value(qc)
	if err != nil {
		return false, err
	}
	b, err := v.EBV()
	if err != nil {
		return false, withPosition(err, e.Position())
	}
	return b, nil
}

// --- String Functions ---

func fnString(qc *QueryContext, f *FunCall) (value.Item, error) {
	item, err := f.itemArg(qc, 0)
	if err != nil || item == nil {
		return value.Str(""), err
	}
	s, err := item.Text()
	if err != nil {
		return nil, err
	}
	return value.Str(s), nil
}

func fnData(qc *QueryContext, f *FunCall) (value.Iter, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	atoms, err := v.AtomValue()
	if err != nil {
		return nil, err
	}
	return value.IterOf(atoms), nil
}

func fnConcat(qc *QueryContext, f *FunCall) (value.Item, error) {
	buf := acquireBuf()
	defer releaseBuf(buf)
	for i := range f.args {
		item, err := f.itemArg(qc, i)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		s, err := item.Text()
		if err != nil {
			return nil, err
		}
		buf.WriteString(s)
	}
	return value.Str(buf.String()), nil
}

func fnStringJoin(qc *QueryContext, f *FunCall) (value.Item, error) {
	v, err := f.valueArg(qc, 0)
	if err != nil {
		return nil, err
	}
	sep := ""
	if len(f.args) == 2 {
		if sep, _, err = f.optStrArg(qc, 1); err != nil {
			return nil, err
		}
	}
	parts := make([]string, 0, v.Size())
	for i := int64(0); i < v.Size(); i++ {
		s, err := v.ItemAt(i).Text()
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return value.Str(strings.Join(parts, sep)), nil
}

// --- Node Functions ---

func fnParseXML(qc *QueryContext, f *FunCall) (value.Item, error) {
	s, ok, err := f.optStrArg(qc, 0)
	if err != nil || !ok {
		return nil, err
	}
	doc, err := value.ParseFragmentString(s)
	if err != nil {
		return nil, types.Errorf(types.ErrInvalidXML, f.pos, "parse-xml: %v", err).WithCause(err)
	}
	return doc, nil
}
