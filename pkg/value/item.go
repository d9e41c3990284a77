package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
)

// Item is a single value: an atomic value or a node. Every item is also a Value of size 1.
type Item interface {
	Value
	// Equal reports whether other is the same item: same type and value for atomics, same node
	// for nodes.
	Equal(other Item) bool
	// Text returns the string value of the item.
	Text() (string, error)

	item()
}

// Str is an xs:string.
type Str string

// Atm is an xs:untypedAtomic, the result of atomizing most nodes.
type Atm string

// Int is an xs:integer.
type Int int64

// Dbl is an xs:double.
type Dbl float64

// Bln is an xs:boolean.
type Bln bool

var seqAtm = types.SeqType{Type: types.TypeUntypedAtomic, Occ: types.OccOne}

// True and False are the boolean items.
const (
	True  = Bln(true)
	False = Bln(false)
)

func (s Str) Size() int64                     { return 1 }
func (s Str) ItemAt(pos int64) Item           { return itemAt(s, pos) }
func (s Str) WriteTo(buf []Item, off int) int { return itemWriteTo(s, buf, off) }
func (s Str) Homogeneous() bool               { return true }
func (s Str) Materialize() error              { return nil }
func (s Str) AtomValue() (Value, error)       { return s, nil }
func (s Str) AtomSize() int64                 { return 1 }
func (s Str) EBV() (bool, error)              { return s != "", nil }
func (s Str) Insert(pos int64, it Item) Value { return itemInsert(s, pos, it) }
func (s Str) Remove(pos int64) Value          { return itemRemove(s, pos) }
func (s Str) Reverse() Value                  { return s }
func (s Str) Type() types.ItemType            { return types.TypeString }
func (s Str) SeqType() types.SeqType          { return types.SeqString }
func (s Str) String() string                  { return quote(string(s)) }
func (s Str) Text() (string, error)           { return string(s), nil }
func (s Str) Equal(o Item) bool               { x, ok := o.(Str); return ok && x == s }
func (Str) value()                            {}
func (Str) item()                             {}

func (a Atm) Size() int64                     { return 1 }
func (a Atm) ItemAt(pos int64) Item           { return itemAt(a, pos) }
func (a Atm) WriteTo(buf []Item, off int) int { return itemWriteTo(a, buf, off) }
func (a Atm) Homogeneous() bool               { return true }
func (a Atm) Materialize() error              { return nil }
func (a Atm) AtomValue() (Value, error)       { return a, nil }
func (a Atm) AtomSize() int64                 { return 1 }
func (a Atm) EBV() (bool, error)              { return a != "", nil }
func (a Atm) Insert(pos int64, it Item) Value { return itemInsert(a, pos, it) }
func (a Atm) Remove(pos int64) Value          { return itemRemove(a, pos) }
func (a Atm) Reverse() Value                  { return a }
func (a Atm) Type() types.ItemType            { return types.TypeUntypedAtomic }
func (a Atm) SeqType() types.SeqType          { return seqAtm }
func (a Atm) String() string                  { return quote(string(a)) }
func (a Atm) Text() (string, error)           { return string(a), nil }
func (a Atm) Equal(o Item) bool               { x, ok := o.(Atm); return ok && x == a }
func (Atm) value()                            {}
func (Atm) item()                             {}

func (i Int) Size() int64                     { return 1 }
func (i Int) ItemAt(pos int64) Item           { return itemAt(i, pos) }
func (i Int) WriteTo(buf []Item, off int) int { return itemWriteTo(i, buf, off) }
func (i Int) Homogeneous() bool               { return true }
func (i Int) Materialize() error              { return nil }
func (i Int) AtomValue() (Value, error)       { return i, nil }
func (i Int) AtomSize() int64                 { return 1 }
func (i Int) EBV() (bool, error)              { return i != 0, nil }
func (i Int) Insert(pos int64, it Item) Value { return itemInsert(i, pos, it) }
func (i Int) Remove(pos int64) Value          { return itemRemove(i, pos) }
func (i Int) Reverse() Value                  { return i }
func (i Int) Type() types.ItemType            { return types.TypeInteger }
func (i Int) SeqType() types.SeqType          { return types.SeqInteger }
func (i Int) String() string                  { return strconv.FormatInt(int64(i), 10) }
func (i Int) Text() (string, error)           { return strconv.FormatInt(int64(i), 10), nil }
func (i Int) Equal(o Item) bool               { x, ok := o.(Int); return ok && x == i }
func (Int) value()                            {}
func (Int) item()                             {}

func (d Dbl) Size() int64                     { return 1 }
func (d Dbl) ItemAt(pos int64) Item           { return itemAt(d, pos) }
func (d Dbl) WriteTo(buf []Item, off int) int { return itemWriteTo(d, buf, off) }
func (d Dbl) Homogeneous() bool               { return true }
func (d Dbl) Materialize() error              { return nil }
func (d Dbl) AtomValue() (Value, error)       { return d, nil }
func (d Dbl) AtomSize() int64                 { return 1 }
func (d Dbl) EBV() (bool, error)              { return d != 0 && !math.IsNaN(float64(d)), nil }
func (d Dbl) Insert(pos int64, it Item) Value { return itemInsert(d, pos, it) }
func (d Dbl) Remove(pos int64) Value          { return itemRemove(d, pos) }
func (d Dbl) Reverse() Value                  { return d }
func (d Dbl) Type() types.ItemType            { return types.TypeDouble }
func (d Dbl) SeqType() types.SeqType          { return types.SeqDouble }
func (d Dbl) String() string                  { return FormatDouble(float64(d)) }
func (d Dbl) Text() (string, error)           { return FormatDouble(float64(d)), nil }
func (d Dbl) Equal(o Item) bool               { x, ok := o.(Dbl); return ok && x == d }
func (Dbl) value()                            {}
func (Dbl) item()                             {}

func (b Bln) Size() int64                     { return 1 }
func (b Bln) ItemAt(pos int64) Item           { return itemAt(b, pos) }
func (b Bln) WriteTo(buf []Item, off int) int { return itemWriteTo(b, buf, off) }
func (b Bln) Homogeneous() bool               { return true }
func (b Bln) Materialize() error              { return nil }
func (b Bln) AtomValue() (Value, error)       { return b, nil }
func (b Bln) AtomSize() int64                 { return 1 }
func (b Bln) EBV() (bool, error)              { return bool(b), nil }
func (b Bln) Insert(pos int64, it Item) Value { return itemInsert(b, pos, it) }
func (b Bln) Remove(pos int64) Value          { return itemRemove(b, pos) }
func (b Bln) Reverse() Value                  { return b }
func (b Bln) Type() types.ItemType            { return types.TypeBoolean }
func (b Bln) SeqType() types.SeqType          { return types.SeqBoolean }
func (b Bln) String() string                  { return strconv.FormatBool(bool(b)) + "()" }
func (b Bln) Text() (string, error)           { return strconv.FormatBool(bool(b)), nil }
func (b Bln) Equal(o Item) bool               { x, ok := o.(Bln); return ok && x == b }
func (Bln) value()                            {}
func (Bln) item()                             {}

// FormatDouble returns the canonical lexical form of an xs:double.
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	if a := math.Abs(f); a == 0 || (a >= 1e-6 && a < 1e6) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'E', -1, 64), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}
	return mant + "E" + sign + strings.TrimLeft(exp[1:], "0")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func itemAt(it Item, pos int64) Item {
	if pos != 0 {
		panic(fmt.Sprintf("value: index %d out of range [0:1]", pos))
	}
	return it
}

func itemWriteTo(it Item, buf []Item, off int) int {
	if off < 0 || off >= len(buf) {
		return 0
	}
	buf[off] = it
	return 1
}

func itemInsert(it Item, pos int64, x Item) Value {
	if it.Equal(x) {
		return Replicate(it, 2)
	}
	b := NewBuilder(2)
	if pos <= 0 {
		b.Add(x).Add(it)
	} else {
		b.Add(it).Add(x)
	}
	return b.Value()
}

func itemRemove(it Item, pos int64) Value {
	if pos != 0 {
		return it
	}
	return Empty
}
