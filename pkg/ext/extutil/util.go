// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"math"
	"strconv"
	"strings"

	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// String returns the string value of an argument holding at most one item. The empty sequence
// yields "".
func String(fn string, v value.Value) (string, error) {
	switch v.Size() {
	case 0:
		return "", nil
	case 1:
		return v.ItemAt(0).Text()
	}
	return "", types.Errorf(types.ErrType, -1, "%s: single item expected, %d items found", fn, v.Size())
}

// Int returns an integer argument. Integral doubles and untyped values are accepted.
func Int(fn string, v value.Value) (int64, error) {
	if v.Size() != 1 {
		return 0, types.Errorf(types.ErrType, -1, "%s: xs:integer expected, %d items found", fn, v.Size())
	}
	switch x := v.ItemAt(0).(type) {
	case value.Int:
		return int64(x), nil
	case value.Dbl:
		if d := float64(x); math.Abs(d) < 1<<63 && d == math.Trunc(d) {
			return int64(d), nil
		}
	default:
		s, err := x.Text()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, types.Errorf(types.ErrInvalidArgument, -1, "%s: cannot convert %s to xs:integer", fn, v)
}

// Strings returns a new string sequence.
func Strings(ss []string) value.Value {
	b := value.NewBuilder(len(ss))
	for _, s := range ss {
		b.Add(value.Str(s))
	}
	return b.Value()
}
