package operators

import (
	"reflect"
	"time"
)

// Identical is strict value and type equality on normalised values: 30 and
// 30.0 are different, int and int32 holding 30 are the same.
func Identical(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	switch x := a.(type) {
	case time.Time:
		return x.Equal(b.(time.Time))
	case EqualOperand:
		return x.Equal(b.(EqualOperand))
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// Equal is Identical plus one coercion: a float entity value equals an
// integer literal holding the same number. The reverse is never coerced.
func Equal(entityValue, literal any) bool {
	v, c := Normalize(entityValue), Normalize(literal)
	if f, ok := v.(float64); ok {
		switch n := c.(type) {
		case int64:
			return f == float64(n)
		case uint64:
			return f == float64(n)
		}
	}
	return Identical(v, c)
}
