package operators

import (
	"math"
	"reflect"
)

// Normalize folds Go's numeric and named scalar types onto one type per
// kind: signed integers become int64, unsigned integers become int64 when
// they fit (uint64 otherwise), floats become float64, ~string becomes string
// and ~bool becomes bool. Value objects implementing an operand interface are
// left alone so their methods stay reachable. Nullable pgtype values are
// replaced by their payload, or nil when not valid.
func Normalize(value any) any {
	if inner, ok := unwrapNullable(value); ok {
		value = inner
	}
	if value == nil {
		return nil
	}
	switch value.(type) {
	case EqualOperand, LessThanOperand, GreaterThanOperand,
		LessThanEqualOperand, GreaterThanEqualOperand:
		return value
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u <= math.MaxInt64 {
			return int64(u)
		}
		return u
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	}
	return value
}

// IsInteger reports whether a normalised value is an integer.
func IsInteger(value any) bool {
	switch value.(type) {
	case int64, uint64:
		return true
	}
	return false
}
