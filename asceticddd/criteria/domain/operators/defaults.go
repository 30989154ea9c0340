package operators

import (
	"bytes"
	"cmp"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func registerOrdered[T cmp.Ordered](reg *Registry) {
	RegisterBinary[T, T](reg, OperatorGt, func(a, b T) bool { return a > b })
	RegisterBinary[T, T](reg, OperatorGte, func(a, b T) bool { return a >= b })
	RegisterBinary[T, T](reg, OperatorLt, func(a, b T) bool { return a < b })
	RegisterBinary[T, T](reg, OperatorLte, func(a, b T) bool { return a <= b })
}

func registerByCompare[L, R any](reg *Registry, compare func(L, R) int) {
	RegisterBinary[L, R](reg, OperatorGt, func(a L, b R) bool { return compare(a, b) > 0 })
	RegisterBinary[L, R](reg, OperatorGte, func(a L, b R) bool { return compare(a, b) >= 0 })
	RegisterBinary[L, R](reg, OperatorLt, func(a L, b R) bool { return compare(a, b) < 0 })
	RegisterBinary[L, R](reg, OperatorLte, func(a L, b R) bool { return compare(a, b) <= 0 })
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// uint64 only survives normalisation above MaxInt64.
func compareUintInt(a uint64, b int64) int {
	if b < 0 || a > math.MaxInt64 {
		return 1
	}
	return cmp.Compare(int64(a), b)
}

// NewDefaultRegistry creates a registry for the normalised scalar kinds,
// timestamps, durations, UUIDs and ULIDs, with native int/float promotion.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()

	registerOrdered[int64](reg)
	registerOrdered[uint64](reg)
	registerOrdered[float64](reg)
	registerOrdered[string](reg)

	// Mixed: native numeric promotion
	registerByCompare(reg, func(a int64, b float64) int { return cmp.Compare(float64(a), b) })
	registerByCompare(reg, func(a float64, b int64) int { return cmp.Compare(a, float64(b)) })
	registerByCompare(reg, func(a uint64, b float64) int { return cmp.Compare(float64(a), b) })
	registerByCompare(reg, func(a float64, b uint64) int { return cmp.Compare(a, float64(b)) })
	registerByCompare(reg, compareUintInt)
	registerByCompare(reg, func(a int64, b uint64) int { return -compareUintInt(b, a) })

	registerByCompare(reg, compareBool)
	registerByCompare(reg, func(a, b time.Time) int { return a.Compare(b) })
	registerByCompare(reg, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	registerByCompare(reg, func(a, b ulid.ULID) int { return a.Compare(b) })

	return reg
}
