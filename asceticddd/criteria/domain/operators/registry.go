package operators

import (
	"errors"
	"reflect"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

var ErrIncomparable = errors.New("operators: values are not comparable")

type BinaryOp func(left, right any) bool

type binaryKey struct {
	left  reflect.Type
	op    Operator
	right reflect.Type
}

// Registry resolves ordered comparisons by the dynamic types of both
// operands. Operands are normalised before lookup, so registrations only
// need int64, uint64, float64, string and bool among the scalar kinds.
type Registry struct {
	mu     sync.RWMutex
	binary map[binaryKey]BinaryOp
}

func NewRegistry() *Registry {
	return &Registry{
		binary: make(map[binaryKey]BinaryOp),
	}
}

func RegisterBinary[L, R any](reg *Registry, op Operator, fn func(L, R) bool) {
	var zeroL L
	var zeroR R
	key := binaryKey{
		left:  reflect.TypeOf(zeroL),
		op:    op,
		right: reflect.TypeOf(zeroR),
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.binary[key] = func(left, right any) bool {
		return fn(left.(L), right.(R))
	}
}

// ExecBinary applies op to the operands. A nil operand never satisfies an
// ordered comparison. EQ and NEQ follow Equal.
func (r *Registry) ExecBinary(left any, op Operator, right any) (bool, error) {
	switch op {
	case OperatorEq:
		return Equal(left, right), nil
	case OperatorNeq:
		return !Equal(left, right), nil
	}
	if !op.IsOrdered() {
		return false, pkgerrors.Wrapf(ErrIncomparable, "operator %q is not an ordered comparison", op)
	}
	left, right = Normalize(left), Normalize(right)
	if left == nil || right == nil {
		return false, nil
	}
	fn, err := r.lookupBinary(left, op, right)
	if err != nil {
		return false, err
	}
	return fn(left, right), nil
}

// Compare is a three-way comparison for sorting. nil sorts before any value.
// Values that are neither less nor greater compare as 0, so 30 and 30.0 tie.
func (r *Registry) Compare(a, b any) (int, error) {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, nil
		case a == nil:
			return -1, nil
		default:
			return 1, nil
		}
	}
	less, err := r.ExecBinary(a, OperatorLt, b)
	if err != nil {
		return 0, err
	}
	if less {
		return -1, nil
	}
	greater, err := r.ExecBinary(a, OperatorGt, b)
	if err != nil {
		return 0, err
	}
	if greater {
		return 1, nil
	}
	return 0, nil
}

func (r *Registry) lookupBinary(left any, op Operator, right any) (BinaryOp, error) {
	key := binaryKey{
		left:  reflect.TypeOf(left),
		op:    op,
		right: reflect.TypeOf(right),
	}
	r.mu.RLock()
	fn, ok := r.binary[key]
	r.mu.RUnlock()
	if ok {
		return fn, nil
	}
	if key.left == key.right {
		if fn := interfaceFallback(left, op); fn != nil {
			return fn, nil
		}
	}
	return nil, pkgerrors.Wrapf(ErrIncomparable, "operator %q is not supported for %T and %T", op, left, right)
}

func interfaceFallback(left any, op Operator) BinaryOp {
	switch op {
	case OperatorGt:
		if _, ok := left.(GreaterThanOperand); ok {
			return func(left, right any) bool {
				return left.(GreaterThanOperand).GreaterThan(right.(GreaterThanOperand))
			}
		}
	case OperatorGte:
		if _, ok := left.(GreaterThanEqualOperand); ok {
			return func(left, right any) bool {
				return left.(GreaterThanEqualOperand).GreaterThanEqual(right.(GreaterThanEqualOperand))
			}
		}
	case OperatorLt:
		if _, ok := left.(LessThanOperand); ok {
			return func(left, right any) bool {
				return left.(LessThanOperand).LessThan(right.(LessThanOperand))
			}
		}
	case OperatorLte:
		if _, ok := left.(LessThanEqualOperand); ok {
			return func(left, right any) bool {
				return left.(LessThanEqualOperand).LessThanEqual(right.(LessThanEqualOperand))
			}
		}
	}
	return nil
}
