package evaluator

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain/operators"
)

// Predicate tests the value an entity holds for the compared field.
type Predicate func(value any) (bool, error)

type ComparisonEvaluator struct {
	registry *operators.Registry
}

func NewComparisonEvaluator(registry *operators.Registry) *ComparisonEvaluator {
	return &ComparisonEvaluator{registry: registry}
}

// PredicateFor compiles a comparison once so that it can be applied to every
// candidate. Malformed literals are reported here, before any entity is read.
func (e *ComparisonEvaluator) PredicateFor(n criteria.ComparisonNode) (Predicate, error) {
	literal := n.Value().Value()
	switch op := n.Operator(); op {
	case operators.OperatorEq, operators.OperatorNeq,
		operators.OperatorGt, operators.OperatorGte, operators.OperatorLt, operators.OperatorLte:
		return func(value any) (bool, error) {
			return e.registry.ExecBinary(value, op, literal)
		}, nil

	case operators.OperatorIn, operators.OperatorNotIn:
		list, err := listOf(n)
		if err != nil {
			return nil, err
		}
		negate := op == operators.OperatorNotIn
		return func(value any) (bool, error) {
			for _, item := range list {
				if operators.Identical(value, item) {
					return !negate, nil
				}
			}
			return negate, nil
		}, nil

	case operators.OperatorContains, operators.OperatorStartsWith, operators.OperatorEndsWith:
		needle, ok := operators.Normalize(literal).(string)
		if !ok {
			return nil, errors.Wrapf(criteria.ErrInvalidExpression, "%s on %q expects a string, %T given", op, n.Field(), literal)
		}
		test := map[operators.Operator]func(string, string) bool{
			operators.OperatorContains:   strings.Contains,
			operators.OperatorStartsWith: strings.HasPrefix,
			operators.OperatorEndsWith:   strings.HasSuffix,
		}[op]
		return func(value any) (bool, error) {
			s, ok := operators.Normalize(value).(string)
			return ok && test(s, needle), nil
		}, nil
	}
	return nil, errors.Wrapf(criteria.ErrUnsupportedOperator, "%q on field %q", n.Operator(), n.Field())
}

func listOf(n criteria.ComparisonNode) ([]any, error) {
	literal := n.Value().Value()
	v := reflect.ValueOf(literal)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, errors.Wrapf(criteria.ErrInvalidExpression, "%s on %q expects a list, %T given", n.Operator(), n.Field(), literal)
	}
	list := make([]any, v.Len())
	for i := range list {
		list[i] = v.Index(i).Interface()
	}
	return list, nil
}
