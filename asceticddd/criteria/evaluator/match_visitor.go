package evaluator

import (
	"github.com/pkg/errors"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
)

// MatchVisitor narrows a candidate set by walking an expression tree. It
// carries the current candidates between visits, so one visitor serves one
// Match call at a time.
type MatchVisitor struct {
	accessor    *mapping.Accessor
	comparisons *ComparisonEvaluator
	current     []any
}

func NewMatchVisitor(accessor *mapping.Accessor, comparisons *ComparisonEvaluator) *MatchVisitor {
	return &MatchVisitor{
		accessor:    accessor,
		comparisons: comparisons,
	}
}

// Match returns the entities satisfying expr in input order. A nil
// expression matches everything.
func (v *MatchVisitor) Match(entities []any, expr criteria.Expression) ([]any, error) {
	if expr == nil {
		return entities, nil
	}
	v.current = entities
	defer func() { v.current = nil }()
	if err := v.visit(expr); err != nil {
		return nil, err
	}
	return v.current, nil
}

func (v *MatchVisitor) visit(expr criteria.Expression) error {
	switch expr.(type) {
	case criteria.ComparisonNode, criteria.CompositeNode, criteria.ValueNode:
		return expr.Accept(v)
	}
	return errors.Wrapf(criteria.ErrInvalidExpression, "unexpected node %T", expr)
}

func (v *MatchVisitor) VisitComparison(n criteria.ComparisonNode) error {
	if err := v.accessor.CheckField(n.Field()); err != nil {
		return err
	}
	predicate, err := v.comparisons.PredicateFor(n)
	if err != nil {
		return err
	}
	result := make([]any, 0, len(v.current))
	for _, entity := range v.current {
		value, err := v.accessor.ValueOf(entity, n.Field())
		if err != nil {
			return err
		}
		ok, err := predicate(value)
		if err != nil {
			return errors.Wrapf(err, "field %q", n.Field())
		}
		if ok {
			result = append(result, entity)
		}
	}
	v.current = result
	return nil
}

func (v *MatchVisitor) VisitComposite(n criteria.CompositeNode) error {
	switch n.Type() {
	case criteria.TypeAnd:
		for _, child := range n.Expressions() {
			if err := v.visit(child); err != nil {
				return err
			}
		}
		return nil

	case criteria.TypeOr:
		input := v.current
		matched := make(map[any]struct{})
		for _, child := range n.Expressions() {
			v.current = input
			if err := v.visit(child); err != nil {
				return err
			}
			for _, entity := range v.current {
				matched[entity] = struct{}{}
			}
		}
		result := make([]any, 0, len(matched))
		for _, entity := range input {
			if _, ok := matched[entity]; ok {
				result = append(result, entity)
				delete(matched, entity)
			}
		}
		v.current = result
		return nil
	}
	return errors.Wrapf(criteria.ErrInvalidExpression, "unknown composite type %q", n.Type())
}

func (v *MatchVisitor) VisitValue(n criteria.ValueNode) error {
	return errors.Wrapf(criteria.ErrInvalidExpression, "bare value %v in a where-expression", n.Value())
}
