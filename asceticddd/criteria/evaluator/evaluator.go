package evaluator

import (
	"sort"

	"github.com/pkg/errors"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain/operators"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
)

// CriteriaEvaluator runs filter, sort, offset and limit over the entities of
// one type. It keeps no state between calls.
type CriteriaEvaluator struct {
	accessor    *mapping.Accessor
	registry    *operators.Registry
	comparisons *ComparisonEvaluator
}

func NewCriteriaEvaluator(accessor *mapping.Accessor, registry *operators.Registry) *CriteriaEvaluator {
	return &CriteriaEvaluator{
		accessor:    accessor,
		registry:    registry,
		comparisons: NewComparisonEvaluator(registry),
	}
}

func (e *CriteriaEvaluator) Accessor() *mapping.Accessor {
	return e.accessor
}

// Match filters entities by a where-expression alone.
func (e *CriteriaEvaluator) Match(entities []any, expr criteria.Expression) ([]any, error) {
	return NewMatchVisitor(e.accessor, e.comparisons).Match(entities, expr)
}

// Evaluate returns a freshly allocated slice; the input is never reordered.
func (e *CriteriaEvaluator) Evaluate(entities []any, c criteria.Criteria) ([]any, error) {
	matched, err := e.Match(entities, c.WhereExpression())
	if err != nil {
		return nil, err
	}
	orderings := c.Orderings()
	if err := e.checkOrderings(orderings); err != nil {
		return nil, err
	}
	result := make([]any, len(matched))
	copy(result, matched)
	if len(orderings) > 0 {
		if result, err = e.sort(result, orderings); err != nil {
			return nil, err
		}
	}
	if first := c.FirstResult().UnwrapOrZero(); first > 0 {
		if first >= len(result) {
			return []any{}, nil
		}
		result = result[first:]
	}
	if limit := c.MaxResults().UnwrapOrZero(); limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return append([]any{}, result...), nil
}

// Count is the number of entities matching the where-expression. Orderings
// and the result window are ignored.
func (e *CriteriaEvaluator) Count(entities []any, c criteria.Criteria) (int, error) {
	matched, err := e.Match(entities, c.WhereExpression())
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (e *CriteriaEvaluator) checkOrderings(orderings []criteria.Ordering) error {
	for _, o := range orderings {
		if err := e.accessor.CheckField(o.Field); err != nil {
			return err
		}
		if !o.Direction.Valid() {
			return errors.Wrapf(criteria.ErrInvalidSortDirection, "%q on field %q", o.Direction, o.Field)
		}
	}
	return nil
}

type sortable struct {
	entity any
	keys   []any
}

func (e *CriteriaEvaluator) sort(entities []any, orderings []criteria.Ordering) ([]any, error) {
	items := make([]sortable, len(entities))
	for i, entity := range entities {
		keys := make([]any, len(orderings))
		for k, o := range orderings {
			value, err := e.accessor.ValueOf(entity, o.Field)
			if err != nil {
				return nil, err
			}
			keys[k] = value
		}
		items[i] = sortable{entity: entity, keys: keys}
	}

	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for k, o := range orderings {
			c, err := e.registry.Compare(items[i].keys[k], items[j].keys[k])
			if err != nil {
				sortErr = errors.Wrapf(err, "sorting by %q", o.Field)
				return false
			}
			if c == 0 {
				continue
			}
			if o.Direction == criteria.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}

	for i, item := range items {
		entities[i] = item.entity
	}
	return entities, nil
}
