package repository

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/evaluator"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
)

// Repository is the managed set of one entity type. Entities are pointers to
// the mapped struct and are told apart by identity, never by their id value.
type Repository struct {
	metadata  *mapping.ClassMetadata
	evaluator *evaluator.CriteriaEvaluator
	idField   string

	mu       sync.RWMutex
	entities []any
	managed  map[any]struct{}
}

func New(e *evaluator.CriteriaEvaluator) (*Repository, error) {
	m := e.Accessor().Metadata()
	idField, ok := m.Identifier()
	if !ok {
		return nil, errors.Wrapf(mapping.ErrNoIdentifierField, "cannot build a repository for %s", m.Name())
	}
	return &Repository{
		metadata:  m,
		evaluator: e,
		idField:   idField,
		managed:   make(map[any]struct{}),
	}, nil
}

func (r *Repository) Metadata() *mapping.ClassMetadata {
	return r.metadata
}

// Accessor reads and writes the fields of managed entities.
func (r *Repository) Accessor() *mapping.Accessor {
	return r.evaluator.Accessor()
}

func (r *Repository) ClassName() string {
	return r.metadata.Name()
}

// Type is the struct type; managed entities are pointers to it.
func (r *Repository) Type() reflect.Type {
	return r.metadata.Type()
}

func (r *Repository) IdField() string {
	return r.idField
}

func (r *Repository) IdType() mapping.TypeHint {
	return r.metadata.TypeOfField(r.idField)
}

func (r *Repository) IsIdGenerated() bool {
	return r.metadata.UsesIdGenerator()
}

// Manage adds entity to the managed set. Managing the same pointer twice is a
// no-op.
func (r *Repository) Manage(entity any) error {
	if !r.evaluator.Accessor().Accepts(entity) {
		return errors.Wrapf(mapping.ErrTypeMismatch, "repository of %s cannot manage %T", r.ClassName(), entity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.managed[entity]; ok {
		return nil
	}
	r.managed[entity] = struct{}{}
	r.entities = append(r.entities, entity)
	return nil
}

// Remove drops entity from the managed set; unknown entities are ignored.
func (r *Repository) Remove(entity any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isManaged(entity) {
		return
	}
	delete(r.managed, entity)
	for i, e := range r.entities {
		if e == entity {
			r.entities = append(r.entities[:i], r.entities[i+1:]...)
			break
		}
	}
}

func (r *Repository) Contains(entity any) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isManaged(entity)
}

func (r *Repository) isManaged(entity any) bool {
	if !r.evaluator.Accessor().Accepts(entity) {
		return false
	}
	_, ok := r.managed[entity]
	return ok
}

// Entities returns the managed entities in the order they were managed.
func (r *Repository) Entities() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]any(nil), r.entities...)
}

func (r *Repository) Find(id any) (option.Option[any], error) {
	return r.FindOneBy(map[string]any{r.idField: id})
}

// FindBy matches every where entry: list values as IN, everything else as
// equality.
func (r *Repository) FindBy(where map[string]any, opts ...FindOption) ([]any, error) {
	c, err := buildCriteria(where, opts...)
	if err != nil {
		return nil, err
	}
	return r.Matching(c)
}

func (r *Repository) FindOneBy(where map[string]any, opts ...FindOption) (option.Option[any], error) {
	opts = append(opts[:len(opts):len(opts)], Limit(1))
	result, err := r.FindBy(where, opts...)
	if err != nil {
		return option.Nothing[any](), err
	}
	return option.First(result), nil
}

func (r *Repository) FindAll() ([]any, error) {
	return r.FindBy(nil)
}

// Matching evaluates a prebuilt Criteria, for queries beyond plain equality.
func (r *Repository) Matching(c criteria.Criteria) ([]any, error) {
	return r.evaluator.Evaluate(r.Entities(), c)
}

// Count is the number of entities matching where. It never paginates.
func (r *Repository) Count(where map[string]any) (int, error) {
	c, err := buildCriteria(where)
	if err != nil {
		return 0, err
	}
	return r.evaluator.Count(r.Entities(), c)
}

func buildCriteria(where map[string]any, opts ...FindOption) (criteria.Criteria, error) {
	o := findOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	orderings := make([]criteria.Ordering, 0, len(o.orderBy))
	for _, spec := range o.orderBy {
		direction, err := criteria.ParseDirection(spec.direction)
		if err != nil {
			return criteria.Criteria{}, errors.Wrapf(err, "ordering by %q", spec.field)
		}
		orderings = append(orderings, criteria.Ordering{Field: spec.field, Direction: direction})
	}

	c := criteria.New().OrderBy(orderings...)
	if len(where) > 0 {
		fields := make([]string, 0, len(where))
		for field := range where {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		expressions := make([]criteria.Expression, len(fields))
		for i, field := range fields {
			expressions[i] = comparisonFor(field, where[field])
		}
		c = c.Where(criteria.AndX(expressions...))
	}
	if offset, ok := o.offset.Get(); ok {
		c = c.WithFirstResult(offset)
	}
	if limit, ok := o.limit.Get(); ok {
		c = c.WithMaxResults(limit)
	}
	return c, nil
}

// Byte slices and byte arrays such as uuid.UUID and ulid.ULID are scalars.
func comparisonFor(field string, value any) criteria.ComparisonNode {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return criteria.In(field, value)
		}
	}
	return criteria.Eq(field, value)
}
