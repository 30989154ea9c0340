package repository

import (
	"reflect"

	"github.com/pkg/errors"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
)

// Typed is a Repository of *T.
type Typed[T any] struct {
	repo *Repository
}

func NewTyped[T any](repo *Repository) (*Typed[T], error) {
	if typ := reflect.TypeOf((*T)(nil)).Elem(); typ != repo.Type() {
		return nil, errors.Wrapf(mapping.ErrTypeMismatch, "repository of %s is not a repository of %s", repo.ClassName(), typ)
	}
	return &Typed[T]{repo: repo}, nil
}

func (r *Typed[T]) Untyped() *Repository {
	return r.repo
}

func (r *Typed[T]) Manage(entity *T) error {
	return r.repo.Manage(entity)
}

func (r *Typed[T]) Remove(entity *T) {
	r.repo.Remove(entity)
}

func (r *Typed[T]) Find(id any) (option.Option[*T], error) {
	found, err := r.repo.Find(id)
	return optionOf[T](found), err
}

func (r *Typed[T]) FindBy(where map[string]any, opts ...FindOption) ([]*T, error) {
	result, err := r.repo.FindBy(where, opts...)
	return sliceOf[T](result), err
}

func (r *Typed[T]) FindOneBy(where map[string]any, opts ...FindOption) (option.Option[*T], error) {
	found, err := r.repo.FindOneBy(where, opts...)
	return optionOf[T](found), err
}

func (r *Typed[T]) FindAll() ([]*T, error) {
	result, err := r.repo.FindAll()
	return sliceOf[T](result), err
}

func (r *Typed[T]) Matching(c criteria.Criteria) ([]*T, error) {
	result, err := r.repo.Matching(c)
	return sliceOf[T](result), err
}

func (r *Typed[T]) Count(where map[string]any) (int, error) {
	return r.repo.Count(where)
}

func sliceOf[T any](entities []any) []*T {
	if entities == nil {
		return nil
	}
	result := make([]*T, len(entities))
	for i, e := range entities {
		result[i] = e.(*T)
	}
	return result
}

func optionOf[T any](o option.Option[any]) option.Option[*T] {
	return option.Map(o, func(e any) *T { return e.(*T) })
}
