package memory

import (
	"reflect"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/repository"
)

func RepositoryOf[T any](s *Session) (*repository.Typed[T], error) {
	repo, err := s.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repository.NewTyped[T](repo)
}

func Find[T any](s *Session, id any) (option.Option[*T], error) {
	repo, err := RepositoryOf[T](s)
	if err != nil {
		return option.Nothing[*T](), err
	}
	return repo.Find(id)
}
