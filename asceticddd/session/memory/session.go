package memory

import (
	"context"
	"reflect"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/evaluator"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/disposable"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/repository"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/session"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/signals"
)

type pending struct {
	repo   *repository.Repository
	entity any
}

// Session is an entity manager over in-memory repositories. Persisted
// entities are visible to queries at once; removals and identifier
// assignment wait for Flush.
type Session struct {
	ctx        context.Context
	logger     zerolog.Logger
	evaluators *evaluator.Factory
	idSource   func() int64

	mu           sync.Mutex
	repositories map[reflect.Type]*repository.Repository
	removals     []pending
	inserts      []pending
	queued       map[any]struct{}

	callbackSeq uint64

	onFlushed      *signals.SignalImp[session.FlushedEvent]
	onScopeStarted *signals.SignalImp[session.SessionScopeStartedEvent]
	onScopeEnded   *signals.SignalImp[session.SessionScopeEndedEvent]
}

var _ session.EntityManager = (*Session)(nil)

func New(opts ...Option) *Session {
	c := newConfig(opts)
	return &Session{
		ctx:            c.ctx,
		logger:         c.logger,
		evaluators:     c.evaluators,
		idSource:       c.idSource,
		repositories:   make(map[reflect.Type]*repository.Repository),
		queued:         make(map[any]struct{}),
		onFlushed:      signals.NewSignal[session.FlushedEvent](),
		onScopeStarted: signals.NewSignal[session.SessionScopeStartedEvent](),
		onScopeEnded:   signals.NewSignal[session.SessionScopeEndedEvent](),
	}
}

func (s *Session) Context() context.Context {
	return s.ctx
}

// Atomic runs callback and flushes when it succeeds. Nothing is rolled back
// on failure: queued intents stay queued for the next Flush.
func (s *Session) Atomic(callback session.SessionCallback) error {
	s.onScopeStarted.Notify(session.SessionScopeStartedEvent{Session: s})
	err := callback(s)
	if err == nil {
		err = s.Flush()
	}
	s.onScopeEnded.Notify(session.SessionScopeEndedEvent{Session: s, Err: err})
	return err
}

// GetRepository returns the repository of typ, building it on first use.
// typ may be the struct type or a pointer to it.
func (s *Session) GetRepository(typ reflect.Type) (*repository.Repository, error) {
	e, err := s.evaluators.Get(typ)
	if err != nil {
		return nil, err
	}
	key := e.Accessor().Metadata().Type()

	s.mu.Lock()
	defer s.mu.Unlock()
	if repo, ok := s.repositories[key]; ok {
		return repo, nil
	}
	repo, err := repository.New(e)
	if err != nil {
		return nil, err
	}
	s.repositories[key] = repo
	return repo, nil
}

func (s *Session) repositoryOf(entity any) (*repository.Repository, error) {
	return s.GetRepository(reflect.TypeOf(entity))
}

func (s *Session) Find(typ reflect.Type, id any) (option.Option[any], error) {
	repo, err := s.GetRepository(typ)
	if err != nil {
		return option.Nothing[any](), err
	}
	return repo.Find(id)
}

// Persist manages entity at once and queues it for identifier assignment.
func (s *Session) Persist(entity any) error {
	repo, err := s.repositoryOf(entity)
	if err != nil {
		return err
	}
	if err := repo.Manage(entity); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts = append(s.inserts, pending{repo: repo, entity: entity})
	return nil
}

// Remove queues entity for removal. It stays visible until Flush.
func (s *Session) Remove(entity any) error {
	repo, err := s.repositoryOf(entity)
	if err != nil {
		return err
	}
	if !repo.Accessor().Accepts(entity) {
		return errors.Wrapf(mapping.ErrTypeMismatch, "repository of %s cannot remove %T", repo.ClassName(), entity)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queued[entity]; ok {
		return nil
	}
	s.queued[entity] = struct{}{}
	s.removals = append(s.removals, pending{repo: repo, entity: entity})
	return nil
}

// Merge manages entity and returns it unchanged.
func (s *Session) Merge(entity any) (any, error) {
	repo, err := s.repositoryOf(entity)
	if err != nil {
		return nil, err
	}
	if err := repo.Manage(entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Session) Contains(entity any) bool {
	repo, err := s.repositoryOf(entity)
	if err != nil {
		return false
	}
	return repo.Contains(entity)
}

// Flush applies queued removals, then assigns identifiers to queued inserts
// whose type generates them and whose identifier is unset, then notifies the
// flush observers in registration order. Observers are skipped when an
// identifier could not be assigned.
func (s *Session) Flush() error {
	s.mu.Lock()
	removals, inserts := s.removals, s.inserts
	s.removals, s.inserts = nil, nil
	s.queued = make(map[any]struct{})
	s.mu.Unlock()

	removed := make([]any, 0, len(removals))
	gone := make(map[any]struct{}, len(removals))
	for _, p := range removals {
		if p.repo.Contains(p.entity) {
			removed = append(removed, p.entity)
		}
		p.repo.Remove(p.entity)
		gone[p.entity] = struct{}{}
	}

	var result *multierror.Error
	identified := make([]any, 0, len(inserts))
	for _, p := range inserts {
		if _, ok := gone[p.entity]; ok {
			continue
		}
		ok, err := s.identify(p)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if ok {
			identified = append(identified, p.entity)
		}
	}

	s.logger.Debug().
		Int("removed", len(removed)).
		Int("identified", len(identified)).
		Msg("session flushed")

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "flush")
	}
	s.onFlushed.Notify(session.FlushedEvent{
		Session:    s,
		Removed:    removed,
		Identified: identified,
	})
	return nil
}

func (s *Session) identify(p pending) (bool, error) {
	if !p.repo.IsIdGenerated() {
		return false, nil
	}
	accessor := p.repo.Accessor()
	idField := p.repo.IdField()
	unset, err := accessor.IsUnset(p.entity, idField)
	if err != nil || !unset {
		return false, err
	}
	fieldType, err := accessor.FieldType(idField)
	if err != nil {
		return false, err
	}
	id, err := s.newId(p.repo.IdType(), fieldType)
	if err != nil {
		return false, errors.Wrapf(err, "%s.%s", p.repo.ClassName(), idField)
	}
	if err := accessor.SetValue(p.entity, idField, id); err != nil {
		return false, err
	}
	s.logger.Debug().
		Str("entity", p.repo.ClassName()).
		Interface("id", id).
		Msg("identifier assigned")
	return true, nil
}

// AddOnFlushCallback runs callback after every successful Flush until the
// returned handle is disposed.
func (s *Session) AddOnFlushCallback(callback func()) disposable.Disposable {
	s.mu.Lock()
	s.callbackSeq++
	id := s.callbackSeq
	s.mu.Unlock()
	return s.onFlushed.Attach(func(session.FlushedEvent) {
		callback()
	}, id)
}

func (s *Session) OnFlushed() signals.Signal[session.FlushedEvent] {
	return s.onFlushed
}

func (s *Session) OnAtomicStarted() signals.Signal[session.SessionScopeStartedEvent] {
	return s.onScopeStarted
}

func (s *Session) OnAtomicEnded() signals.Signal[session.SessionScopeEndedEvent] {
	return s.onScopeEnded
}
