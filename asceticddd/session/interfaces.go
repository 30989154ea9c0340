package session

import (
	"context"
	"reflect"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/signals"
)

type SessionCallback func(Session) error

type Session interface {
	Context() context.Context
	Atomic(SessionCallback) error
}

type SessionPoolCallback func(Session) error

type SessionPool interface {
	Session(context.Context, SessionPoolCallback) error
}

// EntityManager

// EntityManager queues persist and remove intents and applies them on Flush.
type EntityManager interface {
	Session
	Find(typ reflect.Type, id any) (option.Option[any], error)
	Persist(entity any) error
	Remove(entity any) error
	Merge(entity any) (any, error)
	Flush() error
	Contains(entity any) bool
	OnFlushed() signals.Signal[FlushedEvent]
}
