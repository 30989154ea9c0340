package signals

import (
	"reflect"
	"sync"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/disposable"
)

type entry[E any] struct {
	id       any
	observer Observer[E]
}

// SignalImp notifies observers in attach order. Observers may attach or
// detach while a notification is running; the change applies to the next one.
type SignalImp[E any] struct {
	mu        sync.Mutex
	observers []entry[E]
}

func NewSignal[E any]() *SignalImp[E] {
	return &SignalImp[E]{}
}

// Attach registers observer once per id. Without an explicit id the function
// pointer is the id, so closures built from the same literal need one.
func (s *SignalImp[E]) Attach(observer Observer[E], observerID ...any) disposable.Disposable {
	id := resolveID(observer, observerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		s.observers = append(s.observers, entry[E]{id: id, observer: observer})
	}
	return disposable.NewDisposable(func() {
		s.Detach(observer, id)
	})
}

func (s *SignalImp[E]) Detach(observer Observer[E], observerID ...any) {
	id := resolveID(observer, observerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
	}
}

func (s *SignalImp[E]) Notify(event E) {
	s.mu.Lock()
	observers := append([]entry[E](nil), s.observers...)
	s.mu.Unlock()
	for _, e := range observers {
		e.observer(event)
	}
}

func (s *SignalImp[E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *SignalImp[E]) indexOf(id any) int {
	for i, e := range s.observers {
		if e.id == id {
			return i
		}
	}
	return -1
}

func resolveID[E any](observer Observer[E], observerID []any) any {
	if len(observerID) > 0 {
		return observerID[0]
	}
	return makeID(observer)
}

func makeID[E any](observer Observer[E]) uintptr {
	return reflect.ValueOf(observer).Pointer()
}
