package evaluator

import (
	"reflect"
	"sync"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain/operators"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
)

// Factory hands out one CriteriaEvaluator per entity type. It is safe for
// concurrent use and is owned by whoever composes the repositories.
type Factory struct {
	metadata   *mapping.MetadataFactory
	registry   *operators.Registry
	mu         sync.Mutex
	evaluators map[reflect.Type]*CriteriaEvaluator
}

type FactoryOption func(*Factory)

// WithRegistry replaces the default operator registry, e.g. to register
// comparisons for domain value types.
func WithRegistry(registry *operators.Registry) FactoryOption {
	return func(f *Factory) {
		f.registry = registry
	}
}

func NewFactory(metadata *mapping.MetadataFactory, opts ...FactoryOption) *Factory {
	f := &Factory{
		metadata:   metadata,
		evaluators: make(map[reflect.Type]*CriteriaEvaluator),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = operators.NewDefaultRegistry()
	}
	return f
}

// Get accepts the struct type or a pointer to it.
func (f *Factory) Get(typ reflect.Type) (*CriteriaEvaluator, error) {
	m, err := f.metadata.MetadataFor(typ)
	if err != nil {
		return nil, err
	}
	return f.For(m), nil
}

// For returns the evaluator of the type described by m.
func (f *Factory) For(m *mapping.ClassMetadata) *CriteriaEvaluator {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.evaluators[m.Type()]; ok {
		return e
	}
	e := NewCriteriaEvaluator(mapping.NewAccessor(m), f.registry)
	f.evaluators[m.Type()] = e
	return e
}

func (f *Factory) Metadata() *mapping.MetadataFactory {
	return f.metadata
}
