package mapping

import (
	"reflect"
	"sync"
)

// MetadataFactory loads metadata once per type and keeps it for its own
// lifetime. It is safe for concurrent use.
type MetadataFactory struct {
	driver Driver
	mu     sync.Mutex
	loaded map[reflect.Type]*ClassMetadata
}

func NewMetadataFactory(driver Driver) *MetadataFactory {
	return &MetadataFactory{
		driver: driver,
		loaded: make(map[reflect.Type]*ClassMetadata),
	}
}

func (f *MetadataFactory) Driver() Driver {
	return f.driver
}

// MetadataFor accepts the struct type or a pointer to it.
func (f *MetadataFactory) MetadataFor(typ reflect.Type) (*ClassMetadata, error) {
	structType, err := structOf(typ)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.loaded[structType]; ok {
		return m, nil
	}
	m, err := f.driver.LoadMetadata(structType)
	if err != nil {
		return nil, err
	}
	f.loaded[structType] = m
	return m, nil
}
