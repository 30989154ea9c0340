package mapping

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// StaticDriver serves metadata registered by code, for entity types that carry
// neither tags nor a mapping document.
type StaticDriver struct {
	mu       sync.RWMutex
	metadata map[reflect.Type]*ClassMetadata
}

func NewStaticDriver() *StaticDriver {
	return &StaticDriver{metadata: make(map[reflect.Type]*ClassMetadata)}
}

func (d *StaticDriver) Register(m *ClassMetadata) *StaticDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.metadata[m.Type()] = m
	return d
}

func (d *StaticDriver) LoadMetadata(typ reflect.Type) (*ClassMetadata, error) {
	structType, err := structOf(typ)
	if err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.metadata[structType]
	if !ok {
		return nil, errors.Wrapf(ErrMetadataNotFound, "%s", structType)
	}
	return m, nil
}

// ChainDriver asks each driver in turn and returns the first metadata found.
type ChainDriver struct {
	drivers []Driver
}

func NewChainDriver(drivers ...Driver) *ChainDriver {
	return &ChainDriver{drivers: drivers}
}

func (d *ChainDriver) LoadMetadata(typ reflect.Type) (*ClassMetadata, error) {
	for _, driver := range d.drivers {
		m, err := driver.LoadMetadata(typ)
		if errors.Is(err, ErrMetadataNotFound) {
			continue
		}
		return m, err
	}
	return nil, errors.Wrapf(ErrMetadataNotFound, "%s", typ)
}
