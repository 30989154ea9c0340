package mapping

import (
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// FieldMapping describes one mapped (queryable and sortable) field.
type FieldMapping struct {
	// Name is the struct field name. Criteria and orderings refer to it.
	Name string
	// Column is the storage column name. It defaults to Name and is never
	// used for lookups.
	Column     string
	Identifier bool
	Generated  bool
	Type       TypeHint
}

// ClassMetadata is the field catalog of one entity type. Fields that are
// declared on the struct but absent from the catalog are unmapped.
type ClassMetadata struct {
	typ         reflect.Type
	fields      []FieldMapping
	byName      map[string]int
	idField     string
	hasId       bool
	idGenerated bool
}

// NewClassMetadata validates the mappings against the struct type and returns
// the catalog. Every problem found is reported in one multierror.
func NewClassMetadata(typ reflect.Type, fields ...FieldMapping) (*ClassMetadata, error) {
	structType, err := structOf(typ)
	if err != nil {
		return nil, err
	}
	m := &ClassMetadata{
		typ:    structType,
		fields: make([]FieldMapping, 0, len(fields)),
		byName: make(map[string]int, len(fields)),
	}
	var result *multierror.Error
	for _, f := range fields {
		sf, ok := structType.FieldByName(f.Name)
		if !ok {
			result = multierror.Append(result, errors.Wrapf(ErrUnknownField, "%s.%s", structType.Name(), f.Name))
			continue
		}
		if _, dup := m.byName[f.Name]; dup {
			result = multierror.Append(result, errors.Wrapf(ErrInvalidMapping, "%s.%s is mapped twice", structType.Name(), f.Name))
			continue
		}
		if f.Column == "" {
			f.Column = f.Name
		}
		if f.Type == "" {
			f.Type = InferTypeHint(sf.Type)
		} else if !f.Type.Valid() {
			result = multierror.Append(result, errors.Wrapf(ErrUnknownTypeHint, "%s.%s: %q", structType.Name(), f.Name, f.Type))
		}
		if f.Generated && !f.Identifier {
			result = multierror.Append(result, errors.Wrapf(ErrInvalidMapping, "%s.%s: only the identifier can be generated", structType.Name(), f.Name))
		}
		if f.Identifier {
			if m.hasId {
				result = multierror.Append(result, errors.Wrapf(ErrMultipleIdentifiers, "%s: %s and %s", structType.Name(), m.idField, f.Name))
			} else {
				m.idField, m.hasId, m.idGenerated = f.Name, true, f.Generated
			}
		}
		m.byName[f.Name] = len(m.fields)
		m.fields = append(m.fields, f)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return m, nil
}

func structOf(typ reflect.Type) (reflect.Type, error) {
	if typ == nil {
		return nil, errors.Wrap(ErrNotAStruct, "<nil>")
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotAStruct, "%s", typ)
	}
	return typ, nil
}

// Type returns the struct type (never a pointer type).
func (m *ClassMetadata) Type() reflect.Type {
	return m.typ
}

func (m *ClassMetadata) Name() string {
	return m.typ.String()
}

func (m *ClassMetadata) Fields() []FieldMapping {
	result := make([]FieldMapping, len(m.fields))
	copy(result, m.fields)
	return result
}

// FieldNames returns the mapped field names in declaration order.
func (m *ClassMetadata) FieldNames() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

func (m *ClassMetadata) Field(name string) (FieldMapping, bool) {
	i, ok := m.byName[name]
	if !ok {
		return FieldMapping{}, false
	}
	return m.fields[i], true
}

func (m *ClassMetadata) IsMapped(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Identifier returns the identifier field name, if the type has one.
func (m *ClassMetadata) Identifier() (string, bool) {
	return m.idField, m.hasId
}

func (m *ClassMetadata) UsesIdGenerator() bool {
	return m.idGenerated
}

// TypeOfField returns the type hint of a mapped field, or "" if unmapped.
func (m *ClassMetadata) TypeOfField(name string) TypeHint {
	f, ok := m.Field(name)
	if !ok {
		return ""
	}
	return f.Type
}

// Driver is the mapping-metadata source: struct tags, YAML documents or
// explicit registrations.
type Driver interface {
	LoadMetadata(typ reflect.Type) (*ClassMetadata, error)
}
