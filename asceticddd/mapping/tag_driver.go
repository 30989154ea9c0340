package mapping

import (
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const DefaultTagName = "orm"

// TagDriver reads the mapping from struct tags:
//
//	type User struct {
//	    id       int    `orm:"id,generated"`
//	    lastName string `orm:"column,name=last_name"`
//	    cache    []byte // unmapped
//	}
//
// Options: column, id, generated, type=<hint>, name=<column>. A field tagged
// "-" or without the tag is declared but unmapped. Untagged embedded structs
// contribute their tagged fields as promoted fields.
type TagDriver struct {
	tagName string
}

func NewTagDriver() *TagDriver {
	return &TagDriver{tagName: DefaultTagName}
}

// WithTagName reads a tag other than "orm".
func (d *TagDriver) WithTagName(name string) *TagDriver {
	return &TagDriver{tagName: name}
}

func (d *TagDriver) LoadMetadata(typ reflect.Type) (*ClassMetadata, error) {
	structType, err := structOf(typ)
	if err != nil {
		return nil, err
	}
	fields, err := d.fieldsOf(structType, map[string]struct{}{}, map[reflect.Type]struct{}{})
	if err != nil {
		return nil, err
	}
	return NewClassMetadata(structType, fields...)
}

// fieldsOf reads the tags of structType and then of its untagged embedded
// structs, so promoted fields are mapped under their own names. A name
// declared at a shallower depth shadows deeper ones.
func (d *TagDriver) fieldsOf(structType reflect.Type, shadowed map[string]struct{}, visiting map[reflect.Type]struct{}) ([]FieldMapping, error) {
	visiting[structType] = struct{}{}
	defer delete(visiting, structType)

	names := make(map[string]struct{}, len(shadowed)+structType.NumField())
	for name := range shadowed {
		names[name] = struct{}{}
	}
	for i := 0; i < structType.NumField(); i++ {
		names[structType.Field(i).Name] = struct{}{}
	}

	var fields []FieldMapping
	var embedded []reflect.Type
	var result *multierror.Error
	for i := 0; i < structType.NumField(); i++ {
		sf := structType.Field(i)
		if _, ok := shadowed[sf.Name]; ok {
			continue
		}
		tag, ok := sf.Tag.Lookup(d.tagName)
		if !ok {
			if inner, isStruct := embeddedStruct(sf); isStruct {
				embedded = append(embedded, inner)
			}
			continue
		}
		if tag == "-" {
			continue
		}
		f, err := ParseTag(sf.Name, tag)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "%s.%s", structType.Name(), sf.Name))
			continue
		}
		fields = append(fields, f)
	}
	for _, inner := range embedded {
		if _, cycle := visiting[inner]; cycle {
			continue
		}
		promoted, err := d.fieldsOf(inner, names, visiting)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		fields = append(fields, promoted...)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return fields, nil
}

func embeddedStruct(sf reflect.StructField) (reflect.Type, bool) {
	if !sf.Anonymous {
		return nil, false
	}
	t := sf.Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

// ParseTag parses the value of an orm tag for the named field.
func ParseTag(fieldName, tag string) (FieldMapping, error) {
	f := FieldMapping{Name: fieldName}
	for _, option := range strings.Split(tag, ",") {
		option = strings.TrimSpace(option)
		key, value, hasValue := strings.Cut(option, "=")
		switch {
		case option == "", option == "column":
		case option == "id":
			f.Identifier = true
		case option == "generated":
			f.Generated = true
		case hasValue && key == "type":
			hint, err := ParseTypeHint(value)
			if err != nil {
				return FieldMapping{}, err
			}
			f.Type = hint
		case hasValue && key == "name":
			f.Column = value
		default:
			return FieldMapping{}, errors.Wrapf(ErrInvalidMapping, "unknown tag option %q", option)
		}
	}
	return f, nil
}
