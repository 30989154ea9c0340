package mapping

import (
	"io"
	"os"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YAMLDriver reads mappings from YAML documents, keeping them out of the
// entity source:
//
//	entities:
//	  User:
//	    table: users
//	    id: {field: id, type: integer, generated: true}
//	    fields:
//	      - {name: email}
//	      - {name: lastName, column: last_name}
//
// Entities are keyed by type name, or by "<pkgpath>.<Name>" when two
// packages declare the same name.
type YAMLDriver struct {
	entities map[string]yamlEntity
}

type yamlDocument struct {
	Entities map[string]yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	Table  string      `yaml:"table"`
	ID     *yamlId     `yaml:"id"`
	Fields []yamlField `yaml:"fields"`
}

type yamlId struct {
	Field     string `yaml:"field"`
	Type      string `yaml:"type"`
	Column    string `yaml:"column"`
	Generated bool   `yaml:"generated"`
}

type yamlField struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Column string `yaml:"column"`
}

func NewYAMLDriver(readers ...io.Reader) (*YAMLDriver, error) {
	d := &YAMLDriver{entities: make(map[string]yamlEntity)}
	for _, r := range readers {
		if err := d.load(r); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func NewYAMLDriverFromFiles(paths ...string) (*YAMLDriver, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to open mapping %s", path)
		}
		defer f.Close()
		readers = append(readers, f)
	}
	return NewYAMLDriver(readers...)
}

func (d *YAMLDriver) load(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	for {
		var doc yamlDocument
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "unable to decode mapping document")
		}
		for name, entity := range doc.Entities {
			if _, dup := d.entities[name]; dup {
				return errors.Wrapf(ErrInvalidMapping, "entity %s is mapped twice", name)
			}
			d.entities[name] = entity
		}
	}
}

func (d *YAMLDriver) LoadMetadata(typ reflect.Type) (*ClassMetadata, error) {
	structType, err := structOf(typ)
	if err != nil {
		return nil, err
	}
	entity, ok := d.entities[structType.PkgPath()+"."+structType.Name()]
	if !ok {
		entity, ok = d.entities[structType.Name()]
	}
	if !ok {
		return nil, errors.Wrapf(ErrMetadataNotFound, "%s", structType)
	}

	var fields []FieldMapping
	var result *multierror.Error
	if entity.ID != nil {
		f := FieldMapping{
			Name:       entity.ID.Field,
			Column:     entity.ID.Column,
			Identifier: true,
			Generated:  entity.ID.Generated,
		}
		if entity.ID.Type != "" {
			f.Type, err = ParseTypeHint(entity.ID.Type)
			result = multierror.Append(result, err)
		}
		fields = append(fields, f)
	}
	for _, yf := range entity.Fields {
		f := FieldMapping{Name: yf.Name, Column: yf.Column}
		if yf.Type != "" {
			f.Type, err = ParseTypeHint(yf.Type)
			result = multierror.Append(result, err)
		}
		fields = append(fields, f)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrapf(err, "%s", structType)
	}
	return NewClassMetadata(structType, fields...)
}
