package mapping

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// TypeHint is the declared storage type of a mapped field.
type TypeHint string

const (
	TypeInteger  TypeHint = "integer"
	TypeFloat    TypeHint = "float"
	TypeString   TypeHint = "string"
	TypeBoolean  TypeHint = "boolean"
	TypeDatetime TypeHint = "datetime"
	TypeUUID     TypeHint = "uuid"
	TypeULID     TypeHint = "ulid"
)

var typeHintAliases = map[string]TypeHint{
	"integer":            TypeInteger,
	"int":                TypeInteger,
	"smallint":           TypeInteger,
	"bigint":             TypeInteger,
	"float":              TypeFloat,
	"double":             TypeFloat,
	"string":             TypeString,
	"text":               TypeString,
	"ascii_string":       TypeString,
	"boolean":            TypeBoolean,
	"bool":               TypeBoolean,
	"datetime":           TypeDatetime,
	"datetime_immutable": TypeDatetime,
	"date":               TypeDatetime,
	"date_immutable":     TypeDatetime,
	"time":               TypeDatetime,
	"uuid":               TypeUUID,
	"guid":               TypeUUID,
	"ulid":               TypeULID,
}

// ParseTypeHint accepts the canonical hint names and the common column type
// aliases (bigint, text, guid, datetime_immutable, ...).
func ParseTypeHint(s string) (TypeHint, error) {
	hint, ok := typeHintAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", errors.Wrapf(ErrUnknownTypeHint, "%q", s)
	}
	return hint, nil
}

func (h TypeHint) Valid() bool {
	switch h {
	case TypeInteger, TypeFloat, TypeString, TypeBoolean, TypeDatetime, TypeUUID, TypeULID:
		return true
	}
	return false
}

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
	ulidType = reflect.TypeOf(ulid.ULID{})

	pgtypeHints = map[reflect.Type]TypeHint{
		reflect.TypeOf(pgtype.Int2{}):        TypeInteger,
		reflect.TypeOf(pgtype.Int4{}):        TypeInteger,
		reflect.TypeOf(pgtype.Int8{}):        TypeInteger,
		reflect.TypeOf(pgtype.Float4{}):      TypeFloat,
		reflect.TypeOf(pgtype.Float8{}):      TypeFloat,
		reflect.TypeOf(pgtype.Text{}):        TypeString,
		reflect.TypeOf(pgtype.Bool{}):        TypeBoolean,
		reflect.TypeOf(pgtype.Date{}):        TypeDatetime,
		reflect.TypeOf(pgtype.Timestamp{}):   TypeDatetime,
		reflect.TypeOf(pgtype.Timestamptz{}): TypeDatetime,
		reflect.TypeOf(pgtype.UUID{}):        TypeUUID,
	}
)

// InferTypeHint derives a hint from the Go type of a field. Pointer types are
// inferred from their element. Anything unrecognised is a string.
func InferTypeHint(t reflect.Type) TypeHint {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return TypeDatetime
	case uuidType:
		return TypeUUID
	case ulidType:
		return TypeULID
	}
	if hint, ok := pgtypeHints[t]; ok {
		return hint
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger
	case reflect.Float32, reflect.Float64:
		return TypeFloat
	case reflect.Bool:
		return TypeBoolean
	}
	return TypeString
}
