package mapping

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
)

var pgIntegerMax = map[reflect.Type]int64{
	reflect.TypeOf(pgtype.Int2{}): math.MaxInt16,
	reflect.TypeOf(pgtype.Int4{}): math.MaxInt32,
	reflect.TypeOf(pgtype.Int8{}): math.MaxInt64,
}

// nullableOf wraps value in the pgx column type t. nil gives the invalid
// (NULL) value. It reports false when t is not a pgtype column type.
func nullableOf(t reflect.Type, value any) (any, bool, error) {
	switch t {
	case reflect.TypeOf(pgtype.Int2{}), reflect.TypeOf(pgtype.Int4{}), reflect.TypeOf(pgtype.Int8{}):
		if value == nil {
			return reflect.Zero(t).Interface(), true, nil
		}
		n, err := integerOf(value, pgIntegerMax[t])
		if err != nil {
			return nil, true, errors.Wrapf(err, "%s", t)
		}
		switch t {
		case reflect.TypeOf(pgtype.Int2{}):
			return pgtype.Int2{Int16: int16(n), Valid: true}, true, nil
		case reflect.TypeOf(pgtype.Int4{}):
			return pgtype.Int4{Int32: int32(n), Valid: true}, true, nil
		}
		return pgtype.Int8{Int64: n, Valid: true}, true, nil

	case reflect.TypeOf(pgtype.Text{}):
		switch v := value.(type) {
		case nil:
			return pgtype.Text{}, true, nil
		case string:
			return pgtype.Text{String: v, Valid: true}, true, nil
		case fmt.Stringer:
			return pgtype.Text{String: v.String(), Valid: true}, true, nil
		}

	case reflect.TypeOf(pgtype.UUID{}):
		switch v := value.(type) {
		case nil:
			return pgtype.UUID{}, true, nil
		case uuid.UUID:
			return pgtype.UUID{Bytes: v, Valid: true}, true, nil
		case [16]byte:
			return pgtype.UUID{Bytes: v, Valid: true}, true, nil
		}

	case reflect.TypeOf(pgtype.Bool{}):
		switch v := value.(type) {
		case nil:
			return pgtype.Bool{}, true, nil
		case bool:
			return pgtype.Bool{Bool: v, Valid: true}, true, nil
		}

	case reflect.TypeOf(pgtype.Float8{}):
		switch v := value.(type) {
		case nil:
			return pgtype.Float8{}, true, nil
		case float64:
			return pgtype.Float8{Float64: v, Valid: true}, true, nil
		case float32:
			return pgtype.Float8{Float64: float64(v), Valid: true}, true, nil
		}

	case reflect.TypeOf(pgtype.Timestamptz{}):
		switch v := value.(type) {
		case nil:
			return pgtype.Timestamptz{}, true, nil
		case time.Time:
			return pgtype.Timestamptz{Time: v, Valid: true}, true, nil
		}

	default:
		return nil, false, nil
	}
	return nil, true, errors.Wrapf(ErrTypeMismatch, "cannot assign %T to %s", value, t)
}

func integerOf(value any, limit int64) (int64, error) {
	v := reflect.ValueOf(value)
	var n int64
	switch {
	case isSigned(v.Kind()):
		n = v.Int()
	case isUnsigned(v.Kind()):
		if v.Uint() > math.MaxInt64 {
			return 0, errors.Wrapf(ErrOutOfRange, "%v", value)
		}
		n = int64(v.Uint())
	default:
		return 0, errors.Wrapf(ErrTypeMismatch, "cannot assign %T", value)
	}
	if n > limit || n < -limit-1 {
		return 0, errors.Wrapf(ErrOutOfRange, "%v", value)
	}
	return n, nil
}
