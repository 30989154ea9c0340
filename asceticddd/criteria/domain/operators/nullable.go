package operators

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// unwrapNullable reads the column types of pgx, so an entity shared with a
// PostgreSQL repository compares the same in memory.
func unwrapNullable(value any) (any, bool) {
	switch x := value.(type) {
	case pgtype.Int2:
		return validOr(x.Valid, x.Int16), true
	case pgtype.Int4:
		return validOr(x.Valid, x.Int32), true
	case pgtype.Int8:
		return validOr(x.Valid, x.Int64), true
	case pgtype.Float4:
		return validOr(x.Valid, x.Float32), true
	case pgtype.Float8:
		return validOr(x.Valid, x.Float64), true
	case pgtype.Text:
		return validOr(x.Valid, x.String), true
	case pgtype.Bool:
		return validOr(x.Valid, x.Bool), true
	case pgtype.Date:
		return validOr(x.Valid, x.Time), true
	case pgtype.Timestamp:
		return validOr(x.Valid, x.Time), true
	case pgtype.Timestamptz:
		return validOr(x.Valid, x.Time), true
	case pgtype.UUID:
		return validOr(x.Valid, uuid.UUID(x.Bytes)), true
	}
	return value, false
}

func validOr[T any](valid bool, v T) any {
	if !valid {
		return nil
	}
	return v
}
