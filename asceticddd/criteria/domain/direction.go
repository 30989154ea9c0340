package criteria

import (
	"strings"

	"github.com/pkg/errors"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts ASC and DESC in any case, surrounded by spaces.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", errors.Wrapf(ErrInvalidSortDirection, "%q", s)
	}
	return d, nil
}

func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

type Ordering struct {
	Field     string
	Direction Direction
}

func OrderAsc(field string) Ordering {
	return Ordering{Field: field, Direction: Asc}
}

func OrderDesc(field string) Ordering {
	return Ordering{Field: field, Direction: Desc}
}
