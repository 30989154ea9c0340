package memory

import (
	"math"
	"math/rand/v2"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
)

func randomId() int64 {
	return rand.Int64N(math.MaxInt64-1) + 1
}

// integerId draws from the id source and folds the value into [1, limit],
// where limit is the largest value the field type holds.
func (s *Session) integerId(fieldType reflect.Type) int64 {
	id := s.idSource()
	if limit, ok := mapping.MaxInteger(fieldType); ok && id > limit {
		id = (id-1)%limit + 1
	}
	return id
}

func (s *Session) newId(hint mapping.TypeHint, fieldType reflect.Type) (any, error) {
	switch hint {
	case mapping.TypeInteger:
		return s.integerId(fieldType), nil
	case mapping.TypeString:
		return strconv.FormatInt(s.idSource(), 10), nil
	case mapping.TypeUUID:
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, errors.Wrap(err, "unable to generate uuid")
		}
		return id, nil
	case mapping.TypeULID:
		return ulid.Make(), nil
	}
	return nil, errors.Wrapf(ErrIdGenerationUnsupported, "%q", hint)
}
