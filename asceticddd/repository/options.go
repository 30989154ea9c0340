package repository

import (
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
)

type orderSpec struct {
	field     string
	direction string
}

type findOptions struct {
	orderBy []orderSpec
	limit   option.Option[int]
	offset  option.Option[int]
}

type FindOption func(*findOptions)

// OrderBy adds a sort key. direction is ASC or DESC in any case; anything
// else fails the lookup before matching starts. Keys apply in the order given.
func OrderBy(field, direction string) FindOption {
	return func(o *findOptions) {
		o.orderBy = append(o.orderBy, orderSpec{field: field, direction: direction})
	}
}

// Limit caps the number of results. Zero means no cap.
func Limit(n int) FindOption {
	return func(o *findOptions) {
		o.limit = option.Some(n)
	}
}

func Offset(n int) FindOption {
	return func(o *findOptions) {
		o.offset = option.Some(n)
	}
}
