package criteria

import "errors"

var (
	ErrUnsupportedOperator  = errors.New("criteria: unsupported operator")
	ErrInvalidExpression    = errors.New("criteria: invalid expression")
	ErrInvalidSortDirection = errors.New("criteria: invalid sort direction")
)
