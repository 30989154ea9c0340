package criteria

import (
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/option"
)

// Criteria is an immutable query: an optional where-expression, orderings and
// an optional window. Every modifier returns a new value.
type Criteria struct {
	where       Expression
	orderings   []Ordering
	firstResult option.Option[int]
	maxResults  option.Option[int]
}

func New() Criteria {
	return Criteria{}
}

// Where replaces the where-expression.
func (c Criteria) Where(expr Expression) Criteria {
	c.where = expr
	return c
}

// AndWhere combines the current where-expression with expr in a new AND
// composite. It behaves as Where when there is none yet.
func (c Criteria) AndWhere(expr Expression) Criteria {
	if c.where == nil {
		return c.Where(expr)
	}
	return c.Where(AndX(c.where, expr))
}

func (c Criteria) OrWhere(expr Expression) Criteria {
	if c.where == nil {
		return c.Where(expr)
	}
	return c.Where(OrX(c.where, expr))
}

// OrderBy replaces the orderings. Directions are not checked here; the
// evaluator rejects unknown ones.
func (c Criteria) OrderBy(orderings ...Ordering) Criteria {
	c.orderings = append([]Ordering(nil), orderings...)
	return c
}

func (c Criteria) WithFirstResult(n int) Criteria {
	c.firstResult = option.Some(n)
	return c
}

func (c Criteria) WithMaxResults(n int) Criteria {
	c.maxResults = option.Some(n)
	return c
}

func (c Criteria) WhereExpression() Expression {
	return c.where
}

func (c Criteria) Orderings() []Ordering {
	return append([]Ordering(nil), c.orderings...)
}

func (c Criteria) FirstResult() option.Option[int] {
	return c.firstResult
}

func (c Criteria) MaxResults() option.Option[int] {
	return c.maxResults
}
