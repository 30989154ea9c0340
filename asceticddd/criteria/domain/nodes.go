package criteria

import (
	"reflect"

	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain/operators"
)

type Visitable interface {
	Accept(Visitor) error
}

// Expression is any node that can stand as a where-clause.
type Expression = Visitable

type Visitor interface {
	VisitComparison(ComparisonNode) error
	VisitComposite(CompositeNode) error
	VisitValue(ValueNode) error
}

func Value(value any) ValueNode {
	return ValueNode{
		value: value,
	}
}

type ValueNode struct {
	value any
}

func (n ValueNode) Value() any {
	return n.value
}

func (n ValueNode) Accept(v Visitor) error {
	return v.VisitValue(n)
}

func NewComparisonNode(field string, operator operators.Operator, value any) ComparisonNode {
	return ComparisonNode{
		field:    field,
		operator: operator,
		value:    Value(freeze(value)),
	}
}

func Eq(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorEq, value)
}

func Neq(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorNeq, value)
}

func Gt(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorGt, value)
}

func Gte(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorGte, value)
}

func Lt(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorLt, value)
}

func Lte(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorLte, value)
}

// In matches when the field value is one of values. values must be a slice
// or an array.
func In(field string, values any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorIn, values)
}

func NotIn(field string, values any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorNotIn, values)
}

func Contains(field string, value string) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorContains, value)
}

func StartsWith(field string, value string) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorStartsWith, value)
}

func EndsWith(field string, value string) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorEndsWith, value)
}

// MemberOf builds a collection membership test. No evaluator supports it.
func MemberOf(field string, value any) ComparisonNode {
	return NewComparisonNode(field, operators.OperatorMemberOf, value)
}

type ComparisonNode struct {
	field    string
	operator operators.Operator
	value    ValueNode
}

func (n ComparisonNode) Field() string {
	return n.field
}

func (n ComparisonNode) Operator() operators.Operator {
	return n.operator
}

func (n ComparisonNode) Value() ValueNode {
	return n.value
}

func (n ComparisonNode) Accept(v Visitor) error {
	return v.VisitComparison(n)
}

type CompositeType string

const (
	TypeAnd CompositeType = "AND"
	TypeOr  CompositeType = "OR"
)

func AndX(expressions ...Expression) CompositeNode {
	return NewCompositeNode(TypeAnd, expressions...)
}

func OrX(expressions ...Expression) CompositeNode {
	return NewCompositeNode(TypeOr, expressions...)
}

func NewCompositeNode(typ CompositeType, expressions ...Expression) CompositeNode {
	return CompositeNode{
		typ:         typ,
		expressions: append([]Expression(nil), expressions...),
	}
}

type CompositeNode struct {
	typ         CompositeType
	expressions []Expression
}

func (n CompositeNode) Type() CompositeType {
	return n.typ
}

// Expressions returns a copy of the children.
func (n CompositeNode) Expressions() []Expression {
	return append([]Expression(nil), n.expressions...)
}

func (n CompositeNode) Accept(v Visitor) error {
	return v.VisitComposite(n)
}

// freeze copies slice literals so that later writes by the caller do not leak
// into a built tree.
func freeze(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice || v.IsNil() {
		return value
	}
	c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(c, v)
	return c.Interface()
}
