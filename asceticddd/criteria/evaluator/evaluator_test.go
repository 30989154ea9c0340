package evaluator

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	criteria "github.com/krew-solutions/ascetic-inmemory-go/asceticddd/criteria/domain"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/mapping"
	"github.com/krew-solutions/ascetic-inmemory-go/asceticddd/utils/testentities"
)

func newGrabBagEvaluator(t *testing.T) *CriteriaEvaluator {
	t.Helper()
	factory := NewFactory(mapping.NewMetadataFactory(mapping.NewTagDriver()))
	e, err := factory.Get(reflect.TypeOf(testentities.GrabBag{}))
	require.NoError(t, err)
	return e
}

func grabBags() []any {
	now := time.Now()
	return []any{
		testentities.NewGrabBag(true, 30, "hello", now),
		testentities.NewGrabBag(true, 30.5, "hi", now),
		testentities.NewGrabBag(true, 29.5, "good", now),
		testentities.NewGrabBag(true, 800, "bye", now),
		testentities.NewGrabBag(true, 0, "goodbye", now),
		testentities.NewGrabBag(false, -17, "hey", now),
		testentities.NewGrabBag(false, -3.14, "hello", now),
		testentities.NewGrabBag(false, 42, "hello, goodbye", now),
		testentities.NewGrabBag(false, 30, "goodbye, hello", now),
		testentities.NewGrabBag(false, 30, "hallå", now),
	}
}

func pick(entities []any, indexes ...int) []any {
	result := make([]any, len(indexes))
	for i, index := range indexes {
		result[i] = entities[index]
	}
	return result
}

func where(expr criteria.Expression) criteria.Criteria {
	return criteria.New().Where(expr)
}

func TestEvaluate(t *testing.T) {
	e := newGrabBagEvaluator(t)
	entities := grabBags()

	tests := []struct {
		name     string
		criteria criteria.Criteria
		expected []int
	}{
		{"eq bool", where(criteria.Eq("boolField", true)), []int{0, 1, 2, 3, 4}},
		{"eq float", where(criteria.Eq("floatField", 30.5)), []int{1}},
		{"eq int for float", where(criteria.Eq("floatField", 30)), []int{0, 8, 9}},
		{"neq bool", where(criteria.Neq("boolField", true)), []int{5, 6, 7, 8, 9}},
		{"neq float", where(criteria.Neq("floatField", 30.5)), []int{0, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"neq int for float", where(criteria.Neq("floatField", 30)), []int{1, 2, 3, 4, 5, 6, 7}},
		{"lt", where(criteria.Lt("floatField", 30)), []int{2, 4, 5, 6}},
		{"lte", where(criteria.Lte("floatField", 30)), []int{0, 2, 4, 5, 6, 8, 9}},
		{"gt", where(criteria.Gt("floatField", 30)), []int{1, 3, 7}},
		{"gte", where(criteria.Gte("floatField", 30)), []int{0, 1, 3, 7, 8, 9}},
		{"in", where(criteria.In("strField", []string{"hello", "goodbye"})), []int{0, 4, 6}},
		{"not in", where(criteria.NotIn("strField", []string{"hello", "goodbye"})), []int{1, 2, 3, 5, 7, 8, 9}},
		{"in is type strict", where(criteria.In("floatField", []any{30, 800})), []int{}},
		{"in with floats", where(criteria.In("floatField", [2]float64{30, 800})), []int{0, 3, 8, 9}},
		{"contains", where(criteria.Contains("strField", "oo")), []int{2, 4, 7, 8}},
		{"starts with", where(criteria.StartsWith("strField", "h")), []int{0, 1, 5, 6, 7, 9}},
		{"ends with", where(criteria.EndsWith("strField", "bye")), []int{3, 4, 7}},
		{
			"and where",
			where(criteria.Eq("boolField", true)).AndWhere(criteria.Gt("floatField", 30)),
			[]int{1, 3},
		},
		{
			"or where",
			where(criteria.Eq("boolField", true)).OrWhere(criteria.Eq("strField", "hello, goodbye")),
			[]int{0, 1, 2, 3, 4, 7},
		},
		{
			"overlapping or branches yield each entity once",
			where(criteria.OrX(
				criteria.Eq("boolField", true),
				criteria.Gte("floatField", 30),
				criteria.StartsWith("strField", "h"),
			)),
			[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			"and of or",
			where(criteria.Eq("boolField", true)).AndWhere(criteria.OrX(
				criteria.Lt("floatField", 30),
				criteria.Gt("floatField", 30),
			)),
			[]int{1, 2, 3, 4},
		},
		{"empty or", where(criteria.OrX()), []int{}},
		{"empty and", where(criteria.AndX()), []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"no where", criteria.New(), []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{
			"order by only",
			criteria.New().OrderBy(criteria.OrderDesc("floatField")),
			[]int{3, 7, 1, 0, 8, 9, 2, 4, 6, 5},
		},
		{
			"order by two keys",
			criteria.New().OrderBy(criteria.OrderAsc("floatField"), criteria.OrderDesc("strField")),
			[]int{5, 6, 4, 2, 0, 9, 8, 1, 7, 3},
		},
		{
			"order by and window",
			criteria.New().OrderBy(criteria.OrderAsc("floatField")).WithFirstResult(2).WithMaxResults(5),
			[]int{4, 2, 0, 8, 9},
		},
		{"offset at size", criteria.New().WithFirstResult(10), []int{}},
		{"offset beyond size", criteria.New().WithFirstResult(50).WithMaxResults(5), []int{}},
		{"window past the end", criteria.New().WithFirstResult(8).WithMaxResults(5), []int{8, 9}},
		{"zero limit", criteria.New().WithFirstResult(8).WithMaxResults(0), []int{8, 9}},
		{"limit only", criteria.New().WithMaxResults(2), []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := e.Evaluate(entities, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, pick(entities, tt.expected...), actual)
		})
	}
}

func TestEvaluateDoesNotReorderInput(t *testing.T) {
	e := newGrabBagEvaluator(t)
	entities := grabBags()
	before := append([]any(nil), entities...)

	_, err := e.Evaluate(entities, criteria.New().OrderBy(criteria.OrderAsc("strField")))
	require.NoError(t, err)
	assert.Equal(t, before, entities)
}

func TestCountIgnoresWindow(t *testing.T) {
	e := newGrabBagEvaluator(t)
	c := where(criteria.Eq("boolField", true)).
		OrderBy(criteria.OrderAsc("strField")).
		WithFirstResult(1).
		WithMaxResults(2)

	n, err := e.Count(grabBags(), c)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestEvaluateErrors(t *testing.T) {
	e := newGrabBagEvaluator(t)

	tests := []struct {
		name     string
		criteria criteria.Criteria
		expected error
	}{
		{"unknown field", where(criteria.Eq("nope", 1)), mapping.ErrUnknownField},
		{"unknown sort field", criteria.New().OrderBy(criteria.OrderAsc("nope")), mapping.ErrUnknownField},
		{"invalid direction", criteria.New().OrderBy(criteria.Ordering{Field: "strField", Direction: "UP"}), criteria.ErrInvalidSortDirection},
		{"member of", where(criteria.MemberOf("strField", "hello")), criteria.ErrUnsupportedOperator},
		{"unknown operator", where(criteria.NewComparisonNode("strField", "LIKE", "h%")), criteria.ErrUnsupportedOperator},
		{"bare value", where(criteria.Value(true)), criteria.ErrInvalidExpression},
		{"bare value in composite", where(criteria.AndX(criteria.Value(true))), criteria.ErrInvalidExpression},
		{"unknown composite", where(criteria.NewCompositeNode("XOR", criteria.Eq("boolField", true))), criteria.ErrInvalidExpression},
		{"unknown node kind", where(unknownNode{}), criteria.ErrInvalidExpression},
		{"in without a list", where(criteria.In("strField", "hello")), criteria.ErrInvalidExpression},
		{"contains without a string", where(criteria.NewComparisonNode("strField", "CONTAINS", 1)), criteria.ErrInvalidExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(grabBags(), tt.criteria)
			assert.ErrorIs(t, err, tt.expected)

			_, err = e.Evaluate(nil, tt.criteria)
			assert.ErrorIs(t, err, tt.expected, "must fail without entities as well")
		})
	}
}

func TestEvaluateIncomparableValues(t *testing.T) {
	e := newGrabBagEvaluator(t)
	_, err := e.Evaluate(grabBags(), where(criteria.Gt("strField", 3)))
	assert.Error(t, err)
}

type unknownNode struct{}

func (unknownNode) Accept(criteria.Visitor) error {
	return nil
}

func TestFactory(t *testing.T) {
	factory := NewFactory(mapping.NewMetadataFactory(mapping.NewTagDriver()))

	first, err := factory.Get(reflect.TypeOf(testentities.GrabBag{}))
	require.NoError(t, err)
	second, err := factory.Get(reflect.TypeOf(&testentities.GrabBag{}))
	require.NoError(t, err)
	other, err := factory.Get(reflect.TypeOf(testentities.User{}))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)

	_, err = factory.Get(reflect.TypeOf(42))
	assert.ErrorIs(t, err, mapping.ErrNotAStruct)
}

func TestEvaluateNullableColumns(t *testing.T) {
	factory := NewFactory(mapping.NewMetadataFactory(mapping.NewTagDriver()))
	e, err := factory.Get(reflect.TypeOf(testentities.Account{}))
	require.NoError(t, err)

	str := func(s string) *string { return &s }
	num := func(n int64) *int64 { return &n }
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	accounts := []any{
		testentities.NewAccount(1, str("bob"), num(150), day),
		testentities.NewAccount(2, nil, num(20), day.AddDate(0, 0, 1)),
		testentities.NewAccount(3, str("alice"), nil, time.Time{}),
		testentities.NewAccount(4, str("bobby"), num(300), day.AddDate(0, 0, 2)),
	}

	tests := []struct {
		name     string
		criteria criteria.Criteria
		expected []int
	}{
		{"eq text", where(criteria.Eq("nickname", "bob")), []int{0}},
		{"eq null", where(criteria.Eq("nickname", nil)), []int{1}},
		{"starts with", where(criteria.StartsWith("nickname", "bob")), []int{0, 3}},
		{"gt int8 skips null", where(criteria.Gt("balance", 100)), []int{0, 3}},
		{"before timestamp", where(criteria.Lt("openedAt", day.AddDate(0, 0, 1))), []int{0}},
		{"sort nulls first", criteria.New().OrderBy(criteria.OrderAsc("balance")), []int{2, 1, 0, 3}},
		{"sort text desc", criteria.New().OrderBy(criteria.OrderDesc("nickname")), []int{3, 0, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.Evaluate(accounts, tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, pick(accounts, tt.expected...), result)
		})
	}
}
