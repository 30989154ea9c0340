package operators

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Money struct {
	amount   int
	currency string
}

func (m Money) Equal(other EqualOperand) bool {
	o, ok := other.(Money)
	if !ok {
		return false
	}
	return m.amount == o.amount && m.currency == o.currency
}

func (m Money) GreaterThan(other GreaterThanOperand) bool {
	o, ok := other.(Money)
	if !ok {
		return false
	}
	return m.amount > o.amount
}

func (m Money) LessThan(other LessThanOperand) bool {
	o, ok := other.(Money)
	if !ok {
		return false
	}
	return m.amount < o.amount
}

type Status string

// Rank only orders by "at most".
type Rank int

func (r Rank) LessThanEqual(other LessThanEqualOperand) bool {
	return r <= other.(Rank)
}

// Level only orders by "at least".
type Level uint8

func (l Level) GreaterThanEqual(other GreaterThanEqualOperand) bool {
	return l >= other.(Level)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected any
	}{
		{"int", 3, int64(3)},
		{"int8", int8(-3), int64(-3)},
		{"uint16", uint16(3), int64(3)},
		{"huge uint64", uint64(1 << 63), uint64(1 << 63)},
		{"float32", float32(1.5), float64(1.5)},
		{"named string", Status("open"), "open"},
		{"duration", 2 * time.Second, int64(2 * time.Second)},
		{"nil", nil, nil},
		{"value object", Money{1, "USD"}, Money{1, "USD"}},
		{"pg int4", pgtype.Int4{Int32: 7, Valid: true}, int64(7)},
		{"pg null int8", pgtype.Int8{Int64: 7}, nil},
		{"pg text", pgtype.Text{String: "open", Valid: true}, "open"},
		{"pg float8", pgtype.Float8{Float64: 1.5, Valid: true}, 1.5},
		{"pg bool", pgtype.Bool{Bool: true, Valid: true}, true},
		{"pg uuid", pgtype.UUID{Bytes: [16]byte{1}, Valid: true}, uuid.UUID{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.value))
		})
	}
}

func TestEqual(t *testing.T) {
	t.Run("float entity value equals integer literal", func(t *testing.T) {
		assert.True(t, Equal(30.0, 30))
		assert.True(t, Equal(float32(2.5), 2.5))
	})

	t.Run("integer entity value does not equal float literal", func(t *testing.T) {
		assert.False(t, Equal(30, 30.0))
	})

	t.Run("integer widths are the same type", func(t *testing.T) {
		assert.True(t, Equal(int32(7), int64(7)))
		assert.True(t, Equal(uint(7), 7))
	})

	t.Run("strict on type", func(t *testing.T) {
		assert.False(t, Equal("1", 1))
		assert.False(t, Equal(true, 1))
		assert.False(t, Equal(nil, 0))
		assert.True(t, Equal(nil, nil))
	})

	t.Run("timestamps in different zones", func(t *testing.T) {
		utc := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		assert.True(t, Equal(utc, utc.In(time.FixedZone("X", 3600))))
	})

	t.Run("value objects", func(t *testing.T) {
		assert.True(t, Equal(Money{1, "USD"}, Money{1, "USD"}))
		assert.False(t, Equal(Money{1, "USD"}, Money{1, "EUR"}))
	})

	t.Run("slices", func(t *testing.T) {
		assert.True(t, Equal([]byte("ab"), []byte("ab")))
		assert.False(t, Equal([]byte("ab"), []byte("ba")))
	})
}

func TestIdentical(t *testing.T) {
	assert.False(t, Identical(30.0, 30))
	assert.True(t, Identical(Status("a"), "a"))
	id := uuid.New()
	assert.True(t, Identical(id, id))
}

func TestExecBinary(t *testing.T) {
	reg := NewDefaultRegistry()
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		left     any
		op       Operator
		right    any
		expected bool
	}{
		{"int gt", 5, OperatorGt, 3, true},
		{"int lte", 3, OperatorLte, 3, true},
		{"mixed widths", int8(2), OperatorLt, uint32(3), true},
		{"int vs float", 30, OperatorGte, 29.5, true},
		{"float vs int", 29.5, OperatorGte, 30, false},
		{"huge uint", uint64(1 << 63), OperatorGt, int64(1), true},
		{"strings", "abc", OperatorLt, "abd", true},
		{"bools", false, OperatorLt, true, true},
		{"time", ts, OperatorLt, ts.Add(time.Hour), true},
		{"nil left", nil, OperatorGt, 1, false},
		{"nil right", 1, OperatorLt, nil, false},
		{"eq coerces float entity", 30.0, OperatorEq, 30, true},
		{"neq", 30, OperatorNeq, 30.0, true},
		{"value object", Money{5, "USD"}, OperatorGt, Money{1, "USD"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := reg.ExecBinary(tt.left, tt.op, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestInclusiveOperandScalars(t *testing.T) {
	reg := NewDefaultRegistry()
	cases := []struct {
		name  string
		left  any
		op    Operator
		right any
		want  bool
	}{
		{"rank lte", Rank(1), OperatorLte, Rank(2), true},
		{"rank lte equal", Rank(2), OperatorLte, Rank(2), true},
		{"rank not lte", Rank(3), OperatorLte, Rank(2), false},
		{"level gte", Level(5), OperatorGte, Level(4), true},
		{"level not gte", Level(3), OperatorGte, Level(4), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := reg.ExecBinary(c.left, c.op, c.right)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	assert.Equal(t, Rank(3), Normalize(Rank(3)))
	assert.Equal(t, Level(7), Normalize(Level(7)))

	_, err := reg.ExecBinary(Rank(1), OperatorGt, Rank(2))
	assert.ErrorIs(t, err, ErrIncomparable)
}

func TestExecBinaryIncomparable(t *testing.T) {
	reg := NewDefaultRegistry()

	_, err := reg.ExecBinary("a", OperatorGt, 1)
	assert.ErrorIs(t, err, ErrIncomparable)

	_, err = reg.ExecBinary(Money{1, "USD"}, OperatorGte, Money{1, "USD"})
	assert.ErrorIs(t, err, ErrIncomparable)

	_, err = reg.ExecBinary(1, OperatorIn, 1)
	assert.ErrorIs(t, err, ErrIncomparable)
}

func TestCompare(t *testing.T) {
	reg := NewDefaultRegistry()

	tests := []struct {
		name     string
		a, b     any
		expected int
	}{
		{"less", 1, 2, -1},
		{"greater", "b", "a", 1},
		{"promoted tie", 30, 30.0, 0},
		{"nil first", nil, 0, -1},
		{"nil last", 0, nil, 1},
		{"both nil", nil, nil, 0},
		{"ulid", ulid.ULID{1}, ulid.ULID{2}, -1},
		{"uuid", uuid.UUID{2}, uuid.UUID{1}, 1},
		{"pg null first", pgtype.Text{}, pgtype.Text{String: "a", Valid: true}, -1},
		{"pg against plain", pgtype.Int8{Int64: 3, Valid: true}, 2, 1},
		{"pg timestamptz", pgtype.Timestamptz{Time: time.Unix(1, 0), Valid: true}, time.Unix(2, 0), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := reg.Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}

	_, err := reg.Compare(1, "1")
	assert.ErrorIs(t, err, ErrIncomparable)
}

func TestNullableEquality(t *testing.T) {
	assert.True(t, Equal(pgtype.Text{}, nil))
	assert.True(t, Equal(pgtype.Float8{Float64: 2, Valid: true}, 2))
	assert.True(t, Identical(pgtype.Int2{Int16: 2, Valid: true}, 2))
	assert.False(t, Identical(pgtype.Text{String: "", Valid: true}, nil))

	reg := NewDefaultRegistry()
	result, err := reg.ExecBinary(pgtype.Int8{}, OperatorGt, 1)
	require.NoError(t, err)
	assert.False(t, result)
}

func TestRegisterBinaryOverridesDefault(t *testing.T) {
	reg := NewDefaultRegistry()
	RegisterBinary[string, string](reg, OperatorLt, func(a, b string) bool { return len(a) < len(b) })

	result, err := reg.ExecBinary("zz", OperatorLt, "aaa")
	require.NoError(t, err)
	assert.True(t, result)
}
