package operators

// Value objects implement these to take part in comparisons that the
// registry has no registration for.

type EqualOperand interface {
	Equal(EqualOperand) bool
}

type LessThanOperand interface {
	LessThan(LessThanOperand) bool
}

type GreaterThanOperand interface {
	GreaterThan(GreaterThanOperand) bool
}

type LessThanEqualOperand interface {
	LessThanEqual(LessThanEqualOperand) bool
}

type GreaterThanEqualOperand interface {
	GreaterThanEqual(GreaterThanEqualOperand) bool
}
