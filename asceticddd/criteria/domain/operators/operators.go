package operators

type Operator string

const (
	// Equality

	OperatorEq  Operator = "="
	OperatorNeq Operator = "<>"

	// Ordering

	OperatorLt  Operator = "<"
	OperatorLte Operator = "<="
	OperatorGt  Operator = ">"
	OperatorGte Operator = ">="

	// Lists

	OperatorIn    Operator = "IN"
	OperatorNotIn Operator = "NIN"

	// Strings

	OperatorContains   Operator = "CONTAINS"
	OperatorStartsWith Operator = "STARTS_WITH"
	OperatorEndsWith   Operator = "ENDS_WITH"

	// Collections

	OperatorMemberOf Operator = "MEMBER_OF"
)

// IsOrdered reports whether op is one of <, <=, >, >=.
func (op Operator) IsOrdered() bool {
	switch op {
	case OperatorLt, OperatorLte, OperatorGt, OperatorGte:
		return true
	}
	return false
}
