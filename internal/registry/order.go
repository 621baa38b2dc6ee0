package registry

// Order is the precedence of an expression's outermost operator. Lower values
// bind tighter.
type Order int

const (
	OrderAtomic         Order = 0
	OrderUnaryPostfix   Order = 1
	OrderUnaryPrefix    Order = 2
	OrderMultiplicative Order = 3
	OrderAdditive       Order = 4
	OrderShift          Order = 5
	OrderRelational     Order = 6
	OrderEquality       Order = 7
	OrderBitwiseAnd     Order = 8
	OrderBitwiseXor     Order = 9
	OrderBitwiseOr      Order = 10
	OrderLogicalAnd     Order = 11
	OrderLogicalOr      Order = 12
	OrderConditional    Order = 13
	OrderAssignment     Order = 14
	OrderNone           Order = 99
)

// NeedsParens reports whether code of precedence inner must be wrapped when
// used in a context of precedence outer.
func NeedsParens(outer, inner Order) bool {
	if outer == inner && (outer == OrderAtomic || outer == OrderNone) {
		return false
	}
	return outer <= inner
}
