package stmt

var (
	_ Statement = (*RegisterArithmetic)(nil)
	_ Statement = (*ImmediateArithmetic)(nil)
	_ Statement = (*Unary)(nil)
	_ Statement = (*Set)(nil)
	_ Statement = (*Jump)(nil)
	_ Statement = (*Branch)(nil)
	_ Statement = (*DataAccess)(nil)
)
