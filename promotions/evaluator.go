package promotions

// Evaluate computes what p takes off the order described by ctx. A promotion
// that fails any condition, or whose discount comes to zero, is not applied.
// The discount never exceeds ctx.OrderAmount.
func Evaluate(p Promotion, ctx Context) Result {
	if !p.eligible(ctx) {
		return Result{}
	}

	discount := p.Rule.discount(ctx)
	discount = min(discount, ctx.OrderAmount)
	if discount <= 0 {
		return Result{}
	}
	return Result{Discount: discount, Applied: true}
}
