package promotions

import (
	"cmp"
	"slices"

	"resto-api/models"
)

type Outcome struct {
	Discount    int64  `json:"discount"`
	AppliedIDs  []uint `json:"applied_promotion_ids"`
	ShippingFee int64  `json:"shipping_fee"`
	FinalAmount int64  `json:"final_amount"`
}

// Plan applies promos to the order. Without stacking only the single largest
// discount is used. With stacking, promotions are applied largest first
// against what is left of the order; free_ship is always measured against the
// full amount since the shipping fee is not reduced by other discounts.
func Plan(promos []Promotion, ctx Context, allowStacking bool) Outcome {
	out := Outcome{AppliedIDs: []uint{}}

	if allowStacking {
		out.Discount, out.AppliedIDs = stack(promos, ctx)
	} else if best, ok := bestOf(promos, ctx); ok {
		out.Discount = best.discount
		out.AppliedIDs = []uint{best.promo.ID}
	}

	if ctx.OrderType == Delivery {
		out.ShippingFee = ctx.ShippingFee
	}
	out.FinalAmount = max(0, ctx.OrderAmount-out.Discount) + out.ShippingFee
	return out
}

type scored struct {
	promo    Promotion
	discount int64
}

func bestOf(promos []Promotion, ctx Context) (scored, bool) {
	var best scored
	found := false
	for _, p := range promos {
		r := Evaluate(p, ctx)
		if r.Applied && (!found || r.Discount > best.discount) {
			best = scored{promo: p, discount: r.Discount}
			found = true
		}
	}
	return best, found
}

func stack(promos []Promotion, ctx Context) (int64, []uint) {
	var candidates []scored
	for _, p := range promos {
		if r := Evaluate(p, ctx); r.Applied {
			candidates = append(candidates, scored{promo: p, discount: r.Discount})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.discount, a.discount)
	})

	ids := []uint{}
	remaining := ctx.OrderAmount
	var total int64
	for _, c := range candidates {
		if remaining <= 0 {
			break
		}

		sub := ctx
		sub.OrderAmount = remaining
		if c.promo.Category() == models.CategoryFreeShip {
			sub.OrderAmount = ctx.OrderAmount
		}

		r := Evaluate(c.promo, sub)
		if !r.Applied {
			continue
		}
		applied := min(r.Discount, remaining)
		total += applied
		remaining -= applied
		ids = append(ids, c.promo.ID)
	}
	return total, ids
}
