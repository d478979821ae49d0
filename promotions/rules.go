package promotions

import (
	"slices"

	"github.com/shopspring/decimal"

	"resto-api/models"
)

// Rule is the category-specific part of a promotion. The set of
// implementations is closed: Discount, Loyalty, FreeShip, BuyXGetY and Combo.
type Rule interface {
	Category() models.PromotionCategory
	discount(ctx Context) int64
}

// Discount takes a percentage of, or a fixed amount off, the order.
type Discount struct {
	Type  models.DiscountType
	Value int64
}

func (Discount) Category() models.PromotionCategory { return models.CategoryDiscount }

func (r Discount) discount(ctx Context) int64 {
	return amountOff(r.Type, r.Value, ctx.OrderAmount)
}

// Loyalty is Discount restricted to guests carrying loyalty state.
type Loyalty struct {
	Type  models.DiscountType
	Value int64
}

func (Loyalty) Category() models.PromotionCategory { return models.CategoryLoyalty }

func (r Loyalty) discount(ctx Context) int64 {
	if ctx.LoyaltyPoints == nil {
		return 0
	}
	return amountOff(r.Type, r.Value, ctx.OrderAmount)
}

// FreeShip waives the shipping fee of delivery orders.
type FreeShip struct{}

func (FreeShip) Category() models.PromotionCategory { return models.CategoryFreeShip }

func (FreeShip) discount(ctx Context) int64 {
	if ctx.OrderType != Delivery {
		return 0
	}
	return min(ctx.ShippingFee, ctx.OrderAmount)
}

// BuyXGetY gives Get items free for every Buy eligible items, cheapest first.
// An empty Items list makes every dish eligible.
type BuyXGetY struct {
	Buy   int
	Get   int
	Items []uint
}

func (BuyXGetY) Category() models.PromotionCategory { return models.CategoryBuyXGetY }

func (r BuyXGetY) discount(ctx Context) int64 {
	if r.Buy <= 0 || r.Get <= 0 || len(ctx.Items) == 0 {
		return 0
	}

	var prices []int64
	for _, item := range ctx.Items {
		if len(r.Items) > 0 && !slices.Contains(r.Items, item.DishID) {
			continue
		}
		for i := 0; i < item.Quantity; i++ {
			prices = append(prices, item.Price)
		}
	}

	completeSets := len(prices) / r.Buy
	freeCount := min(completeSets*r.Get, len(prices))
	if freeCount == 0 {
		return 0
	}

	slices.Sort(prices)
	var total int64
	for _, p := range prices[:freeCount] {
		total += p
	}
	return total
}

// Combo sells a bundle of dishes at Price. Every dish in Items must be
// ordered; the discount is the bundle saving times the number of complete
// bundles.
type Combo struct {
	Items []uint
	Price int64
}

func (Combo) Category() models.PromotionCategory { return models.CategoryCombo }

func (r Combo) discount(ctx Context) int64 {
	if len(r.Items) == 0 {
		return 0
	}

	counts := make(map[uint]int)
	prices := make(map[uint]int64)
	for _, item := range ctx.Items {
		counts[item.DishID] += item.Quantity
		if _, seen := prices[item.DishID]; !seen {
			prices[item.DishID] = item.Price
		}
	}

	minQuantity := -1
	var comboTotal int64
	seen := make(map[uint]bool)
	for _, id := range r.Items {
		if counts[id] <= 0 {
			return 0
		}
		if minQuantity < 0 || counts[id] < minQuantity {
			minQuantity = counts[id]
		}
		if !seen[id] {
			seen[id] = true
			comboTotal += prices[id]
		}
	}

	return max(0, comboTotal-r.Price) * int64(minQuantity)
}

func amountOff(kind models.DiscountType, value, amount int64) int64 {
	if kind == models.DiscountPercentage {
		return decimal.NewFromInt(amount).
			Mul(decimal.NewFromInt(value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	}
	return value
}
