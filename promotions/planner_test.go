package promotions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-api/models"
)

func TestPlan_BestOf(t *testing.T) {
	promos := []Promotion{
		active(1, Discount{Type: models.DiscountPercentage, Value: 10}),
		active(2, Discount{Type: models.DiscountFixed, Value: 20000}),
		active(3, Discount{Type: models.DiscountFixed, Value: 20000}),
	}

	got := Plan(promos, Context{OrderAmount: 145000, Now: now}, false)
	assert.Equal(t, int64(20000), got.Discount)
	assert.Equal(t, []uint{2}, got.AppliedIDs)
	assert.Equal(t, int64(125000), got.FinalAmount)
}

func TestPlan_NoEligible(t *testing.T) {
	p := active(1, Discount{Type: models.DiscountFixed, Value: 20000})
	p.Active = false

	got := Plan([]Promotion{p}, Context{OrderAmount: 145000, Now: now}, true)
	assert.Zero(t, got.Discount)
	assert.Empty(t, got.AppliedIDs)
	assert.Equal(t, int64(145000), got.FinalAmount)

	got = Plan(nil, Context{OrderAmount: 145000, Now: now}, false)
	assert.Equal(t, int64(145000), got.FinalAmount)
	assert.NotNil(t, got.AppliedIDs)
}

func TestPlan_Stacking(t *testing.T) {
	promos := []Promotion{
		active(1, Discount{Type: models.DiscountPercentage, Value: 10}),
		active(2, Discount{Type: models.DiscountFixed, Value: 30000}),
	}

	got := Plan(promos, Context{OrderAmount: 100000, Now: now}, true)
	// fixed 30000 first, then 10% of the remaining 70000
	assert.Equal(t, int64(37000), got.Discount)
	assert.Equal(t, []uint{2, 1}, got.AppliedIDs)
	assert.Equal(t, int64(63000), got.FinalAmount)
}

func TestPlan_StackingStopsAtZero(t *testing.T) {
	promos := []Promotion{
		active(1, Discount{Type: models.DiscountFixed, Value: 80000}),
		active(2, Discount{Type: models.DiscountFixed, Value: 50000}),
		active(3, Discount{Type: models.DiscountFixed, Value: 10000}),
	}

	got := Plan(promos, Context{OrderAmount: 100000, Now: now}, true)
	assert.Equal(t, int64(100000), got.Discount)
	assert.Equal(t, []uint{1, 2}, got.AppliedIDs)
	assert.Zero(t, got.FinalAmount)
}

func TestPlan_StackingMinSpendOnRemaining(t *testing.T) {
	second := active(2, Discount{Type: models.DiscountFixed, Value: 5000})
	second.Eligibility.MinSpend = ptr(int64(90000))
	promos := []Promotion{
		active(1, Discount{Type: models.DiscountFixed, Value: 20000}),
		second,
	}

	got := Plan(promos, Context{OrderAmount: 100000, Now: now}, true)
	assert.Equal(t, int64(20000), got.Discount)
	assert.Equal(t, []uint{1}, got.AppliedIDs)
}

func TestPlan_FreeShipUsesFullAmount(t *testing.T) {
	promos := []Promotion{
		active(1, Discount{Type: models.DiscountFixed, Value: 95000}),
		active(2, FreeShip{}),
	}
	ctx := Context{OrderAmount: 100000, OrderType: Delivery, ShippingFee: 15000, Now: now}

	got := Plan(promos, ctx, true)
	// free ship evaluates to 15000 on the full amount, capped by the 5000 left
	assert.Equal(t, int64(100000), got.Discount)
	assert.Equal(t, []uint{1, 2}, got.AppliedIDs)
	assert.Equal(t, int64(15000), got.ShippingFee)
	assert.Equal(t, int64(15000), got.FinalAmount)
}

func TestPlan_DeliveryAddsShipping(t *testing.T) {
	got := Plan(nil, Context{OrderAmount: 145000, OrderType: Delivery, ShippingFee: 20000, Now: now}, false)
	assert.Equal(t, int64(165000), got.FinalAmount)

	got = Plan(nil, Context{OrderAmount: 145000, OrderType: Takeaway, ShippingFee: 20000, Now: now}, false)
	assert.Equal(t, int64(145000), got.FinalAmount)
}

func TestPlan_StackingNeverLessThanBestOf(t *testing.T) {
	items := []LineItem{
		{DishID: 1, Price: 45000, Quantity: 2},
		{DishID: 2, Price: 55000, Quantity: 1},
	}
	sets := [][]Promotion{
		{active(1, Discount{Type: models.DiscountPercentage, Value: 10})},
		{active(1, Discount{Type: models.DiscountPercentage, Value: 10}), active(2, BuyXGetY{Buy: 2, Get: 1})},
		{active(1, FreeShip{}), active(2, Combo{Items: []uint{1, 2}, Price: 80000}), active(3, Discount{Type: models.DiscountFixed, Value: 500000})},
		{active(1, Loyalty{Type: models.DiscountFixed, Value: 7000}), active(2, Discount{Type: models.DiscountPercentage, Value: 50})},
	}

	for i, promos := range sets {
		for _, amount := range []int64{1000, 100000, 145000} {
			ctx := Context{OrderAmount: amount, Items: items, LoyaltyPoints: ptr(1), OrderType: Delivery, ShippingFee: 10000, Now: now}
			stacked := Plan(promos, ctx, true)
			single := Plan(promos, ctx, false)
			require.GreaterOrEqual(t, stacked.Discount, single.Discount, "set %d amount %d", i, amount)
		}
	}
}
