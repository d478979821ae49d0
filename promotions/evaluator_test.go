package promotions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"resto-api/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func active(id uint, rule Rule) Promotion {
	return Promotion{
		ID:       id,
		Rule:     rule,
		Audience: models.AudienceBoth,
		Active:   true,
		StartsAt: now.Add(-24 * time.Hour),
		EndsAt:   now.Add(24 * time.Hour),
	}
}

func ptr[T any](v T) *T { return &v }

func TestEvaluate_PercentageWithMinSpend(t *testing.T) {
	p := active(1, Discount{Type: models.DiscountPercentage, Value: 10})
	p.Eligibility.MinSpend = ptr(int64(100000))

	got := Evaluate(p, Context{OrderAmount: 145000, Now: now})
	assert.Equal(t, Result{Discount: 14500, Applied: true}, got)

	got = Evaluate(p, Context{OrderAmount: 50000, Now: now})
	assert.Equal(t, Result{Discount: 0, Applied: false}, got)
}

func TestEvaluate_PercentageRounds(t *testing.T) {
	p := active(1, Discount{Type: models.DiscountPercentage, Value: 15})

	// 15% of 1003 = 150.45
	assert.Equal(t, int64(150), Evaluate(p, Context{OrderAmount: 1003, Now: now}).Discount)
	// 15% of 1010 = 151.5
	assert.Equal(t, int64(152), Evaluate(p, Context{OrderAmount: 1010, Now: now}).Discount)
}

func TestEvaluate_Gates(t *testing.T) {
	base := active(1, Discount{Type: models.DiscountFixed, Value: 5000})
	ctx := Context{OrderAmount: 100000, Now: now}

	tests := []struct {
		name    string
		mutate  func(p *Promotion, c *Context)
		applied bool
	}{
		{"eligible", func(p *Promotion, c *Context) {}, true},
		{"inactive", func(p *Promotion, c *Context) { p.Active = false }, false},
		{"not started", func(p *Promotion, c *Context) { p.StartsAt = now.Add(time.Hour) }, false},
		{"ended", func(p *Promotion, c *Context) { p.EndsAt = now.Add(-time.Hour) }, false},
		{"window edge inclusive", func(p *Promotion, c *Context) { p.EndsAt = now }, true},
		{"points missing", func(p *Promotion, c *Context) { p.Eligibility.MinLoyaltyPoints = ptr(10) }, false},
		{"points too low", func(p *Promotion, c *Context) {
			p.Eligibility.MinLoyaltyPoints = ptr(10)
			c.LoyaltyPoints = ptr(9)
		}, false},
		{"points enough", func(p *Promotion, c *Context) {
			p.Eligibility.MinLoyaltyPoints = ptr(10)
			c.LoyaltyPoints = ptr(10)
		}, true},
		{"visits missing", func(p *Promotion, c *Context) { p.Eligibility.MinVisits = ptr(3) }, false},
		{"visits enough", func(p *Promotion, c *Context) {
			p.Eligibility.MinVisits = ptr(3)
			c.VisitCount = ptr(5)
		}, true},
		{"customer only, guest audience", func(p *Promotion, c *Context) {
			p.Audience = models.AudienceCustomer
			c.Audience = models.AudienceGuest
		}, false},
		{"customer only, customer audience", func(p *Promotion, c *Context) {
			p.Audience = models.AudienceCustomer
			c.Audience = models.AudienceCustomer
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, c := base, ctx
			tt.mutate(&p, &c)
			got := Evaluate(p, c)
			assert.Equal(t, tt.applied, got.Applied)
			if !tt.applied {
				assert.Zero(t, got.Discount)
			}
		})
	}
}

func TestEvaluate_BuyXGetY(t *testing.T) {
	items := []LineItem{
		{DishID: 1, Price: 20000, Quantity: 1},
		{DishID: 2, Price: 30000, Quantity: 1},
		{DishID: 3, Price: 50000, Quantity: 1},
	}
	ctx := Context{OrderAmount: 100000, Items: items, Now: now}

	got := Evaluate(active(1, BuyXGetY{Buy: 2, Get: 1}), ctx)
	assert.Equal(t, Result{Discount: 20000, Applied: true}, got)

	// only dishes 2 and 3 count: one set, the cheaper of them is free
	got = Evaluate(active(1, BuyXGetY{Buy: 2, Get: 1, Items: []uint{2, 3}}), ctx)
	assert.Equal(t, int64(30000), got.Discount)

	// quantities expand into units: 4 units -> 2 sets -> 2 free
	ctx.Items = []LineItem{{DishID: 1, Price: 20000, Quantity: 3}, {DishID: 3, Price: 50000, Quantity: 1}}
	ctx.OrderAmount = 110000
	got = Evaluate(active(1, BuyXGetY{Buy: 2, Get: 1}), ctx)
	assert.Equal(t, int64(40000), got.Discount)

	// free count never exceeds the eligible count
	got = Evaluate(active(1, BuyXGetY{Buy: 1, Get: 5}), ctx)
	assert.Equal(t, int64(110000), got.Discount)

	ctx.Items = []LineItem{{DishID: 1, Price: 20000, Quantity: 1}}
	got = Evaluate(active(1, BuyXGetY{Buy: 2, Get: 1}), ctx)
	assert.False(t, got.Applied)

	ctx.Items = nil
	assert.False(t, Evaluate(active(1, BuyXGetY{Buy: 1, Get: 1}), ctx).Applied)
}

func TestEvaluate_Combo(t *testing.T) {
	items := []LineItem{
		{DishID: 1, Price: 45000, Quantity: 2},
		{DishID: 2, Price: 25000, Quantity: 3},
	}
	ctx := Context{OrderAmount: 165000, Items: items, Now: now}

	// bundle of 1+2 sells at 60000 instead of 70000, two complete bundles
	got := Evaluate(active(1, Combo{Items: []uint{1, 2}, Price: 60000}), ctx)
	assert.Equal(t, Result{Discount: 20000, Applied: true}, got)

	// a missing dish voids the combo
	got = Evaluate(active(1, Combo{Items: []uint{1, 9}, Price: 10000}), ctx)
	assert.False(t, got.Applied)

	// combo price above the items' price gives nothing
	got = Evaluate(active(1, Combo{Items: []uint{1, 2}, Price: 90000}), ctx)
	assert.False(t, got.Applied)
}

func TestEvaluate_FreeShip(t *testing.T) {
	p := active(1, FreeShip{})

	got := Evaluate(p, Context{OrderAmount: 100000, OrderType: Delivery, ShippingFee: 15000, Now: now})
	assert.Equal(t, Result{Discount: 15000, Applied: true}, got)

	got = Evaluate(p, Context{OrderAmount: 10000, OrderType: Delivery, ShippingFee: 15000, Now: now})
	assert.Equal(t, int64(10000), got.Discount)

	got = Evaluate(p, Context{OrderAmount: 100000, OrderType: DineIn, ShippingFee: 15000, Now: now})
	assert.False(t, got.Applied)
}

func TestEvaluate_Loyalty(t *testing.T) {
	p := active(1, Loyalty{Type: models.DiscountPercentage, Value: 5})

	assert.False(t, Evaluate(p, Context{OrderAmount: 100000, Now: now}).Applied)

	got := Evaluate(p, Context{OrderAmount: 100000, LoyaltyPoints: ptr(0), Now: now})
	assert.Equal(t, Result{Discount: 5000, Applied: true}, got)
}

func TestEvaluate_NeverExceedsOrderAmount(t *testing.T) {
	items := []LineItem{{DishID: 1, Price: 30000, Quantity: 4}}
	rules := []Rule{
		Discount{Type: models.DiscountFixed, Value: 1_000_000},
		Discount{Type: models.DiscountPercentage, Value: 250},
		Loyalty{Type: models.DiscountFixed, Value: 1_000_000},
		FreeShip{},
		BuyXGetY{Buy: 1, Get: 10},
		Combo{Items: []uint{1}, Price: 0},
	}
	amounts := []int64{0, 1, 999, 50000, 120000}

	for _, rule := range rules {
		for _, amount := range amounts {
			ctx := Context{
				OrderAmount:   amount,
				LoyaltyPoints: ptr(100),
				Items:         items,
				OrderType:     Delivery,
				ShippingFee:   500000,
				Now:           now,
			}
			got := Evaluate(active(1, rule), ctx)
			assert.LessOrEqual(t, got.Discount, amount, "%T on %d", rule, amount)
			assert.GreaterOrEqual(t, got.Discount, int64(0))
		}
	}
}
