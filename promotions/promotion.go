// Package promotions evaluates promotions against an order and plans how
// several of them combine. Everything here is pure and safe for concurrent use.
package promotions

import (
	"time"

	"resto-api/models"
)

type OrderType string

const (
	DineIn   OrderType = "dine_in"
	Takeaway OrderType = "takeaway"
	Delivery OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == DineIn || t == Takeaway || t == Delivery
}

// LineItem is one order line. BuyXGetY and Combo count units, so a line with
// Quantity 3 counts as three items of Price each.
type LineItem struct {
	DishID   uint
	Price    int64
	Quantity int
}

// Context is everything a promotion may look at. LoyaltyPoints and VisitCount
// are nil for guests without a loyalty account. An empty Audience skips the
// applicable_to check.
type Context struct {
	OrderAmount   int64
	LoyaltyPoints *int
	VisitCount    *int
	Items         []LineItem
	OrderType     OrderType
	ShippingFee   int64
	Audience      models.Audience
	Now           time.Time
}

type Result struct {
	Discount int64
	Applied  bool
}

// Eligibility holds the conditions shared by every category. Nil means unset.
type Eligibility struct {
	MinSpend         *int64
	MinVisits        *int
	MinLoyaltyPoints *int
}

type Promotion struct {
	ID          uint
	Name        string
	Rule        Rule
	Eligibility Eligibility
	Audience    models.Audience
	Active      bool
	StartsAt    time.Time
	EndsAt      time.Time
}

func (p Promotion) Category() models.PromotionCategory {
	return p.Rule.Category()
}

func (p Promotion) eligible(ctx Context) bool {
	if !p.Active || p.Rule == nil {
		return false
	}

	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	if now.Before(p.StartsAt) || now.After(p.EndsAt) {
		return false
	}

	if ctx.Audience != "" && p.Audience != "" && p.Audience != models.AudienceBoth && p.Audience != ctx.Audience {
		return false
	}

	e := p.Eligibility
	if e.MinSpend != nil && ctx.OrderAmount < *e.MinSpend {
		return false
	}
	if e.MinLoyaltyPoints != nil && (ctx.LoyaltyPoints == nil || *ctx.LoyaltyPoints < *e.MinLoyaltyPoints) {
		return false
	}
	if e.MinVisits != nil && (ctx.VisitCount == nil || *ctx.VisitCount < *e.MinVisits) {
		return false
	}
	return true
}
