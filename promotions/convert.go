package promotions

import (
	"errors"
	"fmt"

	"resto-api/models"
)

var ErrInvalidPromotion = errors.New("invalid promotion")

// FromModel builds the evaluable form of a stored promotion, rejecting rows
// whose category lacks the fields its math needs.
func FromModel(m models.Promotion) (Promotion, error) {
	cond := m.Conditions.Data()

	p := Promotion{
		ID:   m.ID,
		Name: m.Name,
		Eligibility: Eligibility{
			MinSpend:         cond.MinSpend,
			MinVisits:        cond.MinVisits,
			MinLoyaltyPoints: cond.MinLoyaltyPoints,
		},
		Audience: m.ApplicableTo,
		Active:   m.IsActive,
		StartsAt: m.StartDate,
		EndsAt:   m.EndDate,
	}

	switch m.Category {
	case models.CategoryDiscount, models.CategoryLoyalty:
		if m.DiscountType == nil {
			return Promotion{}, fmt.Errorf("%w %d: %s requires discount_type", ErrInvalidPromotion, m.ID, m.Category)
		}
		kind := *m.DiscountType
		if kind != models.DiscountPercentage && kind != models.DiscountFixed {
			return Promotion{}, fmt.Errorf("%w %d: unknown discount_type %q", ErrInvalidPromotion, m.ID, kind)
		}
		if m.Category == models.CategoryDiscount {
			p.Rule = Discount{Type: kind, Value: m.DiscountValue}
		} else {
			p.Rule = Loyalty{Type: kind, Value: m.DiscountValue}
		}
	case models.CategoryFreeShip:
		p.Rule = FreeShip{}
	case models.CategoryBuyXGetY:
		if cond.BuyQuantity == nil || cond.GetQuantity == nil || *cond.BuyQuantity <= 0 || *cond.GetQuantity <= 0 {
			return Promotion{}, fmt.Errorf("%w %d: buy_x_get_y requires buy_quantity and get_quantity", ErrInvalidPromotion, m.ID)
		}
		p.Rule = BuyXGetY{Buy: *cond.BuyQuantity, Get: *cond.GetQuantity, Items: cond.ApplicableItems}
	case models.CategoryCombo:
		if len(cond.ApplicableItems) == 0 {
			return Promotion{}, fmt.Errorf("%w %d: combo requires applicable_items", ErrInvalidPromotion, m.ID)
		}
		p.Rule = Combo{Items: cond.ApplicableItems, Price: m.DiscountValue}
	default:
		return Promotion{}, fmt.Errorf("%w %d: unknown category %q", ErrInvalidPromotion, m.ID, m.Category)
	}

	return p, nil
}
