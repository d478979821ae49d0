package seeders

import (
	"context"
	"fmt"
	"time"

	"resto-api/models"
	"resto-api/services"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T {
	return &v
}

// Seed creates demo staff, tables, dishes, a seated guest and promotions.
// It is idempotent on names and numbers.
func Seed(ctx context.Context, db *gorm.DB, sockets *services.SocketRegistry) error {
	db = db.WithContext(ctx)

	// ============= Staff =============
	accounts := []models.Account{
		{Name: "Owner", Email: "owner@resto.local", Role: "Owner"},
		{Name: "Employee", Email: "employee@resto.local", Role: "Employee"},
	}
	for _, a := range accounts {
		if err := db.FirstOrCreate(&a, models.Account{Email: a.Email}).Error; err != nil {
			return fmt.Errorf("seed account %s: %w", a.Email, err)
		}
	}

	// ============= Tables =============
	for n := uint(1); n <= 10; n++ {
		table := models.Table{Number: n, Capacity: 4, Location: "Floor 1", Status: models.TableAvailable, Token: uuid.NewString()}
		if n == 10 {
			table.Status = models.TableHidden
		}
		if err := db.FirstOrCreate(&table, models.Table{Number: n}).Error; err != nil {
			return fmt.Errorf("seed table %d: %w", n, err)
		}
	}

	// ============= Dishes =============
	dishes := []models.Dish{
		{Name: "Pho", Price: 45000, Description: "Beef noodle soup", Status: models.DishAvailable},
		{Name: "Bun Cha", Price: 55000, Description: "Grilled pork with noodles", Status: models.DishAvailable},
		{Name: "Banh Mi", Price: 25000, Description: "Baguette sandwich", Status: models.DishAvailable},
		{Name: "Goi Cuon", Price: 30000, Description: "Fresh spring rolls", Status: models.DishAvailable},
		{Name: "Ca Phe Sua Da", Price: 20000, Description: "Iced milk coffee", Status: models.DishAvailable},
		{Name: "Cha Ca", Price: 90000, Description: "Turmeric fish", Status: models.DishUnavailable},
	}
	for i := range dishes {
		if err := db.FirstOrCreate(&dishes[i], models.Dish{Name: dishes[i].Name}).Error; err != nil {
			return fmt.Errorf("seed dish %s: %w", dishes[i].Name, err)
		}
	}

	// ============= Guest & customer =============
	customer := models.Customer{Name: "Lan", Phone: "0900000001"}
	if err := db.FirstOrCreate(&customer, models.Customer{Phone: customer.Phone}).Error; err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}
	guest := models.Guest{Name: "Lan", TableNumber: ptr(uint(5)), CustomerID: &customer.ID}
	if err := db.FirstOrCreate(&guest, models.Guest{Name: guest.Name}).Error; err != nil {
		return fmt.Errorf("seed guest: %w", err)
	}
	if err := sockets.Register(ctx, guest.ID, uuid.NewString()); err != nil {
		return fmt.Errorf("seed socket: %w", err)
	}

	// ============= Promotions =============
	now := time.Now().UTC()
	percentage := models.DiscountPercentage
	fixed := models.DiscountFixed
	promos := []models.Promotion{
		{
			Name: "10% over 100k", Category: models.CategoryDiscount, DiscountType: &percentage, DiscountValue: 10,
			Conditions: datatypes.NewJSONType(models.PromotionConditions{MinSpend: ptr(int64(100000))}),
		},
		{
			Name: "Buy 2 get 1", Category: models.CategoryBuyXGetY,
			Conditions: datatypes.NewJSONType(models.PromotionConditions{BuyQuantity: ptr(2), GetQuantity: ptr(1)}),
		},
		{
			Name: "Free delivery", Category: models.CategoryFreeShip,
			Conditions: datatypes.NewJSONType(models.PromotionConditions{MinSpend: ptr(int64(150000))}),
		},
		{
			Name: "Members 20k off", Category: models.CategoryLoyalty, DiscountType: &fixed, DiscountValue: 20000,
			ApplicableTo: models.AudienceCustomer,
			Conditions:   datatypes.NewJSONType(models.PromotionConditions{MinLoyaltyPoints: ptr(50)}),
		},
		{
			Name: "Pho + Coffee combo", Category: models.CategoryCombo, DiscountValue: 55000,
			Conditions: datatypes.NewJSONType(models.PromotionConditions{ApplicableItems: []uint{dishes[0].ID, dishes[4].ID}}),
		},
	}
	for _, p := range promos {
		if p.ApplicableTo == "" {
			p.ApplicableTo = models.AudienceBoth
		}
		p.IsActive = true
		p.StartDate = now.AddDate(0, -1, 0)
		p.EndDate = now.AddDate(1, 0, 0)
		if err := db.Where(models.Promotion{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("seed promotion %s: %w", p.Name, err)
		}
	}

	return nil
}
