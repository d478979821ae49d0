package models

import (
	"time"

	"gorm.io/datatypes"
)

type PromotionCategory string

const (
	CategoryDiscount PromotionCategory = "discount"
	CategoryBuyXGetY PromotionCategory = "buy_x_get_y"
	CategoryFreeShip PromotionCategory = "free_ship"
	CategoryLoyalty  PromotionCategory = "loyalty"
	CategoryCombo    PromotionCategory = "combo"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Audience string

const (
	AudienceGuest    Audience = "guest"
	AudienceCustomer Audience = "customer"
	AudienceBoth     Audience = "both"
)

type PromotionConditions struct {
	MinSpend         *int64 `json:"min_spend,omitempty"`
	MinVisits        *int   `json:"min_visits,omitempty"`
	MinLoyaltyPoints *int   `json:"min_loyalty_points,omitempty"`
	BuyQuantity      *int   `json:"buy_quantity,omitempty"`
	GetQuantity      *int   `json:"get_quantity,omitempty"`
	ApplicableItems  []uint `json:"applicable_items,omitempty"`
}

type Promotion struct {
	ID            uint                                    `gorm:"primaryKey" json:"id"`
	Name          string                                  `gorm:"size:255;not null" json:"name"`
	Description   string                                  `gorm:"type:text" json:"description"`
	Category      PromotionCategory                       `gorm:"type:varchar(20);not null" json:"category"`
	DiscountType  *DiscountType                           `gorm:"type:varchar(20)" json:"discount_type,omitempty"`
	DiscountValue int64                                   `gorm:"not null;default:0" json:"discount_value"`
	Conditions    datatypes.JSONType[PromotionConditions] `json:"conditions"`
	ApplicableTo  Audience                                `gorm:"type:varchar(20);not null;default:'both'" json:"applicable_to"`
	StartDate     time.Time                               `gorm:"not null" json:"start_date"`
	EndDate       time.Time                               `gorm:"not null" json:"end_date"`
	IsActive      bool                                    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
