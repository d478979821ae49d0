package models

import (
	"time"

	"gorm.io/datatypes"
)

// Revenue is the record of one settlement batch.
type Revenue struct {
	ID           uint                      `gorm:"primaryKey" json:"id"`
	GuestID      uint                      `gorm:"index;not null" json:"guest_id"`
	CustomerID   *uint                     `gorm:"index" json:"customer_id,omitempty"`
	OrderIDs     datatypes.JSONSlice[uint] `json:"order_ids"`
	GrossAmount  int64                     `gorm:"not null" json:"gross_amount"`
	Discount     int64                     `gorm:"not null;default:0" json:"discount"`
	ShippingFee  int64                     `gorm:"not null;default:0" json:"shipping_fee"`
	FinalAmount  int64                     `gorm:"not null" json:"final_amount"`
	PromotionIDs datatypes.JSONSlice[uint] `json:"promotion_ids"`
	HandlerID    *uint                     `json:"handler_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

type AuditLog struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	EntityType  string  `gorm:"size:50;index" json:"entity_type"`
	EntityID    uint    `gorm:"index" json:"entity_id"`
	Action      string  `gorm:"size:20" json:"action"`
	UserID      *uint   `json:"user_id"`
	OldValue    *string `gorm:"type:text" json:"old_value,omitempty"`
	NewValue    *string `gorm:"type:text" json:"new_value,omitempty"`
	Changes     *string `gorm:"type:text" json:"changes,omitempty"`
	Description string  `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Account{}, &Customer{}, &Guest{}, &Table{}, &Dish{}, &DishSnapshot{},
		&Order{}, &Promotion{}, &Socket{}, &Revenue{}, &AuditLog{},
	}
}
