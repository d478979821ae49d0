package models

import "time"

type DishStatus string

const (
	DishAvailable   DishStatus = "Available"
	DishUnavailable DishStatus = "Unavailable"
	DishHidden      DishStatus = "Hidden"
)

type Dish struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Price       int64      `gorm:"not null" json:"price"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `gorm:"size:512" json:"image"`
	Status      DishStatus `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DishSnapshot is the frozen copy of a dish taken when an order line is
// created. Rows are insert-only; DishID is kept for traceability and is
// never used to re-read the live price.
type DishSnapshot struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DishID      *uint      `gorm:"index" json:"dish_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Price       int64      `gorm:"not null" json:"price"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `gorm:"size:512" json:"image"`
	Status      DishStatus `gorm:"type:varchar(20);not null" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
