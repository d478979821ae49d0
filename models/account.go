package models

import "time"

// Account is a staff member. Orders record the account that last handled them.
type Account struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role  string `gorm:"type:varchar(20);not null;default:'Employee'" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
