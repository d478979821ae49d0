package models

import "time"

type GuestRole string

const (
	RoleGuest    GuestRole = "Guest"
	RoleCustomer GuestRole = "Customer"
)

// Guest is a per-visit identity. A guest linked to a Customer feeds that
// customer's loyalty state when settled.
type Guest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Phone       *string   `gorm:"size:32" json:"phone,omitempty"`
	TableNumber *uint     `gorm:"index" json:"table_number"`
	CustomerID  *uint     `gorm:"index" json:"customer_id,omitempty"`
	Customer    *Customer `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (g Guest) Role() GuestRole {
	if g.CustomerID != nil {
		return RoleCustomer
	}
	return RoleGuest
}

type Customer struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"size:255;not null" json:"name"`
	Phone         string  `gorm:"size:32;uniqueIndex" json:"phone"`
	Email         *string `gorm:"size:255" json:"email,omitempty"`
	LoyaltyPoints int     `gorm:"not null;default:0" json:"loyalty_points"`
	VisitCount    int     `gorm:"not null;default:0" json:"visit_count"`
	TotalSpend    int64   `gorm:"not null;default:0" json:"total_spend"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Socket maps a guest to the real-time channel the gateway registered for it.
type Socket struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	GuestID  uint   `gorm:"uniqueIndex;not null" json:"guest_id"`
	SocketID string `gorm:"size:128;not null" json:"socket_id"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
