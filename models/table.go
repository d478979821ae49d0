package models

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableReserved  TableStatus = "Reserved"
	TableOccupied  TableStatus = "Occupied"
	TableHidden    TableStatus = "Hidden"
)

type Table struct {
	Number   uint        `gorm:"primaryKey;autoIncrement:false" json:"number"`
	Capacity int         `gorm:"not null" json:"capacity"`
	Location string      `gorm:"size:255" json:"location"`
	Status   TableStatus `gorm:"type:varchar(20);not null;default:'Available'" json:"status"`
	Token    string      `gorm:"size:64;uniqueIndex" json:"token"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
