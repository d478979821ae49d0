package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderDelivered  OrderStatus = "Delivered"
	OrderPaid       OrderStatus = "Paid"
	OrderCancelled  OrderStatus = "Cancelled"
)

// SettleableStatuses are the statuses swept by a settlement.
var SettleableStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderDelivered}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderDelivered, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderCancelled
}

// TerminalStatuses are the statuses an order never leaves.
var TerminalStatuses = []OrderStatus{OrderPaid, OrderCancelled}

var kitchenRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderDelivered:  2,
}

// CanMoveTo reports whether a staff edit may move an order from s to next.
// The kitchen path only moves forward and Cancelled is reachable from any
// open status. Paid is set by settlement alone.
func (s OrderStatus) CanMoveTo(next OrderStatus) bool {
	if s.Terminal() || next == OrderPaid {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	from, ok := kitchenRank[s]
	to, okNext := kitchenRank[next]
	return ok && okNext && to >= from
}

// Order is one line item of one dish snapshot at one quantity. TableNumber is
// a plain column, not a foreign key, because delivery orders have no table.
type Order struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	DishSnapshotID uint         `gorm:"not null;index" json:"dish_snapshot_id"`
	DishSnapshot   DishSnapshot `json:"dish_snapshot"`
	GuestID        *uint        `gorm:"index" json:"guest_id"`
	Guest          *Guest       `json:"guest,omitempty"`
	TableNumber    *uint        `gorm:"index" json:"table_number"`
	OrderHandlerID *uint        `json:"order_handler_id"`
	OrderHandler   *Account     `gorm:"foreignKey:OrderHandlerID" json:"order_handler,omitempty"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	Status         OrderStatus  `gorm:"type:varchar(20);index;not null;default:'Pending'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Amount is the price of record for this line.
func (o Order) Amount() int64 {
	return o.DishSnapshot.Price * int64(o.Quantity)
}
