package services

import (
	"errors"
	"time"

	"resto-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	From    *time.Time
	To      *time.Time
	GuestID *uint
}

// OrderDetail is an order joined with the table it was placed at.
type OrderDetail struct {
	models.Order
	Table *models.Table `json:"table"`
}

// OrderRepository persists orders. Every method takes the handle to run on so
// the same code serves inside and outside a unit of work. Joins happen only on
// reads. Writes never touch an order that is already Paid or Cancelled.
type OrderRepository interface {
	Insert(db *gorm.DB, order *models.Order) error
	SaveOpen(db *gorm.DB, order *models.Order) (int64, error)
	UpdateStatusBulk(db *gorm.DB, ids []uint, status models.OrderStatus, handlerID *uint, now time.Time) (int64, error)
	LockByID(db *gorm.DB, id uint) (*models.Order, error)
	FindJoinedByIDs(db *gorm.DB, ids []uint) ([]models.Order, error)
	FindDetail(db *gorm.DB, id uint) (*OrderDetail, error)
	FindSettleableIDs(db *gorm.DB, guestID uint) ([]uint, error)
	List(db *gorm.DB, filter OrderFilter) ([]models.Order, error)
}

type orderRepository struct{}

func NewOrderRepository() OrderRepository {
	return orderRepository{}
}

func joined(db *gorm.DB) *gorm.DB {
	return db.Preload("DishSnapshot").Preload("OrderHandler").Preload("Guest")
}

func (orderRepository) Insert(db *gorm.DB, order *models.Order) error {
	return db.Omit(clause.Associations).Create(order).Error
}

// SaveOpen writes the mutable columns of order unless the stored row has
// reached a terminal status. Zero rows affected means it had.
func (orderRepository) SaveOpen(db *gorm.DB, order *models.Order) (int64, error) {
	res := db.Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", order.ID, models.TerminalStatuses).
		Updates(map[string]interface{}{
			"dish_snapshot_id": order.DishSnapshotID,
			"quantity":         order.Quantity,
			"status":           order.Status,
			"order_handler_id": order.OrderHandlerID,
			"updated_at":       order.UpdatedAt,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatusBulk moves the given orders to status, skipping any that are no
// longer settleable.
func (orderRepository) UpdateStatusBulk(db *gorm.DB, ids []uint, status models.OrderStatus, handlerID *uint, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Model(&models.Order{}).
		Where("id IN ? AND status IN ?", ids, models.SettleableStatuses).
		Updates(map[string]interface{}{
			"status":           status,
			"order_handler_id": handlerID,
			"updated_at":       now,
		})
	return res.RowsAffected, res.Error
}

// LockByID reads one order and holds its row lock until the unit of work
// ends. Absent orders give ErrOrderNotFound.
func (orderRepository) LockByID(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		return nil, notFound(err, ErrOrderNotFound, "order %d", id)
	}
	return &order, nil
}

func (orderRepository) FindJoinedByIDs(db *gorm.DB, ids []uint) ([]models.Order, error) {
	orders := []models.Order{}
	if len(ids) == 0 {
		return orders, nil
	}
	err := joined(db).Where("id IN ?", ids).Order("id ASC").Find(&orders).Error
	return orders, err
}

func (orderRepository) FindDetail(db *gorm.DB, id uint) (*OrderDetail, error) {
	var order models.Order
	if err := joined(db).First(&order, id).Error; err != nil {
		return nil, notFound(err, ErrOrderNotFound, "order %d", id)
	}

	detail := &OrderDetail{Order: order}
	if order.TableNumber != nil {
		var table models.Table
		err := db.Where("number = ?", *order.TableNumber).First(&table).Error
		switch {
		case err == nil:
			detail.Table = &table
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return detail, nil
}

// FindSettleableIDs locks the rows it returns so the following bulk update
// sees the same set.
func (orderRepository) FindSettleableIDs(db *gorm.DB, guestID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Order{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("guest_id = ? AND status IN ?", guestID, models.SettleableStatuses).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (orderRepository) List(db *gorm.DB, filter OrderFilter) ([]models.Order, error) {
	q := joined(db).Model(&models.Order{})
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	if filter.GuestID != nil {
		q = q.Where("guest_id = ?", *filter.GuestID)
	}

	orders := []models.Order{}
	err := q.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, err
}
