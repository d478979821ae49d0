package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resto-api/dtos"
	"resto-api/logger"
	"resto-api/models"
	"resto-api/utils"

	"gorm.io/gorm"
)

// OrderGroupResult is the outcome of a create or pay call: the joined orders
// plus the channel the caller should notify, if the guest has one.
type OrderGroupResult struct {
	Orders  []models.Order
	Channel *string
}

type OrderResult struct {
	Order   models.Order
	Channel *string
}

type OrderService interface {
	CreateOrders(ctx context.Context, handlerID uint, input dtos.CreateOrdersInput) (*OrderGroupResult, error)
	PayOrders(ctx context.Context, guestID, handlerID uint) (*OrderGroupResult, error)
	UpdateOrder(ctx context.Context, orderID uint, input dtos.UpdateOrderInput, handlerID uint) (*OrderResult, error)
	GetOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error)
	SettleableOrders(ctx context.Context, guestID uint) ([]models.Order, error)
}

type orderService struct {
	db        *gorm.DB
	uow       UnitOfWork
	snapshots SnapshotStore
	orders    OrderRepository
	channels  ChannelResolver
	log       *logger.Logger
	txTimeout time.Duration
}

func NewOrderService(db *gorm.DB, uow UnitOfWork, channels ChannelResolver, log *logger.Logger, txTimeout time.Duration) OrderService {
	return &orderService{
		db:        db,
		uow:       uow,
		snapshots: NewSnapshotStore(),
		orders:    NewOrderRepository(),
		channels:  channels,
		log:       log,
		txTimeout: txTimeout,
	}
}

func (s *orderService) CreateOrders(ctx context.Context, handlerID uint, input dtos.CreateOrdersInput) (*OrderGroupResult, error) {
	if len(input.Orders) == 0 {
		return nil, ErrEmptyOrder
	}
	for i, line := range input.Orders {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d", ErrInvalidQty, i+1)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()
	db := s.db.WithContext(ctx)

	var guest models.Guest
	if err := db.First(&guest, input.GuestID).Error; err != nil {
		return nil, notFound(err, ErrGuestNotFound, "guest %d", input.GuestID)
	}
	if guest.TableNumber == nil {
		return nil, fmt.Errorf("%w: guest %d", ErrTableNotAssigned, guest.ID)
	}

	var table models.Table
	if err := db.Where("number = ?", *guest.TableNumber).First(&table).Error; err != nil {
		return nil, notFound(err, ErrTableNotFound, "table %d", *guest.TableNumber)
	}
	if table.Status == models.TableHidden {
		return nil, fmt.Errorf("%w: table %d", ErrTableHidden, table.Number)
	}

	handler := optionalID(handlerID)
	created := make([]uint, 0, len(input.Orders))
	err := runInUnit(ctx, s.uow, func(tx *gorm.DB) error {
		for i, line := range input.Orders {
			dish, err := loadOrderableDish(tx, line.DishID)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}

			snapshot, err := s.snapshots.Freeze(tx, *dish)
			if err != nil {
				return fmt.Errorf("line %d: failed to freeze dish: %w", i+1, err)
			}

			order := models.Order{
				DishSnapshotID: snapshot.ID,
				GuestID:        &guest.ID,
				TableNumber:    guest.TableNumber,
				OrderHandlerID: handler,
				Quantity:       line.Quantity,
				Status:         models.OrderPending,
			}
			if err := s.orders.Insert(tx, &order); err != nil {
				return fmt.Errorf("line %d: failed to insert order: %w", i+1, err)
			}

			desc := fmt.Sprintf("%dx %s for guest %d", order.Quantity, snapshot.Name, guest.ID)
			if err := utils.CreateOrderAuditLog(tx, "create", order.ID, nil, &order, handler, desc); err != nil {
				return err
			}
			created = append(created, order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindJoinedByIDs(db, created)
	if err != nil {
		return nil, err
	}

	s.log.Info("orders_created", logger.RequestID(ctx), "Order group created",
		slog.Uint64("guest_id", uint64(guest.ID)),
		slog.Int("count", len(orders)),
	)

	return &OrderGroupResult{Orders: orders, Channel: s.resolveChannel(ctx, guest.ID)}, nil
}

// PayOrders moves every unpaid order of the guest to Paid in one statement.
// The id set is read first, so orders created after the read stay unpaid
// until the next settlement. If any of the read orders left the settleable
// statuses before the update, nothing is paid.
func (s *orderService) PayOrders(ctx context.Context, guestID, handlerID uint) (*OrderGroupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var ids []uint
	err := runInUnit(ctx, s.uow, func(tx *gorm.DB) error {
		var err error
		ids, err = s.orders.FindSettleableIDs(tx, guestID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w: guest %d", ErrNoOrdersToPay, guestID)
		}

		paid, err := s.orders.UpdateStatusBulk(tx, ids, models.OrderPaid, optionalID(handlerID), time.Now().UTC())
		switch {
		case err != nil:
			return err
		case paid == 0:
			return fmt.Errorf("%w: guest %d", ErrNoOrdersToPay, guestID)
		case paid != int64(len(ids)):
			return fmt.Errorf("%w: guest %d, %d of %d orders still open", ErrOrderConflict, guestID, paid, len(ids))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindJoinedByIDs(s.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}

	s.log.Info("orders_paid", logger.RequestID(ctx), "Guest orders settled",
		slog.Uint64("guest_id", uint64(guestID)),
		slog.Int("count", len(orders)),
	)

	return &OrderGroupResult{Orders: orders, Channel: s.resolveChannel(ctx, guestID)}, nil
}

// dishChange is the outcome of comparing an order's dish with the requested one.
type dishChange interface {
	isDishChange()
}

type sameDish struct{}

type differentDish struct {
	snapshot models.DishSnapshot
}

func (sameDish) isDishChange()      {}
func (differentDish) isDishChange() {}

func (s *orderService) decideDishChange(tx *gorm.DB, order *models.Order, dishID uint) (dishChange, error) {
	var current models.DishSnapshot
	if err := tx.First(&current, order.DishSnapshotID).Error; err != nil {
		return nil, fmt.Errorf("failed to load snapshot %d: %w", order.DishSnapshotID, err)
	}
	if current.DishID != nil && *current.DishID == dishID {
		return sameDish{}, nil
	}

	dish, err := loadOrderableDish(tx, dishID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshots.Freeze(tx, *dish)
	if err != nil {
		return nil, fmt.Errorf("failed to freeze dish: %w", err)
	}
	return differentDish{snapshot: snapshot}, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderID uint, input dtos.UpdateOrderInput, handlerID uint) (*OrderResult, error) {
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, input.Status)
	}
	if input.Status == models.OrderPaid {
		return nil, fmt.Errorf("%w: orders are paid through settlement", ErrInvalidStatus)
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidQty
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var guestID *uint
	err := runInUnit(ctx, s.uow, func(tx *gorm.DB) error {
		order, err := s.orders.LockByID(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return fmt.Errorf("%w: order %d is %s", ErrOrderFinalized, order.ID, order.Status)
		}
		if !order.Status.CanMoveTo(input.Status) {
			return fmt.Errorf("%w: %s to %s", ErrBackwardStatus, order.Status, input.Status)
		}
		guestID = order.GuestID
		before := *order

		change, err := s.decideDishChange(tx, order, input.DishID)
		if err != nil {
			return err
		}
		if c, ok := change.(differentDish); ok {
			order.DishSnapshotID = c.snapshot.ID
		}

		order.Status = input.Status
		order.Quantity = input.Quantity
		order.OrderHandlerID = optionalID(handlerID)
		order.UpdatedAt = time.Now().UTC()
		saved, err := s.orders.SaveOpen(tx, order)
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if saved == 0 {
			return fmt.Errorf("%w: order %d", ErrOrderFinalized, order.ID)
		}

		return utils.CreateOrderAuditLog(tx, "update", order.ID, &before, order, order.OrderHandlerID, "order updated")
	})
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.FindJoinedByIDs(s.db.WithContext(ctx), []uint{orderID})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	}

	result := &OrderResult{Order: orders[0]}
	if guestID != nil {
		result.Channel = s.resolveChannel(ctx, *guestID)
	}
	return result, nil
}

func (s *orderService) GetOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	return s.orders.List(s.db.WithContext(ctx), filter)
}

func (s *orderService) GetOrderDetail(ctx context.Context, orderID uint) (*OrderDetail, error) {
	return s.orders.FindDetail(s.db.WithContext(ctx), orderID)
}

func (s *orderService) SettleableOrders(ctx context.Context, guestID uint) ([]models.Order, error) {
	db := s.db.WithContext(ctx)
	ids, err := s.orders.FindSettleableIDs(db, guestID)
	if err != nil {
		return nil, err
	}
	return s.orders.FindJoinedByIDs(db, ids)
}

// resolveChannel never fails the call: the orders are already committed and
// notification is best effort.
func (s *orderService) resolveChannel(ctx context.Context, guestID uint) *string {
	if s.channels == nil {
		return nil
	}
	channel, err := s.channels.ResolveChannel(ctx, guestID)
	if err != nil {
		s.log.Error("channel_lookup_failed", logger.RequestID(ctx), "Failed to resolve guest channel", err,
			slog.Uint64("guest_id", uint64(guestID)))
		return nil
	}
	return channel
}

func loadOrderableDish(db *gorm.DB, dishID uint) (*models.Dish, error) {
	var dish models.Dish
	if err := db.First(&dish, dishID).Error; err != nil {
		return nil, notFound(err, ErrDishNotFound, "dish %d", dishID)
	}
	switch dish.Status {
	case models.DishUnavailable:
		return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, dish.Name)
	case models.DishHidden:
		return nil, fmt.Errorf("%w: %s", ErrDishHidden, dish.Name)
	}
	return &dish, nil
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
