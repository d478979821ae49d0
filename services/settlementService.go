package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"resto-api/logger"
	"resto-api/models"
	"resto-api/promotions"

	"gorm.io/gorm"
)

type SettleInput struct {
	PromotionIDs  []uint
	AllowStacking bool
	OrderType     promotions.OrderType
	ShippingFee   int64
}

// Settlement is the priced result of paying a guest's orders.
type Settlement struct {
	GuestID     uint   `json:"guest_id"`
	OrderIDs    []uint `json:"order_ids"`
	GrossAmount int64  `json:"gross_amount"`
	RevenueID   uint   `json:"revenue_id,omitempty"`
	promotions.Outcome
}

// SettlementService pays a guest's orders, prices the batch with the
// promotion planner and records revenue and loyalty.
type SettlementService interface {
	Settle(ctx context.Context, guestID, handlerID uint, input SettleInput) (*OrderGroupResult, *Settlement, error)
	Preview(ctx context.Context, guestID uint, input SettleInput) (*Settlement, error)
}

type settlementService struct {
	db         *gorm.DB
	uow        UnitOfWork
	orders     OrderService
	promotions PromotionService
	log        *logger.Logger
	txTimeout  time.Duration
	pointUnit  int64
	attempts   int
	backoff    time.Duration
}

func NewSettlementService(
	db *gorm.DB,
	uow UnitOfWork,
	orders OrderService,
	promos PromotionService,
	log *logger.Logger,
	txTimeout time.Duration,
	pointUnit int64,
) SettlementService {
	return &settlementService{
		db:         db,
		uow:        uow,
		orders:     orders,
		promotions: promos,
		log:        log,
		txTimeout:  txTimeout,
		pointUnit:  pointUnit,
		attempts:   3,
		backoff:    200 * time.Millisecond,
	}
}

func (s *settlementService) Settle(ctx context.Context, guestID, handlerID uint, input SettleInput) (*OrderGroupResult, *Settlement, error) {
	guest, err := s.loadGuest(ctx, guestID)
	if err != nil {
		return nil, nil, err
	}

	paid, err := s.orders.PayOrders(ctx, guestID, handlerID)
	if err != nil {
		return nil, nil, err
	}

	settlement, err := s.price(ctx, guest, paid.Orders, input)
	if err != nil {
		return paid, nil, fmt.Errorf("%w: %v", ErrRevenueNotRecorded, err)
	}

	if err := s.record(ctx, guest, settlement, handlerID); err != nil {
		s.log.Error("revenue_not_recorded", logger.RequestID(ctx), "Settlement paid but not recorded", err,
			slog.Uint64("guest_id", uint64(guestID)),
			slog.Any("order_ids", settlement.OrderIDs),
			slog.Int64("final_amount", settlement.FinalAmount),
		)
		return paid, settlement, fmt.Errorf("%w: %v", ErrRevenueNotRecorded, err)
	}

	return paid, settlement, nil
}

func (s *settlementService) Preview(ctx context.Context, guestID uint, input SettleInput) (*Settlement, error) {
	guest, err := s.loadGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.SettleableOrders(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: guest %d", ErrNoOrdersToPay, guestID)
	}
	return s.price(ctx, guest, orders, input)
}

func (s *settlementService) loadGuest(ctx context.Context, guestID uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.db.WithContext(ctx).Preload("Customer").First(&guest, guestID).Error; err != nil {
		return nil, notFound(err, ErrGuestNotFound, "guest %d", guestID)
	}
	return &guest, nil
}

func (s *settlementService) price(ctx context.Context, guest *models.Guest, orders []models.Order, input SettleInput) (*Settlement, error) {
	settlement := &Settlement{GuestID: guest.ID, OrderIDs: make([]uint, 0, len(orders))}

	var items []promotions.LineItem
	for _, o := range orders {
		settlement.OrderIDs = append(settlement.OrderIDs, o.ID)
		settlement.GrossAmount += o.Amount()

		var dishID uint
		if o.DishSnapshot.DishID != nil {
			dishID = *o.DishSnapshot.DishID
		}
		items = append(items, promotions.LineItem{
			DishID:   dishID,
			Price:    o.DishSnapshot.Price,
			Quantity: o.Quantity,
		})
	}

	orderType := input.OrderType
	if orderType == "" {
		orderType = promotions.Takeaway
		if guest.TableNumber != nil {
			orderType = promotions.DineIn
		}
	}

	pctx := promotions.Context{
		OrderAmount: settlement.GrossAmount,
		Items:       items,
		OrderType:   orderType,
		ShippingFee: input.ShippingFee,
		Audience:    models.AudienceGuest,
		Now:         time.Now().UTC(),
	}
	if c := guest.Customer; c != nil {
		pctx.Audience = models.AudienceCustomer
		pctx.LoyaltyPoints = &c.LoyaltyPoints
		pctx.VisitCount = &c.VisitCount
	}

	promos, err := s.promotions.Evaluable(ctx, input.PromotionIDs)
	if err != nil {
		return nil, err
	}
	settlement.Outcome = promotions.Plan(promos, pctx, input.AllowStacking)
	return settlement, nil
}

// record writes the revenue row and the loyalty update together, retrying
// with linear backoff since the orders are already paid.
func (s *settlementService) record(ctx context.Context, guest *models.Guest, settlement *Settlement, handlerID uint) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = s.recordOnce(ctx, guest, settlement, handlerID)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || attempt == s.attempts {
			break
		}

		s.log.Warn("revenue_retry", logger.RequestID(ctx), err.Error(), slog.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	return err
}

func (s *settlementService) recordOnce(ctx context.Context, guest *models.Guest, settlement *Settlement, handlerID uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	return runInUnit(ctx, s.uow, func(tx *gorm.DB) error {
		revenue := models.Revenue{
			GuestID:      guest.ID,
			CustomerID:   guest.CustomerID,
			OrderIDs:     settlement.OrderIDs,
			GrossAmount:  settlement.GrossAmount,
			Discount:     settlement.Discount,
			ShippingFee:  settlement.ShippingFee,
			FinalAmount:  settlement.FinalAmount,
			PromotionIDs: settlement.AppliedIDs,
			HandlerID:    optionalID(handlerID),
		}
		if err := tx.Create(&revenue).Error; err != nil {
			return fmt.Errorf("failed to insert revenue: %w", err)
		}

		if guest.CustomerID != nil {
			points := settlement.FinalAmount / s.pointUnit
			err := tx.Model(&models.Customer{}).
				Where("id = ?", *guest.CustomerID).
				Updates(map[string]interface{}{
					"loyalty_points": gorm.Expr("loyalty_points + ?", points),
					"visit_count":    gorm.Expr("visit_count + ?", 1),
					"total_spend":    gorm.Expr("total_spend + ?", settlement.FinalAmount),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update loyalty: %w", err)
			}
		}

		settlement.RevenueID = revenue.ID
		return nil
	})
}
