package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrGuestNotFound    = errors.New("guest not found")
	ErrTableNotFound    = errors.New("table not found")
	ErrTableHidden      = errors.New("table is hidden")
	ErrTableNotAssigned = errors.New("guest has no table assigned")

	ErrDishNotFound    = errors.New("dish not found")
	ErrDishUnavailable = errors.New("dish is unavailable")
	ErrDishHidden      = errors.New("dish is hidden")

	ErrOrderNotFound  = errors.New("order not found")
	ErrOrderFinalized = errors.New("order is already paid or cancelled")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrBackwardStatus = errors.New("order status cannot move backwards")
	ErrOrderConflict  = errors.New("orders changed during settlement")
	ErrEmptyOrder     = errors.New("no order lines")
	ErrInvalidQty     = errors.New("quantity must be positive")

	ErrNoOrdersToPay      = errors.New("no orders to pay")
	ErrRevenueNotRecorded = errors.New("orders paid but revenue was not recorded")
)

// notFound turns gorm's record-not-found into kind; other errors pass through.
func notFound(err, kind error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
	}
	return err
}
