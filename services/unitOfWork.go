package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// UnitOfWork brackets a set of writes that must commit or abort together.
type UnitOfWork interface {
	Begin(ctx context.Context) (*gorm.DB, error)
	Commit(tx *gorm.DB) error
	Abort(tx *gorm.DB)
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Begin(ctx context.Context) (*gorm.DB, error) {
	tx := u.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

func (u *gormUnitOfWork) Commit(tx *gorm.DB) error {
	return tx.Commit().Error
}

func (u *gormUnitOfWork) Abort(tx *gorm.DB) {
	tx.Rollback()
}

// runInUnit runs fn inside one unit of work. Any error or panic from fn
// aborts the unit.
func runInUnit(ctx context.Context, uow UnitOfWork, fn func(tx *gorm.DB) error) error {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			uow.Abort(tx)
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		uow.Abort(tx)
		return err
	}
	if err := uow.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
