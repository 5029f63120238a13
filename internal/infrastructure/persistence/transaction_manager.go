package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/billing"
	"github.com/shopcore/backend/internal/domain/ordering"
	"github.com/shopcore/backend/internal/domain/uow"
)

// GormTransactionManager runs units of work inside a single database
// transaction. The repositories handed to the callback are bound to that
// transaction, so a returned error rolls back every write including sequence
// increments.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new GormTransactionManager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// Do executes fn within a transaction. A cancelled context aborts the
// transaction before fn runs.
func (m *GormTransactionManager) Do(ctx context.Context, fn func(u uow.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormUnitOfWork{tx: tx})
	})
}

// gormUnitOfWork exposes repositories bound to one open transaction.
type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) Orders() ordering.OrderRepository {
	return NewGormOrderRepository(u.tx)
}

func (u *gormUnitOfWork) Sequences() ordering.SequenceRepository {
	return NewGormSequenceRepository(u.tx)
}

func (u *gormUnitOfWork) Payments() billing.PaymentRepository {
	return NewGormPaymentRepository(u.tx)
}

func (u *gormUnitOfWork) Allocations() billing.AllocationRepository {
	return NewGormAllocationRepository(u.tx)
}
