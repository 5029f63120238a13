package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/domain/billing"
	"github.com/shopcore/backend/internal/domain/ordering"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/uow"
)

func TestGormTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	txm := NewGormTransactionManager(db)
	ctx := context.Background()
	tenantID := uuid.New()

	err := txm.Do(ctx, func(u uow.UnitOfWork) error {
		allocator := ordering.NewSequenceAllocator(u.Sequences())
		code, err := allocator.NextReference(ctx, ordering.OrderSequenceCode, tenantID)
		if err != nil {
			return err
		}
		order, err := ordering.NewOrder(tenantID, code, uuid.New(), uuid.New())
		if err != nil {
			return err
		}
		return u.Orders().Save(ctx, order)
	})
	require.NoError(t, err)

	found, err := NewGormOrderRepository(db).FindByCode(ctx, tenantID, "ORD00001")
	require.NoError(t, err)
	assert.Equal(t, "ORD00001", found.Code)
}

func TestGormTransactionManager_RollsBackEverything(t *testing.T) {
	db := setupTestDB(t)
	txm := NewGormTransactionManager(db)
	ctx := context.Background()
	tenantID := uuid.New()
	boom := errors.New("boom")

	err := txm.Do(ctx, func(u uow.UnitOfWork) error {
		allocator := ordering.NewSequenceAllocator(u.Sequences())
		code, err := allocator.NextReference(ctx, ordering.OrderSequenceCode, tenantID)
		if err != nil {
			return err
		}
		order, err := ordering.NewOrder(tenantID, code, uuid.New(), uuid.New())
		if err != nil {
			return err
		}
		if err := u.Orders().Save(ctx, order); err != nil {
			return err
		}
		entry, err := billing.NewAllocation(tenantID, uuid.New(), order.ID, decimal.NewFromInt(100))
		if err != nil {
			return err
		}
		if err := u.Allocations().Append(ctx, entry); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The failed unit of work leaves no trace: no order, no ledger entry and
	// no consumed sequence number.
	_, err = NewGormOrderRepository(db).FindByCode(ctx, tenantID, "ORD00001")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = NewGormSequenceRepository(db).FindForUpdate(ctx, ordering.OrderSequenceCode, tenantID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var ledgerRows int64
	require.NoError(t, db.Table("payment_allocations").Count(&ledgerRows).Error)
	assert.Zero(t, ledgerRows)
}

func TestGormTransactionManager_CancelledContextAborts(t *testing.T) {
	db := setupTestDB(t)
	txm := NewGormTransactionManager(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := txm.Do(ctx, func(u uow.UnitOfWork) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
