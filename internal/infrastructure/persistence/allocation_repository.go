package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/billing"
)

// GormAllocationRepository implements billing.AllocationRepository using GORM.
// The table is append-only: there is deliberately no update or delete here.
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// Append inserts a new ledger entry
func (r *GormAllocationRepository) Append(ctx context.Context, entry *billing.PaymentAllocation) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByIDs loads the entries with the given IDs belonging to a tenant.
// IDs from other tenants are simply absent from the result.
func (r *GormAllocationRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]billing.PaymentAllocation, error) {
	var entries []billing.PaymentAllocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByOrder lists all ledger entries for an order in entry order
func (r *GormAllocationRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]billing.PaymentAllocation, error) {
	var entries []billing.PaymentAllocation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumByOrder computes the signed ledger sum for an order. This is the
// authoritative paid amount: allocations add, reversals subtract.
func (r *GormAllocationRepository) SumByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.PaymentAllocation{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}
