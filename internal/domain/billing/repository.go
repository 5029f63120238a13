package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByIDForTenant finds a payment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error
}

// AllocationRepository persists ledger entries. The ledger is append-only:
// there is deliberately no update or delete operation on this interface.
type AllocationRepository interface {
	// Append writes a new ledger entry
	Append(ctx context.Context, entry *PaymentAllocation) error

	// FindByIDs loads ledger entries by ID for a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]PaymentAllocation, error)

	// FindByOrder returns the full allocation history for an order, oldest first
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]PaymentAllocation, error)

	// SumByOrder returns the algebraic sum of entry amounts for an order.
	// This sum is the single source of truth for Order.PaidAmount.
	SumByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (decimal.Decimal, error)
}
