package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order (with items) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForTenant finds an order by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByCode finds an order by its reference code for a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Order, error)

	// FindAllForTenant finds orders for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountForTenant counts orders for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *Order) error

	// DeleteForTenant deletes an order and cascades to its items
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SequenceRepository defines the interface for sequence persistence.
// Implementations serialize access per (code, tenant): FindForUpdate takes a
// row-level lock where supported, and Update enforces the optimistic version
// check, returning shared.ErrConcurrencyConflict on a stale write.
type SequenceRepository interface {
	// FindForUpdate loads the sequence for (code, tenantID), locking the row
	// for the duration of the enclosing transaction. shared.ErrNotFound when
	// no row exists yet.
	FindForUpdate(ctx context.Context, code string, tenantID uuid.UUID) (*Sequence, error)

	// Create inserts a new sequence row. shared.ErrAlreadyExists when a
	// concurrent caller created it first.
	Create(ctx context.Context, seq *Sequence) error

	// Update persists an advanced counter. shared.ErrConcurrencyConflict when
	// the row version moved since FindForUpdate.
	Update(ctx context.Context, seq *Sequence) error
}
