package partner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Partner is a customer of the shop. The billing core only needs identity and
// tenant ownership; contact details ride along for the API layer.
type Partner struct {
	shared.TenantAggregateRoot
	Name     string `gorm:"size:200;not null"`
	Phone    string `gorm:"size:50"`
	Address  string `gorm:"size:500"`
	IsActive bool   `gorm:"not null;default:true"`
}

// NewPartner creates a new partner for a tenant
func NewPartner(tenantID uuid.UUID, name, phone, address string) (*Partner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Partner name cannot be empty")
	}
	return &Partner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               phone,
		Address:             address,
		IsActive:            true,
	}, nil
}

// BelongsTo reports whether the partner is owned by the given tenant
func (p *Partner) BelongsTo(tenantID uuid.UUID) bool {
	return p.TenantID == tenantID
}

// Deactivate marks the partner as inactive
func (p *Partner) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// Repository defines the interface for partner persistence
type Repository interface {
	// FindByID finds a partner by ID regardless of tenant. Tenant ownership
	// is checked by the caller so a cross-tenant ID maps to ACCESS_DENIED
	// rather than NOT_FOUND.
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// FindByIDForTenant finds a partner by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Partner, error)

	// Save creates or updates a partner
	Save(ctx context.Context, p *Partner) error
}
