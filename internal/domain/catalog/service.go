package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Service is a billable shop service (wash, iron, dry-clean, ...). UnitPrice
// here is the authoritative current price; orders snapshot it at creation time.
type Service struct {
	shared.TenantAggregateRoot
	Name          string `gorm:"size:200;not null"`
	UnitPrice     decimal.Decimal
	IsWeightBased bool `gorm:"not null;default:false"`
	IsActive      bool `gorm:"not null;default:true"`
}

// NewService creates a new catalog service for a tenant
func NewService(tenantID uuid.UUID, name string, unitPrice decimal.Decimal, isWeightBased bool) (*Service, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return &Service{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		UnitPrice:           unitPrice,
		IsWeightBased:       isWeightBased,
		IsActive:            true,
	}, nil
}

// ChangePrice updates the authoritative unit price. Existing order item
// snapshots are unaffected.
func (s *Service) ChangePrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	s.UnitPrice = unitPrice
	s.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the service as no longer orderable
func (s *Service) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
}

// Repository defines the interface for catalog service persistence
type Repository interface {
	// FindActiveByIDs loads the active services among ids for a tenant.
	// Missing or inactive IDs are simply absent from the result.
	FindActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Service, error)

	// FindByIDForTenant finds a service by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Service, error)

	// Save creates or updates a service
	Save(ctx context.Context, svc *Service) error
}
