package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
)

// GormServiceRepository implements catalog.Repository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindActiveByIDs loads the active services among ids for a tenant
func (r *GormServiceRepository) FindActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Service, error) {
	var services []catalog.Service
	if len(ids) == 0 {
		return services, nil
	}
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ? AND is_active = ?", tenantID, ids, true).
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// FindByIDForTenant finds a service by ID within a tenant
func (r *GormServiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Service, error) {
	var svc catalog.Service
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &svc, nil
}

// Save creates or updates a service
func (r *GormServiceRepository) Save(ctx context.Context, svc *catalog.Service) error {
	return r.db.WithContext(ctx).Save(svc).Error
}
