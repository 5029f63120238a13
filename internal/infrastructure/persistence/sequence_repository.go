package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopcore/backend/internal/domain/ordering"
	"github.com/shopcore/backend/internal/domain/shared"
)

// GormSequenceRepository implements ordering.SequenceRepository using GORM.
// Issuance correctness rests on two layers: FindForUpdate takes a row lock so
// concurrent transactions on the same counter serialize, and Update checks the
// version so lock-free engines (sqlite in tests) still detect lost updates.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// FindForUpdate loads the counter row for a code within a tenant, locking it
// for the rest of the transaction.
func (r *GormSequenceRepository) FindForUpdate(ctx context.Context, code string, tenantID uuid.UUID) (*ordering.Sequence, error) {
	query := r.db.WithContext(ctx)
	// sqlite has no row locks and rejects FOR UPDATE. The version check in
	// Update still catches lost updates there.
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq ordering.Sequence
	if err := query.
		Where("code = ? AND tenant_id = ?", code, tenantID).
		First(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seq, nil
}

// Create inserts a new counter row. A concurrent insert for the same
// (code, tenant) pair trips the unique index and maps to ErrAlreadyExists so
// the caller can re-read the winner's row.
func (r *GormSequenceRepository) Create(ctx context.Context, seq *ordering.Sequence) error {
	if err := r.db.WithContext(ctx).Create(seq).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists an advanced counter. The version predicate turns a lost
// update into ErrConcurrencyConflict instead of silently issuing a duplicate.
func (r *GormSequenceRepository) Update(ctx context.Context, seq *ordering.Sequence) error {
	result := r.db.WithContext(ctx).
		Model(&ordering.Sequence{}).
		Where("id = ? AND version = ?", seq.ID, seq.Version).
		Updates(map[string]interface{}{
			"number_next": seq.NumberNext,
			"version":     seq.Version + 1,
			"updated_at":  seq.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	seq.Version++
	return nil
}

// isUniqueViolation reports whether err is a unique constraint violation.
// Covers GORM's translated error, postgres SQLSTATE 23505 and sqlite's message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
