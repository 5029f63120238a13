package ordering

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/shared"
)

// Default settings for lazily created sequences
const (
	DefaultSequencePadding   = 5
	DefaultSequenceIncrement = 1
	fallbackSequencePrefix   = "SEQ"
)

// OrderSequenceCode is the sequence used for order reference codes
const OrderSequenceCode = "Order"

// PaymentSequenceCode is the sequence used for payment reference codes
const PaymentSequenceCode = "Payment"

// Sequence is a per-tenant counter definition used to format human-readable
// reference codes. NumberNext is never cached in process memory; every
// issuance reads and writes the persisted row.
type Sequence struct {
	shared.BaseAggregateRoot
	Code            string    `gorm:"size:50;not null;uniqueIndex:idx_sequences_code_tenant"`
	TenantID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sequences_code_tenant"`
	Prefix          string    `gorm:"size:10;not null"`
	Padding         int       `gorm:"not null"`
	NumberNext      int64     `gorm:"not null"`
	NumberIncrement int64     `gorm:"not null"`
}

// NewSequence creates a sequence with the lazy-creation defaults:
// prefix from the first three characters of the code, padding 5, starting at 1.
func NewSequence(code string, tenantID uuid.UUID) (*Sequence, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SEQUENCE_CODE", "Sequence code cannot be empty")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}

	prefix := fallbackSequencePrefix
	if trimmed := strings.TrimSpace(code); trimmed != "" {
		if len(trimmed) >= 3 {
			prefix = strings.ToUpper(trimmed[:3])
		} else {
			prefix = strings.ToUpper(trimmed)
		}
	}

	return &Sequence{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		TenantID:          tenantID,
		Prefix:            prefix,
		Padding:           DefaultSequencePadding,
		NumberNext:        1,
		NumberIncrement:   DefaultSequenceIncrement,
	}, nil
}

// Peek formats the reference the sequence would issue next
func (s *Sequence) Peek() string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Padding, s.NumberNext)
}

// Advance formats the current reference and moves NumberNext forward by the
// configured increment (at least 1, so a zero or negative increment can never
// stall the counter).
func (s *Sequence) Advance() string {
	ref := s.Peek()
	step := s.NumberIncrement
	if step < 1 {
		step = 1
	}
	s.NumberNext += step
	return ref
}
