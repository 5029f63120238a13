package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// EntryType distinguishes an original allocation from a reversal entry
type EntryType string

const (
	// EntryTypeAllocation applies part or all of a payment to an order
	EntryTypeAllocation EntryType = "ALLOCATION"
	// EntryTypeReversal undoes a prior allocation with a negated amount
	EntryTypeReversal EntryType = "REVERSAL"
)

// IsValid checks if the entry type is known
func (t EntryType) IsValid() bool {
	return t == EntryTypeAllocation || t == EntryTypeReversal
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// PaymentAllocation is one row of the append-only ledger that records how a
// payment's amount is applied to orders. Rows are immutable once written;
// corrections are new REVERSAL rows that back-reference the entry they undo.
// The algebraic sum of Amount per order is the order's PaidAmount.
type PaymentAllocation struct {
	shared.BaseEntity
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal
	EntryType  EntryType  `gorm:"size:20;not null"`
	ReversalOf *uuid.UUID `gorm:"type:uuid"`
	EntryDate  time.Time
}

// NewAllocation records a positive application of a payment to an order
func NewAllocation(tenantID, paymentID, orderID uuid.UUID, amount decimal.Decimal) (*PaymentAllocation, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if paymentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}

	return &PaymentAllocation{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		PaymentID:  paymentID,
		OrderID:    orderID,
		Amount:     amount,
		EntryType:  EntryTypeAllocation,
		EntryDate:  time.Now(),
	}, nil
}

// NewReversal records the undoing of an earlier allocation. The new entry
// carries the negated amount and a back-reference to the original, so the
// "every reversal references its original" invariant is checkable from data.
func NewReversal(original *PaymentAllocation) (*PaymentAllocation, error) {
	if original == nil {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Original allocation is required")
	}
	if original.EntryType != EntryTypeAllocation {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Only allocation entries can be reversed")
	}

	originalID := original.ID
	return &PaymentAllocation{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   original.TenantID,
		PaymentID:  original.PaymentID,
		OrderID:    original.OrderID,
		Amount:     original.Amount.Neg(),
		EntryType:  EntryTypeReversal,
		ReversalOf: &originalID,
		EntryDate:  time.Now(),
	}, nil
}

// IsReversal reports whether this entry undoes another one
func (a *PaymentAllocation) IsReversal() bool {
	return a.EntryType == EntryTypeReversal
}
