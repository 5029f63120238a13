package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodMobile   PaymentMethod = "MOBILE"
)

// IsValid checks if the method is a known PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodMobile:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment represents money received from a partner. How the amount is applied
// to orders is recorded separately in the allocation ledger.
type Payment struct {
	shared.TenantAggregateRoot
	Code   string `gorm:"size:50;not null"`
	Amount decimal.Decimal
	Method PaymentMethod `gorm:"size:20;not null"`
	Date   time.Time
	Note   string
}

// NewPayment creates a payment record. code comes from the sequence allocator.
func NewPayment(tenantID uuid.UUID, code string, amount decimal.Decimal, method PaymentMethod, date time.Time, note string, actorID uuid.UUID) (*Payment, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Payment code cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, actorID),
		Code:                code,
		Amount:              amount,
		Method:              method,
		Date:                date,
		Note:                note,
	}, nil
}
