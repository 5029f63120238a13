package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/billing"
)

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	TenantAggregateModel
	Code   string                `gorm:"type:varchar(50);not null;index"`
	Amount decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Method billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Date   time.Time             `gorm:"not null;index"`
	Note   string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *billing.Payment {
	p := &billing.Payment{
		Code:   m.Code,
		Amount: m.Amount,
		Method: m.Method,
		Date:   m.Date,
		Note:   m.Note,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Amount = p.Amount
	m.Method = p.Method
	m.Date = p.Date
	m.Note = p.Note
}
