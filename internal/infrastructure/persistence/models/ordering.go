package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	TenantAggregateModel
	// The (tenant_id, code) unique index is declared in the migrations since
	// GORM cannot tag the promoted TenantID column per model.
	Code          string                 `gorm:"type:varchar(50);not null;index"`
	PartnerID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Status        ordering.OrderStatus   `gorm:"type:varchar(20);not null;default:'RECEIVED';index"`
	PaymentStatus ordering.PaymentStatus `gorm:"type:varchar(20);not null;default:'UNPAID';index"`
	TotalPrice    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Residual      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Notes         string                 `gorm:"type:text"`
	ReceivedTime  *time.Time             `gorm:"index"`
	Items         []OrderItemModel       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		Code:          m.Code,
		PartnerID:     m.PartnerID,
		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,
		TotalPrice:    m.TotalPrice,
		PaidAmount:    m.PaidAmount,
		Residual:      m.Residual,
		Notes:         m.Notes,
		ReceivedTime:  m.ReceivedTime,
	}
	m.PopulateTenantAggregateRoot(&order.TenantAggregateRoot)
	order.Items = make([]ordering.OrderItem, len(m.Items))
	for i := range m.Items {
		order.Items[i] = *m.Items[i].ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(order *ordering.Order) {
	m.FromDomainTenantAggregateRoot(order.TenantAggregateRoot)
	m.Code = order.Code
	m.PartnerID = order.PartnerID
	m.Status = order.Status
	m.PaymentStatus = order.PaymentStatus
	m.TotalPrice = order.TotalPrice
	m.PaidAmount = order.PaidAmount
	m.Residual = order.Residual
	m.Notes = order.Notes
	m.ReceivedTime = order.ReceivedTime
	m.Items = make([]OrderItemModel, len(order.Items))
	for i := range order.Items {
		m.Items[i].FromDomain(&order.Items[i])
	}
}

// OrderItemModel is the persistence model for an order line item.
type OrderItemModel struct {
	BaseModel
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceName   string          `gorm:"type:varchar(200);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	WeightInKg    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IsWeightBased bool            `gorm:"not null;default:false"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *ordering.OrderItem {
	return &ordering.OrderItem{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ServiceID:     m.ServiceID,
		ServiceName:   m.ServiceName,
		UnitPrice:     m.UnitPrice,
		Quantity:      m.Quantity,
		WeightInKg:    m.WeightInKg,
		IsWeightBased: m.IsWeightBased,
		TotalPrice:    m.TotalPrice,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(item *ordering.OrderItem) {
	m.ID = item.ID
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
	m.OrderID = item.OrderID
	m.ServiceID = item.ServiceID
	m.ServiceName = item.ServiceName
	m.UnitPrice = item.UnitPrice
	m.Quantity = item.Quantity
	m.WeightInKg = item.WeightInKg
	m.IsWeightBased = item.IsWeightBased
	m.TotalPrice = item.TotalPrice
}
