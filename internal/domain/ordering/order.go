package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/shared"
)

// OrderItem represents a line item on an order. ServiceName and UnitPrice are
// snapshots captured at order time and stay fixed when the catalog price
// changes later.
type OrderItem struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ServiceID     uuid.UUID
	ServiceName   string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	WeightInKg    decimal.Decimal
	IsWeightBased bool
	TotalPrice    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrderItem creates a line item snapshot for a catalog service.
// For weight-based services the weight drives the total; otherwise quantity does.
func NewOrderItem(orderID, serviceID uuid.UUID, serviceName string, unitPrice, quantity, weightInKg decimal.Decimal, isWeightBased bool) (*OrderItem, error) {
	if serviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE", "Service ID cannot be empty")
	}
	if serviceName == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if weightInKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}

	now := time.Now()
	item := &OrderItem{
		ID:            uuid.New(),
		OrderID:       orderID,
		ServiceID:     serviceID,
		ServiceName:   serviceName,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		WeightInKg:    weightInKg,
		IsWeightBased: isWeightBased,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	item.Recompute()
	return item, nil
}

// Recompute derives TotalPrice from the snapshot price and the billed
// quantity (weight for weight-based items). Idempotent.
func (i *OrderItem) Recompute() {
	if i.IsWeightBased {
		i.TotalPrice = i.UnitPrice.Mul(i.WeightInKg)
	} else {
		i.TotalPrice = i.UnitPrice.Mul(i.Quantity)
	}
}

// Update replaces quantity, unit price and weight, then recomputes the total
func (i *OrderItem) Update(quantity, unitPrice, weightInKg decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if weightInKg.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}

	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.WeightInKg = weightInKg
	i.Recompute()
	i.UpdatedAt = time.Now()

	return nil
}

// Order is the aggregate root for a shop order. PaidAmount is never maintained
// independently: it mirrors the allocation ledger sum supplied to RefreshTotals.
type Order struct {
	shared.TenantAggregateRoot
	Code          string
	PartnerID     uuid.UUID
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TotalPrice    decimal.Decimal
	PaidAmount    decimal.Decimal
	Residual      decimal.Decimal
	Notes         string
	ReceivedTime  *time.Time
	Items         []OrderItem
}

// NewOrder creates a new order in the Received state with zero totals.
// code must come from the sequence allocator, it is unique within the tenant.
func NewOrder(tenantID uuid.UUID, code string, partnerID uuid.UUID, actorID uuid.UUID) (*Order, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Order code cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}

	now := time.Now()
	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, actorID),
		Code:                code,
		PartnerID:           partnerID,
		Status:              OrderStatusReceived,
		PaymentStatus:       PaymentStatusUnpaid,
		TotalPrice:          decimal.Zero,
		PaidAmount:          decimal.Zero,
		Residual:            decimal.Zero,
		ReceivedTime:        &now,
		Items:               make([]OrderItem, 0),
	}
	return order, nil
}

// AddItem appends a line item snapshot and refreshes the order totals
func (o *Order) AddItem(serviceID uuid.UUID, serviceName string, unitPrice, quantity, weightInKg decimal.Decimal, isWeightBased bool) (*OrderItem, error) {
	item, err := NewOrderItem(o.ID, serviceID, serviceName, unitPrice, quantity, weightInKg, isWeightBased)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.RefreshTotals(o.PaidAmount)
	o.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItem updates an existing line item and refreshes the order totals.
// The ledger sum is unchanged by an item edit, so the current PaidAmount is reused.
func (o *Order) UpdateItem(itemID uuid.UUID, quantity, unitPrice, weightInKg decimal.Decimal) error {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].Update(quantity, unitPrice, weightInKg); err != nil {
				return err
			}
			o.RefreshTotals(o.PaidAmount)
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RefreshTotals recomputes TotalPrice from item totals and Residual from the
// given ledger sum. Safe to call repeatedly; it is a pure function of current
// state plus the supplied paid amount.
func (o *Order) RefreshTotals(paidAmount decimal.Decimal) {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalPrice = total
	o.PaidAmount = paidAmount
	o.Residual = total.Sub(paidAmount)

	switch {
	case paidAmount.LessThanOrEqual(decimal.Zero):
		o.PaymentStatus = PaymentStatusUnpaid
	case paidAmount.GreaterThanOrEqual(total):
		o.PaymentStatus = PaymentStatusPaid
	default:
		o.PaymentStatus = PaymentStatusPartial
	}
}

// TransitionTo moves the order to a new status. Entering Received for the
// first time stamps ReceivedTime.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	if target == OrderStatusReceived && o.ReceivedTime == nil {
		o.ReceivedTime = &now
	}
	o.Status = target
	o.UpdatedAt = now

	return nil
}

// CanDelete reports whether the order may be removed. An order that shows a
// non-zero total fully covered by payments is an audit record and must stay.
func (o *Order) CanDelete() bool {
	if o.TotalPrice.IsPositive() && o.Residual.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return true
}

// SetNotes sets the order notes
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items on the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}
