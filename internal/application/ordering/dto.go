package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/ordering"
)

// ==================== Order DTOs ====================

// CreateOrderRequest represents a request to create a new order
type CreateOrderRequest struct {
	PartnerID uuid.UUID              `json:"partner_id" binding:"required"`
	Items     []CreateOrderItemInput `json:"items" binding:"required,min=1"`
	Notes     string                 `json:"notes"`
}

// CreateOrderItemInput represents an item in the create order request.
// UnitPrice is the price the caller saw; it must match the catalog's current
// price or the whole request is rejected.
type CreateOrderItemInput struct {
	ServiceID  uuid.UUID       `json:"service_id" binding:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	WeightInKg decimal.Decimal `json:"weight_in_kg"`
}

// UpdateOrderItemRequest represents a request to update an order item
type UpdateOrderItemRequest struct {
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	WeightInKg decimal.Decimal `json:"weight_in_kg"`
}

// UpdateOrderStatusRequest represents a request to change an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search    string     `form:"search"`
	PartnerID *uuid.UUID `form:"partner_id"`
	Status    *string    `form:"status"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"min=1"`
	PageSize  int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order item in API responses
type OrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ServiceID     uuid.UUID       `json:"service_id"`
	ServiceName   string          `json:"service_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	WeightInKg    decimal.Decimal `json:"weight_in_kg"`
	IsWeightBased bool            `json:"is_weight_based"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	TenantID      uuid.UUID           `json:"tenant_id"`
	Code          string              `json:"code"`
	PartnerID     uuid.UUID           `json:"partner_id"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	Residual      decimal.Decimal     `json:"residual"`
	Notes         string              `json:"notes"`
	ReceivedTime  *time.Time          `json:"received_time,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	ItemCount     int                 `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Version       int                 `json:"version"`
}

// ToOrderItemResponse converts a domain order item to its response DTO
func ToOrderItemResponse(item *ordering.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:            item.ID,
		ServiceID:     item.ServiceID,
		ServiceName:   item.ServiceName,
		UnitPrice:     item.UnitPrice,
		Quantity:      item.Quantity,
		WeightInKg:    item.WeightInKg,
		IsWeightBased: item.IsWeightBased,
		TotalPrice:    item.TotalPrice,
	}
}

// ToOrderResponse converts a domain order to its response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for idx := range order.Items {
		items = append(items, ToOrderItemResponse(&order.Items[idx]))
	}

	return OrderResponse{
		ID:            order.ID,
		TenantID:      order.TenantID,
		Code:          order.Code,
		PartnerID:     order.PartnerID,
		Status:        order.Status.String(),
		PaymentStatus: order.PaymentStatus.String(),
		TotalPrice:    order.TotalPrice,
		PaidAmount:    order.PaidAmount,
		Residual:      order.Residual,
		Notes:         order.Notes,
		ReceivedTime:  order.ReceivedTime,
		Items:         items,
		ItemCount:     order.ItemCount(),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Version:       order.Version,
	}
}

// ToOrderResponses converts a slice of domain orders to response DTOs
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		responses = append(responses, ToOrderResponse(&orders[idx]))
	}
	return responses
}
