package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/billing"
)

// ==================== Payment DTOs ====================

// RecordPaymentRequest records money received and how it is applied to orders
type RecordPaymentRequest struct {
	Amount      decimal.Decimal   `json:"amount" binding:"required"`
	Method      string            `json:"method" binding:"required"`
	Date        *time.Time        `json:"date"`
	Note        string            `json:"note"`
	Allocations []AllocationInput `json:"allocations" binding:"required,min=1"`
}

// AllocationInput applies part of a payment to one order
type AllocationInput struct {
	OrderID uuid.UUID       `json:"order_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// AllocateRequest applies an amount of an existing payment to an order
type AllocateRequest struct {
	PaymentID uuid.UUID       `json:"payment_id" binding:"required"`
	OrderID   uuid.UUID       `json:"order_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// RollbackRequest reverses a set of ledger entries for one order
type RollbackRequest struct {
	OrderID  uuid.UUID   `json:"order_id" binding:"required"`
	EntryIDs []uuid.UUID `json:"entry_ids" binding:"required,min=1"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	Code      string          `json:"code"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

// AllocationResponse represents one ledger entry in API responses
type AllocationResponse struct {
	ID         uuid.UUID       `json:"id"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	Amount     decimal.Decimal `json:"amount"`
	EntryType  string          `json:"entry_type"`
	ReversalOf *uuid.UUID      `json:"reversal_of,omitempty"`
	EntryDate  time.Time       `json:"entry_date"`
}

// ToPaymentResponse converts a domain payment to its response DTO
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Code:      p.Code,
		Amount:    p.Amount,
		Method:    p.Method.String(),
		Date:      p.Date,
		Note:      p.Note,
		CreatedAt: p.CreatedAt,
	}
}

// ToAllocationResponse converts a ledger entry to its response DTO
func ToAllocationResponse(a *billing.PaymentAllocation) AllocationResponse {
	return AllocationResponse{
		ID:         a.ID,
		PaymentID:  a.PaymentID,
		OrderID:    a.OrderID,
		Amount:     a.Amount,
		EntryType:  a.EntryType.String(),
		ReversalOf: a.ReversalOf,
		EntryDate:  a.EntryDate,
	}
}

// ToAllocationResponses converts a slice of ledger entries to response DTOs
func ToAllocationResponses(entries []billing.PaymentAllocation) []AllocationResponse {
	responses := make([]AllocationResponse, 0, len(entries))
	for idx := range entries {
		responses = append(responses, ToAllocationResponse(&entries[idx]))
	}
	return responses
}
