package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/shopcore/backend/internal/application/billing"
)

// PaymentHandler handles payment and allocation ledger API endpoints
type PaymentHandler struct {
	BaseHandler
	allocationService *billingapp.AllocationService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(allocationService *billingapp.AllocationService) *PaymentHandler {
	return &PaymentHandler{
		allocationService: allocationService,
	}
}

// RecordPayment handles POST /payments. The payment is numbered from the
// payment sequence and its amount applied across the listed orders in one
// transaction. An Idempotency-Key header deduplicates retries.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req billingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.allocationService.RecordPayment(c.Request.Context(), tenantID, actorID, req, getIdempotencyKey(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// Allocate handles POST /allocations, applying part of an existing payment
// to an order
func (h *PaymentHandler) Allocate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.allocationService.Allocate(c.Request.Context(), tenantID, req, getIdempotencyKey(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Rollback handles POST /allocations/rollback. The original entries stay in
// the ledger; reversal entries are appended and the order refreshed.
func (h *PaymentHandler) Rollback(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.allocationService.Rollback(c.Request.Context(), tenantID, req, getIdempotencyKey(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// History handles GET /orders/:id/allocations, returning the full ledger
// history for one order in entry order
func (h *PaymentHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	entries, err := h.allocationService.History(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}
