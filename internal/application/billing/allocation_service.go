package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/backend/internal/domain/billing"
	"github.com/shopcore/backend/internal/domain/ordering"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/uow"
)

// AllocationService maintains the payment allocation ledger. Every mutation
// appends rows and refreshes the touched order inside one transaction; the
// ledger itself is never edited in place.
type AllocationService struct {
	txm         uow.Manager
	allocations billing.AllocationRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(txm uow.Manager, allocations billing.AllocationRepository) *AllocationService {
	return &AllocationService{
		txm:         txm,
		allocations: allocations,
		idemConfig:  shared.DefaultIdempotencyConfig(),
	}
}

// SetIdempotencyStore enables request-key deduplication for mutations.
// Without a store, idempotency keys are ignored.
func (s *AllocationService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemConfig = cfg
}

// checkIdempotency marks the key and fails when it was already applied
func (s *AllocationService) checkIdempotency(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL)
	if err != nil {
		return fmt.Errorf("idempotency check failed: %w", err)
	}
	if !fresh {
		return shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
	}
	return nil
}

// RecordPayment creates a payment (numbered by the sequence allocator) and
// applies its amount across one or more orders in a single transaction.
func (s *AllocationService) RecordPayment(ctx context.Context, tenantID, actorID uuid.UUID, req RecordPaymentRequest, idempotencyKey string) (*PaymentResponse, error) {
	method := billing.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown payment method %q", req.Method))
	}

	allocated := decimal.Zero
	for _, a := range req.Allocations {
		if a.Amount.IsNegative() || a.Amount.IsZero() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Allocation amounts must be positive")
		}
		allocated = allocated.Add(a.Amount)
	}
	if allocated.GreaterThan(req.Amount) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Allocations exceed the payment amount")
	}

	if err := s.checkIdempotency(ctx, idempotencyKey); err != nil {
		return nil, err
	}

	var response PaymentResponse
	err := s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		allocator := ordering.NewSequenceAllocator(u.Sequences())
		code, err := allocator.NextReference(ctx, ordering.PaymentSequenceCode, tenantID)
		if err != nil {
			return err
		}

		var date = timeOrNow(req.Date)
		payment, err := billing.NewPayment(tenantID, code, req.Amount, method, date, req.Note, actorID)
		if err != nil {
			return err
		}
		if err := u.Payments().Save(ctx, payment); err != nil {
			return err
		}

		for _, a := range req.Allocations {
			if err := s.allocateInTx(ctx, u, tenantID, payment.ID, a.OrderID, a.Amount); err != nil {
				return err
			}
		}

		response = ToPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Allocate applies an amount of an existing payment to an order
func (s *AllocationService) Allocate(ctx context.Context, tenantID uuid.UUID, req AllocateRequest, idempotencyKey string) error {
	if err := s.checkIdempotency(ctx, idempotencyKey); err != nil {
		return err
	}

	return s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		if _, err := u.Payments().FindByIDForTenant(ctx, tenantID, req.PaymentID); err != nil {
			return err
		}
		return s.allocateInTx(ctx, u, tenantID, req.PaymentID, req.OrderID, req.Amount)
	})
}

// allocateInTx appends one ledger row and refreshes the order totals from the
// new ledger sum, all on the transaction's repositories.
func (s *AllocationService) allocateInTx(ctx context.Context, u uow.UnitOfWork, tenantID, paymentID, orderID uuid.UUID, amount decimal.Decimal) error {
	order, err := u.Orders().FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}

	entry, err := billing.NewAllocation(tenantID, paymentID, orderID, amount)
	if err != nil {
		return err
	}
	if err := u.Allocations().Append(ctx, entry); err != nil {
		return err
	}

	paid, err := u.Allocations().SumByOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	order.RefreshTotals(paid)

	return u.Orders().SaveWithLock(ctx, order)
}

// Rollback reverses the given ledger entries for an order. Each reversal is a
// new row that back-references the original; nothing is deleted, so the full
// history stays queryable. Rolling back twice appends twice; the ledger is
// append-only, not idempotent by value.
func (s *AllocationService) Rollback(ctx context.Context, tenantID uuid.UUID, req RollbackRequest, idempotencyKey string) error {
	if err := s.checkIdempotency(ctx, idempotencyKey); err != nil {
		return err
	}

	return s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		order, err := u.Orders().FindByIDForTenant(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}

		entries, err := u.Allocations().FindByIDs(ctx, tenantID, req.EntryIDs)
		if err != nil {
			return err
		}
		if len(entries) != len(req.EntryIDs) {
			return shared.NewDomainError("NOT_FOUND", "One or more ledger entries were not found")
		}

		for idx := range entries {
			if entries[idx].OrderID != req.OrderID {
				return shared.NewDomainError("VALIDATION_ERROR",
					fmt.Sprintf("Ledger entry %s does not belong to order %s", entries[idx].ID, req.OrderID))
			}
			reversal, err := billing.NewReversal(&entries[idx])
			if err != nil {
				return err
			}
			if err := u.Allocations().Append(ctx, reversal); err != nil {
				return err
			}
		}

		paid, err := u.Allocations().SumByOrder(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}
		order.RefreshTotals(paid)

		return u.Orders().SaveWithLock(ctx, order)
	})
}

// History returns the full allocation history for an order, oldest first
func (s *AllocationService) History(ctx context.Context, tenantID, orderID uuid.UUID) ([]AllocationResponse, error) {
	entries, err := s.allocations.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	return ToAllocationResponses(entries), nil
}
