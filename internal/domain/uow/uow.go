// Package uow defines the explicit transaction boundary for the billing core.
// Every core operation runs inside Manager.Do; the UnitOfWork handle exposes
// repositories bound to that one transaction, so a counter increment, order
// write and ledger append commit or roll back together. Cancellation of the
// supplied context aborts the whole transaction.
package uow

import (
	"context"

	"github.com/shopcore/backend/internal/domain/billing"
	"github.com/shopcore/backend/internal/domain/ordering"
)

// UnitOfWork exposes the transactional repositories of one atomic scope
type UnitOfWork interface {
	Orders() ordering.OrderRepository
	Sequences() ordering.SequenceRepository
	Payments() billing.PaymentRepository
	Allocations() billing.AllocationRepository
}

// Manager opens transactions. fn runs inside one transaction; returning an
// error rolls everything back, returning nil commits.
type Manager interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
}
