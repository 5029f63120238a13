package ordering

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shopcore/backend/internal/domain/billing"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/ordering"
	"github.com/shopcore/backend/internal/domain/partner"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/uow"
)

// OrderService orchestrates the order lifecycle: creation, item edits, status
// transitions and deletion. Every mutation runs inside one transaction so a
// failure rolls back the sequence increment and all row writes together.
type OrderService struct {
	txm         uow.Manager
	orders      ordering.OrderRepository
	partners    partner.Repository
	services    catalog.Repository
	allocations billing.AllocationRepository
}

// NewOrderService creates a new OrderService. The orders/allocations repos
// here serve reads outside a transaction; writes go through the tx manager.
func NewOrderService(
	txm uow.Manager,
	orders ordering.OrderRepository,
	partners partner.Repository,
	services catalog.Repository,
	allocations billing.AllocationRepository,
) *OrderService {
	return &OrderService{
		txm:         txm,
		orders:      orders,
		partners:    partners,
		services:    services,
		allocations: allocations,
	}
}

// Create creates a new order for a tenant. Validation (partner ownership,
// service availability, price staleness) happens before anything is written.
func (s *OrderService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	p, err := s.partners.FindByID(ctx, req.PartnerID)
	if err != nil {
		return nil, err
	}
	if !p.BelongsTo(tenantID) {
		return nil, shared.ErrAccessDenied
	}

	serviceByID, err := s.resolveServices(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	// Guard against a UI operating on stale catalog data: the submitted unit
	// price must match the authoritative current price exactly.
	for _, item := range req.Items {
		svc := serviceByID[item.ServiceID]
		if !item.UnitPrice.Equal(svc.UnitPrice) {
			return nil, shared.NewDomainError("PRICE_MISMATCH",
				fmt.Sprintf("Submitted price for service %q does not match the current price", svc.Name))
		}
	}

	var response OrderResponse
	err = s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		allocator := ordering.NewSequenceAllocator(u.Sequences())
		code, err := allocator.NextReference(ctx, ordering.OrderSequenceCode, tenantID)
		if err != nil {
			return err
		}

		order, err := ordering.NewOrder(tenantID, code, req.PartnerID, actorID)
		if err != nil {
			return err
		}
		if req.Notes != "" {
			order.SetNotes(req.Notes)
		}

		for _, item := range req.Items {
			svc := serviceByID[item.ServiceID]
			if _, err := order.AddItem(svc.ID, svc.Name, svc.UnitPrice, item.Quantity, item.WeightInKg, svc.IsWeightBased); err != nil {
				return err
			}
		}

		if err := u.Orders().Save(ctx, order); err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// resolveServices loads the distinct requested services and fails with
// NOT_FOUND when any of them is missing or inactive.
func (s *OrderService) resolveServices(ctx context.Context, tenantID uuid.UUID, items []CreateOrderItemInput) (map[uuid.UUID]*catalog.Service, error) {
	distinct := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ServiceID] {
			seen[item.ServiceID] = true
			distinct = append(distinct, item.ServiceID)
		}
	}

	services, err := s.services.FindActiveByIDs(ctx, tenantID, distinct)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Service, len(services))
	for idx := range services {
		byID[services[idx].ID] = &services[idx]
	}
	for _, id := range distinct {
		if _, ok := byID[id]; !ok {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Service %s not found or inactive", id))
		}
	}
	return byID, nil
}

// GetByID retrieves an order by ID for a tenant
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByCode retrieves an order by its reference code
func (s *OrderService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*OrderResponse, error) {
	order, err := s.orders.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders for a tenant with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.PartnerID != nil {
		domainFilter.Filters["partner_id"] = *filter.PartnerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orders.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// UpdateItem updates one line item and refreshes the parent order totals from
// the allocation ledger.
func (s *OrderService) UpdateItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderResponse, error) {
	if req.Quantity.IsNegative() || req.UnitPrice.IsNegative() || req.WeightInKg.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity, unit price and weight cannot be negative")
	}

	var response OrderResponse
	err := s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		order, err := u.Orders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.UpdateItem(itemID, req.Quantity, req.UnitPrice, req.WeightInKg); err != nil {
			return err
		}

		paid, err := u.Allocations().SumByOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		order.RefreshTotals(paid)

		if err := u.Orders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateStatus moves an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID, actorID uuid.UUID, newStatus string) (*OrderResponse, error) {
	status := ordering.OrderStatus(newStatus)
	if !status.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Unknown order status %q", newStatus))
	}

	var response OrderResponse
	err := s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		order, err := u.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.TenantID != tenantID {
			return shared.ErrAccessDenied
		}

		if err := order.TransitionTo(status); err != nil {
			return err
		}
		if err := u.Orders().SaveWithLock(ctx, order); err != nil {
			return err
		}
		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Delete removes an order and its items. An order whose non-zero total is
// fully covered by payments is an audit record and cannot be deleted.
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	return s.txm.Do(ctx, func(u uow.UnitOfWork) error {
		order, err := u.Orders().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		// Residual is re-derived from the ledger so the rule cannot be
		// bypassed by a stale stored value.
		paid, err := u.Allocations().SumByOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		order.RefreshTotals(paid)

		if !order.CanDelete() {
			return shared.NewDomainError("BUSINESS_RULE_VIOLATION", "Cannot delete an order that has been paid")
		}
		return u.Orders().DeleteForTenant(ctx, tenantID, orderID)
	})
}
