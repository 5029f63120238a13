package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	billingapp "github.com/shopcore/backend/internal/application/billing"
	orderingapp "github.com/shopcore/backend/internal/application/ordering"
	"github.com/shopcore/backend/internal/domain/billing"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/ordering"
	"github.com/shopcore/backend/internal/domain/partner"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/uow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== repository fakes ====================

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindActiveByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Service, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Service, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) Save(ctx context.Context, svc *catalog.Service) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*ordering.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*ordering.Order)}
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *memOrderRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ordering.Order, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *memOrderRepo) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.TenantID == tenantID && order.Code == code {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []ordering.Order
	for _, order := range r.orders {
		if order.TenantID == tenantID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (r *memOrderRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	orders, err := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(orders)), err
}

func (r *memOrderRepo) Save(_ context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	return r.Save(ctx, order)
}

func (r *memOrderRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok || order.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

type memSequenceRepo struct {
	mu   sync.Mutex
	rows map[string]*ordering.Sequence
}

func newMemSequenceRepo() *memSequenceRepo {
	return &memSequenceRepo{rows: make(map[string]*ordering.Sequence)}
}

func (r *memSequenceRepo) key(code string, tenantID uuid.UUID) string {
	return code + "/" + tenantID.String()
}

func (r *memSequenceRepo) FindForUpdate(_ context.Context, code string, tenantID uuid.UUID) (*ordering.Sequence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[r.key(code, tenantID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memSequenceRepo) Create(_ context.Context, seq *ordering.Sequence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(seq.Code, seq.TenantID)
	if _, ok := r.rows[key]; ok {
		return shared.ErrAlreadyExists
	}
	cp := *seq
	r.rows[key] = &cp
	return nil
}

func (r *memSequenceRepo) Update(_ context.Context, seq *ordering.Sequence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(seq.Code, seq.TenantID)
	row, ok := r.rows[key]
	if !ok {
		return shared.ErrNotFound
	}
	if row.Version != seq.Version {
		return shared.ErrConcurrencyConflict
	}
	cp := *seq
	cp.Version++
	r.rows[key] = &cp
	return nil
}

type memAllocationRepo struct {
	mu      sync.Mutex
	entries []billing.PaymentAllocation
}

func (r *memAllocationRepo) Append(_ context.Context, entry *billing.PaymentAllocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAllocationRepo) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]billing.PaymentAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var result []billing.PaymentAllocation
	for _, e := range r.entries {
		if e.TenantID == tenantID && wanted[e.ID] {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memAllocationRepo) FindByOrder(_ context.Context, tenantID, orderID uuid.UUID) ([]billing.PaymentAllocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []billing.PaymentAllocation
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *memAllocationRepo) SumByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (decimal.Decimal, error) {
	entries, err := r.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*billing.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[uuid.UUID]*billing.Payment)}
}

func (r *memPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memPaymentRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Payment, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memPaymentRepo) Save(_ context.Context, p *billing.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = p
	return nil
}

type fakeUow struct {
	orders      *memOrderRepo
	sequences   *memSequenceRepo
	payments    *memPaymentRepo
	allocations *memAllocationRepo
}

func (u *fakeUow) Orders() ordering.OrderRepository          { return u.orders }
func (u *fakeUow) Sequences() ordering.SequenceRepository    { return u.sequences }
func (u *fakeUow) Payments() billing.PaymentRepository       { return u.payments }
func (u *fakeUow) Allocations() billing.AllocationRepository { return u.allocations }

type fakeTxManager struct {
	uow *fakeUow
}

func (m *fakeTxManager) Do(_ context.Context, fn func(u uow.UnitOfWork) error) error {
	return fn(m.uow)
}

// ==================== API fixture ====================

// apiFixture wires real application services over in-memory repositories
// behind a gin engine, so tests exercise the full request path.
type apiFixture struct {
	engine   *gin.Engine
	uow      *fakeUow
	partners *MockPartnerRepository
	catalog  *MockServiceRepository
	tenant   uuid.UUID
	actor    uuid.UUID
}

func newAPIFixture() *apiFixture {
	u := &fakeUow{
		orders:      newMemOrderRepo(),
		sequences:   newMemSequenceRepo(),
		payments:    newMemPaymentRepo(),
		allocations: &memAllocationRepo{},
	}
	partners := new(MockPartnerRepository)
	services := new(MockServiceRepository)

	orderService := orderingapp.NewOrderService(&fakeTxManager{uow: u}, u.orders, partners, services, u.allocations)
	allocationService := billingapp.NewAllocationService(&fakeTxManager{uow: u}, u.allocations)

	orderHandler := NewOrderHandler(orderService)
	paymentHandler := NewPaymentHandler(allocationService)

	engine := gin.New()
	api := engine.Group("/api/v1")
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.GetByID)
	api.GET("/orders/code/:code", orderHandler.GetByCode)
	api.PUT("/orders/:id/items/:item_id", orderHandler.UpdateItem)
	api.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	api.DELETE("/orders/:id", orderHandler.Delete)
	api.GET("/orders/:id/allocations", paymentHandler.History)
	api.POST("/billing/payments", paymentHandler.RecordPayment)
	api.POST("/billing/allocations", paymentHandler.Allocate)
	api.POST("/billing/allocations/rollback", paymentHandler.Rollback)

	return &apiFixture{
		engine:   engine,
		uow:      u,
		partners: partners,
		catalog:  services,
		tenant:   uuid.New(),
		actor:    uuid.New(),
	}
}

func (f *apiFixture) seedPartner(t *testing.T) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner(f.tenant, "Daw Mya", "0912345678", "Yangon")
	require.NoError(t, err)
	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	return p
}

func (f *apiFixture) seedServices(t *testing.T) (wash, iron *catalog.Service) {
	t.Helper()
	var err error
	wash, err = catalog.NewService(f.tenant, "Wash & Fold", decimal.NewFromInt(100000), false)
	require.NoError(t, err)
	iron, err = catalog.NewService(f.tenant, "Ironing", decimal.NewFromInt(50000), false)
	require.NoError(t, err)
	f.catalog.On("FindActiveByIDs", mock.Anything, f.tenant, mock.Anything).
		Return([]catalog.Service{*wash, *iron}, nil)
	return wash, iron
}

// request performs an HTTP request against the fixture engine with tenant
// and actor headers set (the development fallback path).
func (f *apiFixture) request(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", f.tenant.String())
	req.Header.Set("X-User-ID", f.actor.String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals the response envelope
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// dataField returns the data object of a success envelope
func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected object data field, got: %s", w.Body.String())
	return data
}

// errorCode returns the error code of an error envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error field, got: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}
