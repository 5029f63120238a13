package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	orderingapp "github.com/shopcore/backend/internal/application/ordering"
	"github.com/shopcore/backend/internal/domain/shared"
)

func createOrderBody(partnerID, washID, ironID uuid.UUID) orderingapp.CreateOrderRequest {
	return orderingapp.CreateOrderRequest{
		PartnerID: partnerID,
		Items: []orderingapp.CreateOrderItemInput{
			{ServiceID: washID, UnitPrice: decimal.NewFromInt(100000), Quantity: decimal.NewFromInt(2)},
			{ServiceID: ironID, UnitPrice: decimal.NewFromInt(50000), Quantity: decimal.NewFromInt(1)},
		},
	}
}

func TestOrderHandler_Create(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)

	w := f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := dataField(t, w)
	assert.Equal(t, "ORD00001", data["code"])
	assert.Equal(t, "RECEIVED", data["status"])
	assert.Equal(t, "UNPAID", data["payment_status"])
	assert.Equal(t, "250000", data["total_price"])
	assert.Equal(t, "250000", data["residual"])
}

func TestOrderHandler_Create_InvalidBody(t *testing.T) {
	f := newAPIFixture()

	w := f.request(t, http.MethodPost, "/api/v1/orders", map[string]any{"items": []any{}}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_Create_PriceMismatch(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, _ := f.seedServices(t)

	body := orderingapp.CreateOrderRequest{
		PartnerID: p.ID,
		Items: []orderingapp.CreateOrderItemInput{
			{ServiceID: wash.ID, UnitPrice: decimal.NewFromInt(90000), Quantity: decimal.NewFromInt(1)},
		},
	}
	w := f.request(t, http.MethodPost, "/api/v1/orders", body, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_PRICE_MISMATCH", errorCode(t, w))
	// Nothing was persisted
	assert.Empty(t, f.uow.orders.orders)
}

func TestOrderHandler_GetByID(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)
	created := f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)
	orderID := dataField(t, created)["id"].(string)

	t.Run("found", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/orders/"+orderID, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ORD00001", dataField(t, w)["code"])
	})

	t.Run("unknown id", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/orders/"+uuid.NewString(), nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/orders/not-a-uuid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_GetByCode(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)
	f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)

	w := f.request(t, http.MethodGet, "/api/v1/orders/code/ORD00001", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ORD00001", dataField(t, w)["code"])
}

func TestOrderHandler_List(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)
	f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)
	f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)

	w := f.request(t, http.MethodGet, "/api/v1/orders?page=1&page_size=10", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total"])

	t.Run("bad page size rejected", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/orders?page_size=5000", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)
	created := f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)
	orderID := dataField(t, created)["id"].(string)

	t.Run("valid transition", func(t *testing.T) {
		w := f.request(t, http.MethodPut, "/api/v1/orders/"+orderID+"/status",
			orderingapp.UpdateOrderStatusRequest{Status: "PROCESSING"}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "PROCESSING", dataField(t, w)["status"])
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		w := f.request(t, http.MethodPut, "/api/v1/orders/"+orderID+"/status",
			orderingapp.UpdateOrderStatusRequest{Status: "TELEPORTED"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_UpdateItem(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)
	created := f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)
	data := dataField(t, created)
	orderID := data["id"].(string)
	items := data["items"].([]any)
	itemID := items[0].(map[string]any)["id"].(string)

	w := f.request(t, http.MethodPut, "/api/v1/orders/"+orderID+"/items/"+itemID,
		orderingapp.UpdateOrderItemRequest{
			Quantity:  decimal.NewFromInt(3),
			UnitPrice: decimal.NewFromInt(100000),
		}, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "350000", dataField(t, w)["total_price"])
}

func TestOrderHandler_Delete(t *testing.T) {
	f := newAPIFixture()
	p := f.seedPartner(t)
	wash, iron := f.seedServices(t)
	created := f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(p.ID, wash.ID, iron.ID), nil)
	orderID := dataField(t, created)["id"].(string)

	w := f.request(t, http.MethodDelete, "/api/v1/orders/"+orderID, nil, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, f.uow.orders.orders)
}

func TestOrderHandler_Create_PartnerMissing(t *testing.T) {
	f := newAPIFixture()
	wash, iron := f.seedServices(t)
	f.partners.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	w := f.request(t, http.MethodPost, "/api/v1/orders", createOrderBody(uuid.New(), wash.ID, iron.ID), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
