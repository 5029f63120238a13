package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestOrder(t *testing.T) *Order {
	tenantID := uuid.New()
	partnerID := uuid.New()
	order, err := NewOrder(tenantID, "ORD00001", partnerID, uuid.New())
	require.NoError(t, err)
	return order
}

func addTestItem(t *testing.T, order *Order, name string, price, qty int64) *OrderItem {
	item, err := order.AddItem(uuid.New(), name, decimal.NewFromInt(price), decimal.NewFromInt(qty), decimal.Zero, false)
	require.NoError(t, err)
	return item
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusReceived, true},
		{OrderStatusProcessing, true},
		{OrderStatusCompleted, true},
		{OrderStatusDelivered, true},
		{OrderStatus("CANCELLED"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	// The current workflow admits every transition between known states
	states := []OrderStatus{OrderStatusReceived, OrderStatusProcessing, OrderStatusCompleted, OrderStatusDelivered}
	for _, from := range states {
		for _, to := range states {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s should be allowed", from, to)
		}
	}

	assert.False(t, OrderStatusReceived.CanTransitionTo(OrderStatus("CANCELLED")))
}

// ============================================
// OrderItem Tests
// ============================================

func TestNewOrderItem(t *testing.T) {
	orderID := uuid.New()
	serviceID := uuid.New()

	t.Run("quantity-based item", func(t *testing.T) {
		item, err := NewOrderItem(orderID, serviceID, "Wash & Fold", decimal.NewFromInt(100000), decimal.NewFromInt(2), decimal.Zero, false)
		require.NoError(t, err)
		assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(200000)))
	})

	t.Run("weight-based item uses weight, not quantity", func(t *testing.T) {
		item, err := NewOrderItem(orderID, serviceID, "Bulk Wash", decimal.NewFromInt(5000), decimal.NewFromInt(1), decimal.NewFromFloat(2.5), true)
		require.NoError(t, err)
		assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(12500)))
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewOrderItem(orderID, serviceID, "Wash", decimal.NewFromInt(100), decimal.NewFromInt(-1), decimal.Zero, false)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewOrderItem(orderID, serviceID, "Wash", decimal.NewFromInt(-100), decimal.NewFromInt(1), decimal.Zero, false)
		assert.Error(t, err)
	})

	t.Run("rejects negative weight", func(t *testing.T) {
		_, err := NewOrderItem(orderID, serviceID, "Wash", decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.NewFromFloat(-0.5), true)
		assert.Error(t, err)
	})

	t.Run("rejects empty service name", func(t *testing.T) {
		_, err := NewOrderItem(orderID, serviceID, "", decimal.NewFromInt(100), decimal.NewFromInt(1), decimal.Zero, false)
		assert.Error(t, err)
	})
}

func TestOrderItem_Recompute_Idempotent(t *testing.T) {
	item, err := NewOrderItem(uuid.New(), uuid.New(), "Iron", decimal.NewFromInt(300), decimal.NewFromInt(4), decimal.Zero, false)
	require.NoError(t, err)

	first := item.TotalPrice
	item.Recompute()
	item.Recompute()
	assert.True(t, first.Equal(item.TotalPrice))
}

// ============================================
// Order Tests
// ============================================

func TestNewOrder(t *testing.T) {
	t.Run("starts received and unpaid", func(t *testing.T) {
		order := createTestOrder(t)
		assert.Equal(t, OrderStatusReceived, order.Status)
		assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)
		assert.True(t, order.TotalPrice.IsZero())
		assert.True(t, order.PaidAmount.IsZero())
		assert.True(t, order.Residual.IsZero())
		require.NotNil(t, order.ReceivedTime)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "", uuid.New(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("rejects nil partner", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "ORD00001", uuid.Nil, uuid.New())
		assert.Error(t, err)
	})
}

func TestOrder_AddItem_TotalsFollowItems(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Wash", 100000, 2)
	addTestItem(t, order, "Iron", 50000, 1)

	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(250000)))
	assert.True(t, order.Residual.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, 2, order.ItemCount())
}

func TestOrder_UpdateItem(t *testing.T) {
	order := createTestOrder(t)
	item := addTestItem(t, order, "Wash", 100000, 2)

	t.Run("recomputes item and order totals", func(t *testing.T) {
		err := order.UpdateItem(item.ID, decimal.NewFromInt(3), decimal.NewFromInt(100000), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(300000)))
		assert.True(t, order.Residual.Equal(decimal.NewFromInt(300000)))
	})

	t.Run("rejects negative inputs", func(t *testing.T) {
		err := order.UpdateItem(item.ID, decimal.NewFromInt(-3), decimal.NewFromInt(100000), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("unknown item", func(t *testing.T) {
		err := order.UpdateItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)
		assert.Error(t, err)
	})
}

func TestOrder_RefreshTotals(t *testing.T) {
	order := createTestOrder(t)
	addTestItem(t, order, "Wash", 100000, 2)
	addTestItem(t, order, "Iron", 50000, 1)

	t.Run("residual tracks ledger sum", func(t *testing.T) {
		order.RefreshTotals(decimal.NewFromInt(100000))
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(250000)))
		assert.True(t, order.PaidAmount.Equal(decimal.NewFromInt(100000)))
		assert.True(t, order.Residual.Equal(decimal.NewFromInt(150000)))
		assert.Equal(t, PaymentStatusPartial, order.PaymentStatus)
	})

	t.Run("fully paid", func(t *testing.T) {
		order.RefreshTotals(decimal.NewFromInt(250000))
		assert.True(t, order.Residual.IsZero())
		assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
	})

	t.Run("back to unpaid after full reversal", func(t *testing.T) {
		order.RefreshTotals(decimal.Zero)
		assert.True(t, order.Residual.Equal(decimal.NewFromInt(250000)))
		assert.Equal(t, PaymentStatusUnpaid, order.PaymentStatus)
	})

	t.Run("idempotent", func(t *testing.T) {
		order.RefreshTotals(decimal.NewFromInt(100000))
		order.RefreshTotals(decimal.NewFromInt(100000))
		assert.True(t, order.Residual.Equal(decimal.NewFromInt(150000)))
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.TransitionTo(OrderStatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusProcessing, order.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		order := createTestOrder(t)
		err := order.TransitionTo(OrderStatus("CANCELLED"))
		assert.Error(t, err)
	})

	t.Run("first entry into received stamps ReceivedTime", func(t *testing.T) {
		order := createTestOrder(t)
		order.ReceivedTime = nil
		order.Status = OrderStatusProcessing

		err := order.TransitionTo(OrderStatusReceived)
		require.NoError(t, err)
		require.NotNil(t, order.ReceivedTime)

		stamped := *order.ReceivedTime
		require.NoError(t, order.TransitionTo(OrderStatusProcessing))
		require.NoError(t, order.TransitionTo(OrderStatusReceived))
		assert.Equal(t, stamped, *order.ReceivedTime, "ReceivedTime must not move on re-entry")
	})
}

func TestOrder_CanDelete(t *testing.T) {
	t.Run("zero-total order is deletable", func(t *testing.T) {
		order := createTestOrder(t)
		assert.True(t, order.CanDelete())
	})

	t.Run("unpaid order with total is deletable", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Wash", 100000, 1)
		assert.True(t, order.CanDelete())
	})

	t.Run("fully paid order is not deletable", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Wash", 100000, 1)
		order.RefreshTotals(decimal.NewFromInt(100000))
		assert.False(t, order.CanDelete())
	})

	t.Run("overpaid order is not deletable", func(t *testing.T) {
		order := createTestOrder(t)
		addTestItem(t, order, "Wash", 100000, 1)
		order.RefreshTotals(decimal.NewFromInt(150000))
		assert.False(t, order.CanDelete())
	})
}

func TestOrder_ExactDecimalSums(t *testing.T) {
	// Repeated decimal additions must not drift
	order := createTestOrder(t)
	for range 100 {
		item, err := order.AddItem(uuid.New(), "Wash", decimal.NewFromFloat(0.1), decimal.NewFromInt(3), decimal.Zero, false)
		require.NoError(t, err)
		require.True(t, item.TotalPrice.Equal(decimal.NewFromFloat(0.3)))
	}
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(30)))
}
