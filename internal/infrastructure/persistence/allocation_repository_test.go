package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/backend/internal/domain/billing"
)

func TestGormAllocationRepository_AppendAndSum(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()
	paymentID := uuid.New()

	sum, err := repo.SumByOrder(ctx, tenantID, orderID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero(), "empty ledger sums to zero")

	entry, err := billing.NewAllocation(tenantID, paymentID, orderID, decimal.NewFromInt(100000))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, entry))

	second, err := billing.NewAllocation(tenantID, paymentID, orderID, decimal.NewFromInt(50000))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, second))

	sum, err = repo.SumByOrder(ctx, tenantID, orderID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(150000)))
}

func TestGormAllocationRepository_ReversalNetsOut(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	orderID := uuid.New()

	entry, err := billing.NewAllocation(tenantID, uuid.New(), orderID, decimal.NewFromInt(100000))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, entry))

	reversal, err := billing.NewReversal(entry)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, reversal))

	sum, err := repo.SumByOrder(ctx, tenantID, orderID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	entries, err := repo.FindByOrder(ctx, tenantID, orderID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "reversal appends, it never deletes")
	assert.Equal(t, billing.EntryTypeReversal, entries[1].EntryType)
	require.NotNil(t, entries[1].ReversalOf)
	assert.Equal(t, entry.ID, *entries[1].ReversalOf)
}

func TestGormAllocationRepository_FindByIDs_ScopedToTenant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	mine, err := billing.NewAllocation(tenantID, uuid.New(), uuid.New(), decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, mine))

	theirs, err := billing.NewAllocation(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(200))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, theirs))

	found, err := repo.FindByIDs(ctx, tenantID, []uuid.UUID{mine.ID, theirs.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mine.ID, found[0].ID)
}

func TestGormAllocationRepository_SumIsolatedPerOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAllocationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	firstOrder := uuid.New()
	secondOrder := uuid.New()

	a, err := billing.NewAllocation(tenantID, uuid.New(), firstOrder, decimal.NewFromInt(300))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, a))

	b, err := billing.NewAllocation(tenantID, uuid.New(), secondOrder, decimal.NewFromInt(700))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, b))

	sum, err := repo.SumByOrder(ctx, tenantID, firstOrder)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(300)))
}
