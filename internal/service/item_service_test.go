package service_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	env := newTestEnv(t)

	item, err := env.items.Create(env.ctx, &domain.CreateItemRequest{
		Name:      "Whiteboard",
		Category:  "Furniture",
		Unit:      "pcs",
		UnitPrice: testutil.Price("45.50"),
	})
	require.NoError(t, err)
	require.NotNil(t, item.UnitPrice)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("45.50")))

	updated, err := env.items.Update(env.ctx, item.ID, &domain.UpdateItemRequest{
		UnitPrice: testutil.Price("50"),
	})
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, "Whiteboard", updated.Name)

	items, err := env.items.List(env.ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, env.items.Delete(env.ctx, item.ID))

	_, err = env.items.GetByID(env.ctx, item.ID)
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}

func TestItemCreate_RejectsNegativePrice(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.items.Create(env.ctx, &domain.CreateItemRequest{
		Name:      "Broken Price",
		UnitPrice: testutil.Price("-1"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, asAPIError(t, err).Status)
}

func TestItemDelete_RestrictedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Storage")
	item := testutil.CreateTestItem(t, env.db, "Referenced Item", nil)

	_, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("5"),
	})
	require.NoError(t, err)

	err = env.items.Delete(env.ctx, item.ID)
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "cannot be deleted")
}
