package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseCreate_FoldsIntoExistingDetailRow(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Warehouse")
	item := testutil.CreateTestItem(t, env.db, "Shelf", testutil.Price("100"))

	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 1, Year: 2025})
	require.NoError(t, err)
	detailID := audit.DetailsByRoom[0].Details[0].ID

	// Start from 10 active units worth 1000
	ten := 10
	_, err = env.audits.UpdateItemDetail(env.ctx, audit.ID, detailID,
		&domain.UpdateItemDetailRequest{ActiveQuantity: &ten})
	require.NoError(t, err)

	purchase, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  5,
		UnitPrice: decimal.RequireFromString("120"),
	})
	require.NoError(t, err)
	assert.True(t, purchase.TotalCost.Equal(*testutil.Price("600")))
	assert.Equal(t, env.admin.ID, purchase.AddedByID)

	// 10 units at 100 plus 5 at 120 blends to 106.6667 over 15 units
	refreshed, err := env.audits.GetByID(env.ctx, audit.ID)
	require.NoError(t, err)
	detail := refreshed.DetailsByRoom[0].Details[0]
	assert.Equal(t, 15, detail.ActiveQuantity)
	assert.True(t, detail.TotalPrice.Equal(*testutil.Price("1600")), "total price: %s", detail.TotalPrice)
	assert.True(t, detail.UnitPrice.Equal(decimal.RequireFromString("106.6667")), "unit price: %s", detail.UnitPrice)

	// Latest purchase price becomes the master price
	updatedItem, err := env.items.GetByID(env.ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, updatedItem.UnitPrice)
	assert.True(t, updatedItem.UnitPrice.Equal(decimal.RequireFromString("120")))
}

func TestPurchaseCreate_CreatesDetailRowWhenAbsent(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Warehouse")
	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 2, Year: 2025})
	require.NoError(t, err)
	require.Empty(t, audit.DetailsByRoom)

	item := testutil.CreateTestItem(t, env.db, "Cabinet", nil)

	_, err = env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("200"),
	})
	require.NoError(t, err)

	refreshed, err := env.audits.GetByID(env.ctx, audit.ID)
	require.NoError(t, err)
	require.Len(t, refreshed.DetailsByRoom, 1)
	require.Len(t, refreshed.DetailsByRoom[0].Details, 1)
	detail := refreshed.DetailsByRoom[0].Details[0]
	assert.Equal(t, 3, detail.ActiveQuantity)
	assert.True(t, detail.UnitPrice.Equal(decimal.RequireFromString("200")))
	assert.True(t, detail.TotalPrice.Equal(decimal.RequireFromString("600")))
}

func TestPurchaseCreate_WithoutAuditStillRecords(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Basement")
	item := testutil.CreateTestItem(t, env.db, "Heater", nil)

	purchase, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	assert.True(t, purchase.TotalCost.Equal(decimal.RequireFromString("100")))

	var detailCount int64
	require.NoError(t, env.db.Model(&domain.ItemDetail{}).Count(&detailCount).Error)
	assert.Zero(t, detailCount, "no audit exists, so nothing to fold into")
}

func TestPurchaseCreate_RequiresAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Lobby")
	item := testutil.CreateTestItem(t, env.db, "Plant", nil)

	_, err := env.purchases.Create(context.Background(), &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("10"),
	})
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "authentication required", apiErr.Detail)
}

func TestPurchaseCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Lobby")
	item := testutil.CreateTestItem(t, env.db, "Plant", nil)

	_, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  0,
		UnitPrice: decimal.RequireFromString("10"),
	})
	require.Error(t, err)
	assert.Equal(t, 400, asAPIError(t, err).Status)

	_, err = env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    uuid.New(),
		ItemID:    item.ID,
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("10"),
	})
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}

func TestPurchaseUpdate_RecomputesCostWithoutRefolding(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Depot")
	item := testutil.CreateTestItem(t, env.db, "Crate", nil)

	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	purchase, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  4,
		UnitPrice: decimal.RequireFromString("25"),
	})
	require.NoError(t, err)

	newQty := 10
	updated, err := env.purchases.Update(env.ctx, purchase.ID, &domain.UpdateAssetPurchaseRequest{
		Quantity: &newQty,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Quantity)
	assert.True(t, updated.TotalCost.Equal(decimal.RequireFromString("250")), "cost follows quantity: %s", updated.TotalCost)

	// The fold done at creation time stays as it was
	refreshed, err := env.audits.GetByID(env.ctx, audit.ID)
	require.NoError(t, err)
	detail := refreshed.DetailsByRoom[0].Details[0]
	assert.Equal(t, 4, detail.ActiveQuantity)
	assert.True(t, detail.TotalPrice.Equal(decimal.RequireFromString("100")))
}

func TestPurchaseDelete_LeavesFoldIntact(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Depot")
	item := testutil.CreateTestItem(t, env.db, "Crate", nil)

	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 4, Year: 2025})
	require.NoError(t, err)

	purchase, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID:    room.ID,
		ItemID:    item.ID,
		Quantity:  6,
		UnitPrice: decimal.RequireFromString("15"),
	})
	require.NoError(t, err)

	require.NoError(t, env.purchases.Delete(env.ctx, purchase.ID))

	_, err = env.purchases.GetByID(env.ctx, purchase.ID)
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)

	refreshed, err := env.audits.GetByID(env.ctx, audit.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, refreshed.DetailsByRoom[0].Details[0].ActiveQuantity)
}

func TestPurchaseList_Filters(t *testing.T) {
	env := newTestEnv(t)

	roomA := testutil.CreateTestRoom(t, env.db, "Room A")
	roomB := testutil.CreateTestRoom(t, env.db, "Room B")
	item := testutil.CreateTestItem(t, env.db, "Router", nil)

	jan := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	_, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID: roomA.ID, ItemID: item.ID, Quantity: 1,
		UnitPrice: decimal.RequireFromString("99"), PurchaseDate: &jan,
	})
	require.NoError(t, err)
	_, err = env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID: roomB.ID, ItemID: item.ID, Quantity: 2,
		UnitPrice: decimal.RequireFromString("99"), PurchaseDate: &mar,
	})
	require.NoError(t, err)

	byRoom, err := env.purchases.List(env.ctx, domain.PurchaseFilters{RoomID: &roomA.ID})
	require.NoError(t, err)
	require.Len(t, byRoom, 1)
	assert.Equal(t, roomA.ID, byRoom[0].RoomID)

	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	byDate, err := env.purchases.List(env.ctx, domain.PurchaseFilters{StartDate: &feb})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, roomB.ID, byDate[0].RoomID)
}

func TestPurchaseGetSummary(t *testing.T) {
	env := newTestEnv(t)

	roomA := testutil.CreateTestRoom(t, env.db, "Room A")
	roomB := testutil.CreateTestRoom(t, env.db, "Room B")
	item := testutil.CreateTestItem(t, env.db, "Switch", nil)

	_, err := env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID: roomA.ID, ItemID: item.ID, Quantity: 2,
		UnitPrice: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)
	_, err = env.purchases.Create(env.ctx, &domain.CreateAssetPurchaseRequest{
		RoomID: roomB.ID, ItemID: item.ID, Quantity: 3,
		UnitPrice: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)

	summary, err := env.purchases.GetSummary(env.ctx, domain.PurchaseFilters{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalPurchases)
	assert.True(t, summary.TotalCost.Equal(decimal.RequireFromString("500")))

	require.Len(t, summary.ByRoom, 2)
	require.Len(t, summary.ByItem, 1)
	assert.Equal(t, 5, summary.ByItem[0].TotalQuantity)
	assert.True(t, summary.ByItem[0].TotalCost.Equal(decimal.RequireFromString("500")))
	assert.Len(t, summary.ByItem[0].Rooms, 2)
}
