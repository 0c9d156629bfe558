package service_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditCreate_FirstAuditSeedsRoomItemCrossProduct(t *testing.T) {
	env := newTestEnv(t)

	testutil.CreateTestRoom(t, env.db, "Lab A")
	testutil.CreateTestRoom(t, env.db, "Lab B")
	testutil.CreateTestItem(t, env.db, "Chair", testutil.Price("100"))
	testutil.CreateTestItem(t, env.db, "Projector", nil)

	dto, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 1, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, domain.AuditStatusInProgress, dto.Status)
	require.Len(t, dto.DetailsByRoom, 2)

	rows := 0
	for _, group := range dto.DetailsByRoom {
		for _, d := range group.Details {
			rows++
			assert.Zero(t, d.ActiveQuantity)
			assert.Zero(t, d.BrokenQuantity)
			assert.Zero(t, d.InactiveQuantity)
			assert.True(t, d.TotalPrice.IsZero())
			require.NotNil(t, d.Item)
			if d.Item.Name == "Chair" {
				assert.True(t, d.UnitPrice.Equal(*testutil.Price("100")))
			} else {
				assert.True(t, d.UnitPrice.IsZero())
			}
		}
	}
	assert.Equal(t, 4, rows)
}

func TestAuditCreate_RejectsDuplicatePeriod(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	_, err = env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 3, Year: 2025})
	require.Error(t, err)

	apiErr := asAPIError(t, err)
	assert.Equal(t, 409, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "already exists")
}

func TestAuditCreate_CarriesForwardPriorCounts(t *testing.T) {
	env := newTestEnv(t)

	testutil.CreateTestRoom(t, env.db, "Storage")
	testutil.CreateTestItem(t, env.db, "Desk", testutil.Price("100"))

	first, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{
		Month:          1,
		Year:           2025,
		ParticipantIDs: []uuid.UUID{env.admin.ID},
	})
	require.NoError(t, err)
	require.Len(t, first.DetailsByRoom, 1)
	require.Len(t, first.DetailsByRoom[0].Details, 1)

	active, broken := 5, 1
	_, err = env.audits.UpdateItemDetail(env.ctx, first.ID, first.DetailsByRoom[0].Details[0].ID,
		&domain.UpdateItemDetailRequest{ActiveQuantity: &active, BrokenQuantity: &broken})
	require.NoError(t, err)

	second, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 2, Year: 2025})
	require.NoError(t, err)

	require.Len(t, second.DetailsByRoom, 1)
	require.Len(t, second.DetailsByRoom[0].Details, 1)
	carried := second.DetailsByRoom[0].Details[0]
	assert.Equal(t, 5, carried.ActiveQuantity)
	assert.Equal(t, 1, carried.BrokenQuantity)
	assert.Equal(t, 0, carried.InactiveQuantity)
	assert.True(t, carried.UnitPrice.Equal(*testutil.Price("100")), "unit price carried: %s", carried.UnitPrice)
	assert.True(t, carried.TotalPrice.Equal(*testutil.Price("600")), "total price recomputed: %s", carried.TotalPrice)

	// Participants default to the prior audit's set when none supplied
	require.Len(t, second.Participants, 1)
	assert.Equal(t, env.admin.ID, second.Participants[0].ID)
}

func TestAuditGetLatest(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.audits.GetLatest(env.ctx)
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "no audits found", apiErr.Detail)

	_, err = env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 5, Year: 2024})
	require.NoError(t, err)
	_, err = env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 2, Year: 2025})
	require.NoError(t, err)

	latest, err := env.audits.GetLatest(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Month)
	assert.Equal(t, 2025, latest.Year)
}

func TestAuditUpdate_StatusLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 4, Year: 2025})
	require.NoError(t, err)

	updated, err := env.audits.Update(env.ctx, created.ID, &domain.UpdateAuditRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, domain.AuditStatusCompleted, updated.Status)

	// Terminal states never transition again
	_, err = env.audits.Update(env.ctx, created.ID, &domain.UpdateAuditRequest{Status: "canceled"})
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "can no longer change")

	_, err = env.audits.Update(env.ctx, created.ID, &domain.UpdateAuditRequest{Status: "bogus"})
	require.Error(t, err)
	assert.Equal(t, 400, asAPIError(t, err).Status)
}

func TestAuditUpdate_NoOpProducesNoHistory(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 6, Year: 2025, Notes: "initial"})
	require.NoError(t, err)

	before := env.historyCount(t, domain.EntityTypeAudit, domain.ActionTypeUpdate)

	_, err = env.audits.Update(env.ctx, created.ID, &domain.UpdateAuditRequest{Notes: "initial"})
	require.NoError(t, err)

	assert.Equal(t, before, env.historyCount(t, domain.EntityTypeAudit, domain.ActionTypeUpdate))
}

func TestAuditDelete(t *testing.T) {
	env := newTestEnv(t)

	completed, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 1, Year: 2025})
	require.NoError(t, err)
	_, err = env.audits.Update(env.ctx, completed.ID, &domain.UpdateAuditRequest{Status: "completed"})
	require.NoError(t, err)

	err = env.audits.Delete(env.ctx, completed.ID)
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "cannot delete a completed audit", apiErr.Detail)

	canceled, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 2, Year: 2025})
	require.NoError(t, err)
	_, err = env.audits.Update(env.ctx, canceled.ID, &domain.UpdateAuditRequest{Status: "canceled"})
	require.NoError(t, err)

	require.NoError(t, env.audits.Delete(env.ctx, canceled.ID))

	_, err = env.audits.GetByID(env.ctx, canceled.ID)
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}

func TestAddItemDetail(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Office")
	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 7, Year: 2025})
	require.NoError(t, err)

	// Item registered after the audit opened, so no seeded row exists yet
	item := testutil.CreateTestItem(t, env.db, "Monitor", testutil.Price("250"))

	detail, err := env.audits.AddItemDetail(env.ctx, audit.ID, &domain.AddItemDetailRequest{
		RoomID:         room.ID,
		ItemID:         item.ID,
		ActiveQuantity: 3,
		BrokenQuantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, detail.ActiveQuantity)
	assert.True(t, detail.UnitPrice.Equal(*testutil.Price("250")))
	assert.True(t, detail.TotalPrice.Equal(*testutil.Price("1000")), "4 units at 250: %s", detail.TotalPrice)

	_, err = env.audits.AddItemDetail(env.ctx, audit.ID, &domain.AddItemDetailRequest{
		RoomID: room.ID,
		ItemID: item.ID,
	})
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 409, apiErr.Status)

	_, err = env.audits.Update(env.ctx, audit.ID, &domain.UpdateAuditRequest{Status: "completed"})
	require.NoError(t, err)

	item2 := testutil.CreateTestItem(t, env.db, "Keyboard", nil)
	_, err = env.audits.AddItemDetail(env.ctx, audit.ID, &domain.AddItemDetailRequest{
		RoomID: room.ID,
		ItemID: item2.ID,
	})
	require.Error(t, err)
	apiErr = asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "not in progress")
}

func TestUpdateItemDetail(t *testing.T) {
	env := newTestEnv(t)

	testutil.CreateTestRoom(t, env.db, "Hall")
	testutil.CreateTestItem(t, env.db, "Table", testutil.Price("80"))

	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 8, Year: 2025})
	require.NoError(t, err)
	detailID := audit.DetailsByRoom[0].Details[0].ID

	active, inactive := 4, 2
	updated, err := env.audits.UpdateItemDetail(env.ctx, audit.ID, detailID,
		&domain.UpdateItemDetailRequest{ActiveQuantity: &active, InactiveQuantity: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.ActiveQuantity)
	assert.Equal(t, 2, updated.InactiveQuantity)
	assert.True(t, updated.TotalPrice.Equal(*testutil.Price("480")), "6 units at 80: %s", updated.TotalPrice)

	entries, err := env.history.GetRecentActivity(env.ctx,
		domain.ActivityFilters{EntityType: domain.EntityTypeItemDetail})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Contains(t, entries[0].ChangeSummary, `"quantityDelta":6`)

	// Same values again leave no trace in the history
	before := env.historyCount(t, domain.EntityTypeItemDetail, domain.ActionTypeUpdate)
	_, err = env.audits.UpdateItemDetail(env.ctx, audit.ID, detailID,
		&domain.UpdateItemDetailRequest{ActiveQuantity: &active})
	require.NoError(t, err)
	assert.Equal(t, before, env.historyCount(t, domain.EntityTypeItemDetail, domain.ActionTypeUpdate))

	negative := -1
	_, err = env.audits.UpdateItemDetail(env.ctx, audit.ID, detailID,
		&domain.UpdateItemDetailRequest{ActiveQuantity: &negative})
	require.Error(t, err)
	assert.Equal(t, 400, asAPIError(t, err).Status)
}

func TestDeleteItemDetail(t *testing.T) {
	env := newTestEnv(t)

	testutil.CreateTestRoom(t, env.db, "Annex")
	testutil.CreateTestItem(t, env.db, "Lamp", nil)

	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 9, Year: 2025})
	require.NoError(t, err)
	detailID := audit.DetailsByRoom[0].Details[0].ID

	require.NoError(t, env.audits.DeleteItemDetail(env.ctx, audit.ID, detailID))

	err = env.audits.DeleteItemDetail(env.ctx, audit.ID, detailID)
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}

func TestGetItemSummary_AggregatesAcrossRooms(t *testing.T) {
	env := newTestEnv(t)

	testutil.CreateTestRoom(t, env.db, "North Wing")
	testutil.CreateTestRoom(t, env.db, "South Wing")
	testutil.CreateTestItem(t, env.db, "Chair", testutil.Price("100"))
	testutil.CreateTestItem(t, env.db, "Desk", testutil.Price("300"))

	audit, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 10, Year: 2025})
	require.NoError(t, err)

	// Spread chair counts over both rooms: 2 active + 1 broken, then 3 active
	seeded := 0
	for _, group := range audit.DetailsByRoom {
		for _, d := range group.Details {
			if d.Item == nil || d.Item.Name != "Chair" {
				continue
			}
			var req domain.UpdateItemDetailRequest
			if seeded == 0 {
				two, one := 2, 1
				req.ActiveQuantity, req.BrokenQuantity = &two, &one
			} else {
				three := 3
				req.ActiveQuantity = &three
			}
			_, err = env.audits.UpdateItemDetail(env.ctx, audit.ID, d.ID, &req)
			require.NoError(t, err)
			seeded++
		}
	}
	require.Equal(t, 2, seeded)

	summary, err := env.audits.GetItemSummary(env.ctx, audit.ID)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	// Sorted by item name
	assert.Equal(t, "Chair", summary[0].ItemName)
	assert.Equal(t, "Desk", summary[1].ItemName)

	chair := summary[0]
	assert.Equal(t, 5, chair.ActiveQuantity)
	assert.Equal(t, 1, chair.DamageQuantity)
	assert.Equal(t, 0, chair.InactiveQuantity)
	assert.Equal(t, 6, chair.TotalQuantity)
	assert.True(t, chair.TotalPrice.Equal(*testutil.Price("600")), "6 chairs at 100: %s", chair.TotalPrice)

	desk := summary[1]
	assert.Equal(t, 0, desk.TotalQuantity)
	assert.True(t, desk.TotalPrice.IsZero())
}

func TestGetItemSummary_UnknownAudit(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.audits.GetItemSummary(env.ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}
