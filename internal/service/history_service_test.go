package service_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordsEveryMutation(t *testing.T) {
	env := newTestEnv(t)

	room, err := env.rooms.Create(env.ctx, &domain.CreateRoomRequest{Name: "Archive"})
	require.NoError(t, err)
	_, err = env.rooms.Update(env.ctx, room.ID, &domain.UpdateRoomRequest{Name: "Archive 2"})
	require.NoError(t, err)
	require.NoError(t, env.rooms.Delete(env.ctx, room.ID))

	entries, err := env.history.GetRecentActivity(env.ctx, domain.ActivityFilters{
		EntityType: domain.EntityTypeRoom,
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first
	assert.Equal(t, domain.ActionTypeDelete, entries[0].ActionType)
	assert.Equal(t, domain.ActionTypeUpdate, entries[1].ActionType)
	assert.Equal(t, domain.ActionTypeCreate, entries[2].ActionType)

	for _, e := range entries {
		require.NotNil(t, e.UserID)
		assert.Equal(t, env.admin.ID, *e.UserID)
		assert.False(t, e.OccurredAt.IsZero())
	}

	assert.Contains(t, entries[1].ChangeSummary, "Archive 2")
}

func TestHistoryFiltersByEntityAndUser(t *testing.T) {
	env := newTestEnv(t)

	room, err := env.rooms.Create(env.ctx, &domain.CreateRoomRequest{Name: "Vault"})
	require.NoError(t, err)
	_, err = env.items.Create(env.ctx, &domain.CreateItemRequest{Name: "Safe"})
	require.NoError(t, err)

	other := testutil.CreateTestUser(t, env.db, "Auditor", domain.LegacyRoleAuditor)
	otherCtx := testutil.TestContext(other)
	_, err = env.rooms.Create(otherCtx, &domain.CreateRoomRequest{Name: "Cellar"})
	require.NoError(t, err)

	byEntity, err := env.history.GetRecentActivity(env.ctx, domain.ActivityFilters{
		EntityType: domain.EntityTypeRoom,
		EntityID:   &room.ID,
	})
	require.NoError(t, err)
	require.Len(t, byEntity, 1)
	assert.Equal(t, "Vault", byEntity[0].EntityName)

	byUser, err := env.history.GetRecentActivity(env.ctx, domain.ActivityFilters{
		UserID: &other.ID,
	})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "Cellar", byUser[0].EntityName)
}

func TestHistoryRejectsUnknownEntityType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.history.GetRecentActivity(env.ctx, domain.ActivityFilters{
		EntityType: domain.EntityType("Gadget"),
	})
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "Gadget")
}

func TestHistoryLimitDefaultsToFifty(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 55; i++ {
		_, err := env.rooms.Create(env.ctx, &domain.CreateRoomRequest{Name: "Bulk"})
		require.NoError(t, err)
	}

	entries, err := env.history.GetRecentActivity(env.ctx, domain.ActivityFilters{})
	require.NoError(t, err)
	assert.Len(t, entries, 50)

	capped, err := env.history.GetRecentActivity(env.ctx, domain.ActivityFilters{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, capped, 10)
}

func TestHistoryStats(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rooms.Create(env.ctx, &domain.CreateRoomRequest{Name: "Stats Room"})
	require.NoError(t, err)
	_, err = env.items.Create(env.ctx, &domain.CreateItemRequest{Name: "Stats Item"})
	require.NoError(t, err)
	_, err = env.items.Create(env.ctx, &domain.CreateItemRequest{Name: "Another Item"})
	require.NoError(t, err)

	stats, err := env.history.GetActivityStats(env.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalActivities)
	assert.Equal(t, int64(3), stats.TodayActivities)
	assert.Equal(t, int64(3), stats.WeekActivities)

	require.Len(t, stats.ByEntityType, 2)
	// Ordered by count, largest first
	assert.Equal(t, domain.EntityTypeItem, stats.ByEntityType[0].EntityType)
	assert.Equal(t, int64(2), stats.ByEntityType[0].Count)
}
