package service_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCRUD(t *testing.T) {
	env := newTestEnv(t)

	room, err := env.rooms.Create(env.ctx, &domain.CreateRoomRequest{
		Name:       "Server Room",
		Floor:      "2",
		Department: "IT",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, room.ID)

	fetched, err := env.rooms.GetByID(env.ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Server Room", fetched.Name)
	assert.Equal(t, "IT", fetched.Department)

	updated, err := env.rooms.Update(env.ctx, room.ID, &domain.UpdateRoomRequest{Floor: "3"})
	require.NoError(t, err)
	assert.Equal(t, "3", updated.Floor)
	assert.Equal(t, "Server Room", updated.Name, "untouched fields survive")

	rooms, err := env.rooms.List(env.ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	require.NoError(t, env.rooms.Delete(env.ctx, room.ID))

	_, err = env.rooms.GetByID(env.ctx, room.ID)
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}

func TestRoomDelete_RestrictedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)

	room := testutil.CreateTestRoom(t, env.db, "Referenced Room")
	testutil.CreateTestItem(t, env.db, "Bench", nil)

	_, err := env.audits.Create(env.ctx, &domain.CreateAuditRequest{Month: 1, Year: 2025})
	require.NoError(t, err)

	err = env.rooms.Delete(env.ctx, room.ID)
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "cannot be deleted")
}

func TestRoomUpdate_NoOpProducesNoHistory(t *testing.T) {
	env := newTestEnv(t)

	room, err := env.rooms.Create(env.ctx, &domain.CreateRoomRequest{Name: "Static Room"})
	require.NoError(t, err)

	before := env.historyCount(t, domain.EntityTypeRoom, domain.ActionTypeUpdate)
	_, err = env.rooms.Update(env.ctx, room.ID, &domain.UpdateRoomRequest{Name: "Static Room"})
	require.NoError(t, err)
	assert.Equal(t, before, env.historyCount(t, domain.EntityTypeRoom, domain.ActionTypeUpdate))
}
