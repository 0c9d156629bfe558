package service_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Create(env.ctx, &domain.CreateUserRequest{
		Name:     "Priya",
		Mobile:   "5550001111",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LegacyRoleViewer, user.LegacyRole, "new users start as viewers")
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash, "hash is stored, never the password")

	authed, err := env.users.Authenticate(env.ctx, "5550001111", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = env.users.Authenticate(env.ctx, "5550001111", "wrong")
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "invalid mobile or password", apiErr.Detail)

	_, err = env.users.Authenticate(env.ctx, "0000000000", "secret123")
	require.Error(t, err)
	assert.Equal(t, 401, asAPIError(t, err).Status)
}

func TestUserCreate_RejectsDuplicateMobile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Create(env.ctx, &domain.CreateUserRequest{
		Name: "First", Mobile: "5550002222", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = env.users.Create(env.ctx, &domain.CreateUserRequest{
		Name: "Second", Mobile: "5550002222", Password: "secret456",
	})
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 409, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "already exists")
}

func TestUserDeactivationBlocksLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Create(env.ctx, &domain.CreateUserRequest{
		Name: "Dormant", Mobile: "5550003333", Password: "secret123",
	})
	require.NoError(t, err)

	inactive := false
	_, err = env.users.Update(env.ctx, user.ID, &domain.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.users.Authenticate(env.ctx, "5550003333", "secret123")
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 403, apiErr.Status)
	assert.Equal(t, "account is deactivated", apiErr.Detail)
}

func TestUserUpdate_PasswordAndRole(t *testing.T) {
	env := newTestEnv(t)

	role, err := env.roles.Create(env.ctx, &domain.CreateRoleRequest{Name: "inventory-clerk"})
	require.NoError(t, err)

	user, err := env.users.Create(env.ctx, &domain.CreateUserRequest{
		Name: "Rotating", Mobile: "5550004444", Password: "oldpass1",
	})
	require.NoError(t, err)

	updated, err := env.users.Update(env.ctx, user.ID, &domain.UpdateUserRequest{
		Password: "newpass1",
		RoleID:   &role.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.RoleID)
	assert.Equal(t, role.ID, *updated.RoleID)

	_, err = env.users.Authenticate(env.ctx, "5550004444", "oldpass1")
	require.Error(t, err)
	_, err = env.users.Authenticate(env.ctx, "5550004444", "newpass1")
	require.NoError(t, err)
}
