package service_test

import (
	"testing"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyUser(role domain.LegacyRole) *auth.UserContext {
	return &auth.UserContext{LegacyRole: role}
}

func TestHasPermission_LegacyRoles(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name     string
		role     domain.LegacyRole
		resource string
		action   string
		want     bool
	}{
		{"admin can do anything", domain.LegacyRoleAdmin, "user", "delete", true},
		{"auditor reads rooms", domain.LegacyRoleAuditor, "room", "read", true},
		{"auditor updates audits", domain.LegacyRoleAuditor, "audit", "update", true},
		{"auditor records purchases", domain.LegacyRoleAuditor, "purchase", "create", true},
		{"auditor cannot delete audits", domain.LegacyRoleAuditor, "audit", "delete", false},
		{"auditor cannot manage users", domain.LegacyRoleAuditor, "user", "read", false},
		{"viewer reads history", domain.LegacyRoleViewer, "history", "read", true},
		{"viewer cannot create audits", domain.LegacyRoleViewer, "audit", "create", false},
		{"viewer cannot update rooms", domain.LegacyRoleViewer, "room", "update", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := env.access.HasPermission(env.ctx, legacyUser(tc.role), tc.resource, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasPermission_NilUserDenied(t *testing.T) {
	env := newTestEnv(t)

	allowed, err := env.access.HasPermission(env.ctx, nil, "room", "read")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestHasPermission_RelationalRoleWins(t *testing.T) {
	env := newTestEnv(t)

	role, err := env.roles.Create(env.ctx, &domain.CreateRoleRequest{Name: "room-manager"})
	require.NoError(t, err)
	perm, err := env.perms.Create(env.ctx, &domain.CreatePermissionRequest{
		Name: "Update rooms", Resource: "room", Action: "update",
	})
	require.NoError(t, err)
	_, err = env.roles.AssignPermission(env.ctx, role.ID, perm.ID)
	require.NoError(t, err)

	// A relational role overrides the legacy tag, even a permissive one
	user := &auth.UserContext{LegacyRole: domain.LegacyRoleAdmin, RoleID: &role.ID}

	allowed, err := env.access.HasPermission(env.ctx, user, "room", "update")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = env.access.HasPermission(env.ctx, user, "room", "delete")
	require.NoError(t, err)
	assert.False(t, allowed, "permissions not granted to the role are denied")

	_, err = env.roles.RevokePermission(env.ctx, role.ID, perm.ID)
	require.NoError(t, err)

	allowed, err = env.access.HasPermission(env.ctx, user, "room", "update")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRoleLifecycle(t *testing.T) {
	env := newTestEnv(t)

	role, err := env.roles.Create(env.ctx, &domain.CreateRoleRequest{Name: "stocktaker"})
	require.NoError(t, err)

	_, err = env.roles.Create(env.ctx, &domain.CreateRoleRequest{Name: "stocktaker"})
	require.Error(t, err)
	assert.Equal(t, 409, asAPIError(t, err).Status)

	_, err = env.users.Create(env.ctx, &domain.CreateUserRequest{
		Name: "Assigned", Mobile: "5550005555", Password: "secret123", RoleID: &role.ID,
	})
	require.NoError(t, err)

	err = env.roles.Delete(env.ctx, role.ID)
	require.Error(t, err)
	apiErr := asAPIError(t, err)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Detail, "cannot be deleted")
}

func TestPermissionCatalog(t *testing.T) {
	env := newTestEnv(t)

	perm, err := env.perms.Create(env.ctx, &domain.CreatePermissionRequest{
		Name: "Read audits", Resource: "audit", Action: "read",
	})
	require.NoError(t, err)

	_, err = env.perms.Create(env.ctx, &domain.CreatePermissionRequest{
		Name: "Duplicate", Resource: "audit", Action: "read",
	})
	require.Error(t, err)
	assert.Equal(t, 409, asAPIError(t, err).Status)

	require.NoError(t, env.perms.Delete(env.ctx, perm.ID))

	_, err = env.perms.GetByID(env.ctx, perm.ID)
	require.Error(t, err)
	assert.Equal(t, 404, asAPIError(t, err).Status)
}
