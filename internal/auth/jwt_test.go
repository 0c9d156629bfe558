package auth_test

import (
	"context"
	"testing"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/config"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(ttlMinutes int) *auth.TokenManager {
	return auth.NewTokenManager(&config.JWTConfig{
		Secret:     "test-secret-for-signing",
		Issuer:     "inventory-api",
		TTLMinutes: ttlMinutes,
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	manager := newManager(60)

	roleID := uuid.New()
	user := &domain.User{
		Name:       "Sam",
		Mobile:     "5550009999",
		LegacyRole: domain.LegacyRoleAuditor,
		RoleID:     &roleID,
	}
	user.ID = uuid.New()

	token, err := manager.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, "Sam", userCtx.Name)
	assert.Equal(t, domain.LegacyRoleAuditor, userCtx.LegacyRole)
	require.NotNil(t, userCtx.RoleID)
	assert.Equal(t, roleID, *userCtx.RoleID)
}

func TestValidateToken_RejectsTampering(t *testing.T) {
	manager := newManager(60)

	user := &domain.User{Name: "Sam", LegacyRole: domain.LegacyRoleViewer}
	user.ID = uuid.New()

	token, err := manager.IssueToken(user)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token + "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	// A token signed with a different secret never validates
	other := auth.NewTokenManager(&config.JWTConfig{
		Secret: "a-different-secret", Issuer: "inventory-api", TTLMinutes: 60,
	})
	foreign, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = manager.ValidateToken(foreign)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	manager := newManager(-1)

	user := &domain.User{Name: "Sam", LegacyRole: domain.LegacyRoleViewer}
	user.ID = uuid.New()

	token, err := manager.IssueToken(user)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestUserContextRoundTrip(t *testing.T) {
	userCtx := &auth.UserContext{UserID: uuid.New(), Name: "Ctx"}

	ctx := auth.WithUserContext(context.Background(), userCtx)
	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, userCtx, got)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}
