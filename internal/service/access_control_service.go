package service

import (
	"context"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/repository"
	"go.uber.org/zap"
)

// AccessControlService answers "may this user perform this action on this
// resource". Users either carry a relational role with explicit permissions
// or fall back to the fixed legacy role tag; callers see one capability
// check regardless of which backing the user has.
type AccessControlService struct {
	permRepo *repository.PermissionRepository
	logger   *zap.Logger
}

// NewAccessControlService creates a new AccessControlService
func NewAccessControlService(permRepo *repository.PermissionRepository, logger *zap.Logger) *AccessControlService {
	return &AccessControlService{
		permRepo: permRepo,
		logger:   logger,
	}
}

// legacyGrants maps the fixed legacy roles to their implicit permissions.
// Admins are handled separately and get everything.
var legacyGrants = map[domain.LegacyRole]map[string][]string{
	domain.LegacyRoleAuditor: {
		"room":     {"read"},
		"item":     {"read"},
		"audit":    {"read", "create", "update"},
		"purchase": {"read", "create"},
		"history":  {"read"},
	},
	domain.LegacyRoleViewer: {
		"room":     {"read"},
		"item":     {"read"},
		"audit":    {"read"},
		"purchase": {"read"},
		"history":  {"read"},
	},
}

// HasPermission reports whether the user may perform action on resource
func (s *AccessControlService) HasPermission(ctx context.Context, user *auth.UserContext, resource, action string) (bool, error) {
	if user == nil {
		return false, nil
	}

	// Relational role wins when assigned
	if user.RoleID != nil {
		allowed, err := s.permRepo.HasRolePermission(ctx, *user.RoleID, resource, action)
		if err != nil {
			return false, err
		}
		return allowed, nil
	}

	// Legacy enum fallback
	if user.LegacyRole == domain.LegacyRoleAdmin {
		return true, nil
	}
	grants, ok := legacyGrants[user.LegacyRole]
	if !ok {
		return false, nil
	}
	for _, a := range grants[resource] {
		if a == action {
			return true, nil
		}
	}
	return false, nil
}
