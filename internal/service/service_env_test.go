package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/assetline/inventory-api/internal/service"
	"github.com/assetline/inventory-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires the full service graph onto one isolated database
type testEnv struct {
	db        *gorm.DB
	rooms     *service.RoomService
	items     *service.ItemService
	audits    *service.AuditService
	purchases *service.AssetPurchaseService
	users     *service.UserService
	roles     *service.RoleService
	perms     *service.PermissionService
	access    *service.AccessControlService
	history   *service.HistoryService

	admin *domain.User
	ctx   context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	roomRepo := repository.NewRoomRepository(db)
	itemRepo := repository.NewItemRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	detailRepo := repository.NewItemDetailRepository(db)
	purchaseRepo := repository.NewAssetPurchaseRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permRepo := repository.NewPermissionRepository(db)

	history := service.NewHistoryService(historyRepo, log)

	env := &testEnv{
		db:        db,
		history:   history,
		rooms:     service.NewRoomService(db, roomRepo, history, log),
		items:     service.NewItemService(db, itemRepo, history, log),
		audits:    service.NewAuditService(db, auditRepo, detailRepo, roomRepo, itemRepo, userRepo, historyRepo, history, log),
		purchases: service.NewAssetPurchaseService(db, purchaseRepo, auditRepo, detailRepo, roomRepo, itemRepo, history, log),
		users:     service.NewUserService(db, userRepo, roleRepo, history, log),
		roles:     service.NewRoleService(roleRepo, permRepo, log),
		perms:     service.NewPermissionService(permRepo, log),
		access:    service.NewAccessControlService(permRepo, log),
	}

	env.admin = testutil.CreateTestUser(t, db, "Admin", domain.LegacyRoleAdmin)
	env.ctx = testutil.TestContext(env.admin)

	return env
}

// asAPIError unwraps the typed error every service failure path returns
func asAPIError(t *testing.T, err error) *domain.APIError {
	t.Helper()
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %T: %v", err, err)
	}
	return apiErr
}

// historyCount counts history entries for one entity type and action
func (e *testEnv) historyCount(t *testing.T, entityType domain.EntityType, action domain.ActionType) int64 {
	t.Helper()
	var count int64
	err := e.db.Model(&domain.ActivityHistory{}).
		Where("entity_type = ? AND action_type = ?", entityType, action).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count history: %v", err)
	}
	return count
}
