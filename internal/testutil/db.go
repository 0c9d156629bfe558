package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory database with the full schema.
// Every call gets its own database, so tests never share state.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	err = db.AutoMigrate(
		&domain.Room{},
		&domain.Item{},
		&domain.User{},
		&domain.Role{},
		&domain.Permission{},
		&domain.Audit{},
		&domain.ItemDetail{},
		&domain.AssetPurchase{},
		&domain.ActivityHistory{},
	)
	require.NoError(t, err, "Failed to migrate test schema")

	return db
}

// TestContext returns a context carrying an admin user identity
func TestContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:     user.ID,
		Name:       user.Name,
		Mobile:     user.Mobile,
		LegacyRole: user.LegacyRole,
		RoleID:     user.RoleID,
	})
}

// CreateTestUser inserts a user with the given legacy role
func CreateTestUser(t *testing.T, db *gorm.DB, name string, role domain.LegacyRole) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Name:         name,
		Mobile:       fmt.Sprintf("9%09d", randomSuffix()),
		PasswordHash: string(hash),
		LegacyRole:   role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestRoom inserts a room
func CreateTestRoom(t *testing.T, db *gorm.DB, name string) *domain.Room {
	t.Helper()

	room := &domain.Room{
		Name:  name,
		Floor: "1",
	}
	require.NoError(t, db.Create(room).Error)
	return room
}

// CreateTestItem inserts a catalog item with an optional master price
func CreateTestItem(t *testing.T, db *gorm.DB, name string, unitPrice *decimal.Decimal) *domain.Item {
	t.Helper()

	item := &domain.Item{
		Name:      name,
		Unit:      "pcs",
		UnitPrice: unitPrice,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateTestAudit inserts an audit with the given period and status
func CreateTestAudit(t *testing.T, db *gorm.DB, month, year int, status domain.AuditStatus) *domain.Audit {
	t.Helper()

	audit := &domain.Audit{
		Month:  month,
		Year:   year,
		Status: status,
	}
	require.NoError(t, db.Create(audit).Error)
	return audit
}

// Price returns a decimal pointer for fixture prices
func Price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var suffixCounter int64

func randomSuffix() int64 {
	suffixCounter++
	return suffixCounter
}
