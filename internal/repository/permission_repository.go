package repository

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionRepository handles permission data access
type PermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *PermissionRepository) WithTx(tx *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: tx}
}

// Create inserts a new permission
func (r *PermissionRepository) Create(ctx context.Context, perm *domain.Permission) error {
	return r.db.WithContext(ctx).Create(perm).Error
}

// GetByID retrieves a permission by ID
func (r *PermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	var perm domain.Permission
	if err := r.db.WithContext(ctx).First(&perm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// GetByResourceAction retrieves the permission for a (resource, action) pair
func (r *PermissionRepository) GetByResourceAction(ctx context.Context, resource, action string) (*domain.Permission, error) {
	var perm domain.Permission
	err := r.db.WithContext(ctx).
		Where("resource = ? AND action = ?", resource, action).
		First(&perm).Error
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

// List retrieves all permissions ordered by resource then action
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	var perms []domain.Permission
	err := r.db.WithContext(ctx).
		Order("resource ASC").
		Order("action ASC").
		Find(&perms).Error
	return perms, err
}

// HasRolePermission reports whether the role carries the (resource, action)
// permission through the role_permissions join
func (r *PermissionRepository) HasRolePermission(ctx context.Context, roleID uuid.UUID, resource, action string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ? AND permissions.resource = ? AND permissions.action = ?",
			roleID, resource, action).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a permission and its role links
func (r *PermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Permission{}, "id = ?", id).Error
	})
}
