package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RoleService handles named roles and their permission assignments
type RoleService struct {
	roleRepo *repository.RoleRepository
	permRepo *repository.PermissionRepository
	logger   *zap.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo *repository.RoleRepository, permRepo *repository.PermissionRepository, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		permRepo: permRepo,
		logger:   logger,
	}
}

// Create creates a new role with a unique name
func (s *RoleService) Create(ctx context.Context, req *domain.CreateRoleRequest) (*domain.Role, error) {
	if _, err := s.roleRepo.GetByName(ctx, req.Name); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("role %q already exists", req.Name))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &domain.Role{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("role created", zap.String("role_id", role.ID.String()), zap.String("name", role.Name))
	return role, nil
}

// GetByID retrieves a role with its permissions
func (s *RoleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("role not found")
		}
		return nil, err
	}
	return role, nil
}

// List retrieves all roles
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roleRepo.List(ctx)
}

// Update edits a role. Empty fields are left unchanged.
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateRoleRequest) (*domain.Role, error) {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != role.Name {
		if _, err := s.roleRepo.GetByName(ctx, req.Name); err == nil {
			return nil, domain.NewConflictError(fmt.Sprintf("role %q already exists", req.Name))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AssignPermission attaches a permission to a role
func (s *RoleService) AssignPermission(ctx context.Context, roleID, permissionID uuid.UUID) (*domain.Role, error) {
	role, err := s.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	perm, err := s.permRepo.GetByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("permission not found")
		}
		return nil, err
	}

	if err := s.roleRepo.AddPermission(ctx, role, perm); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, roleID)
}

// RevokePermission detaches a permission from a role
func (s *RoleService) RevokePermission(ctx context.Context, roleID, permissionID uuid.UUID) (*domain.Role, error) {
	role, err := s.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	perm, err := s.permRepo.GetByID(ctx, permissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("permission not found")
		}
		return nil, err
	}

	if err := s.roleRepo.RemovePermission(ctx, role, perm); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, roleID)
}

// Delete removes a role that no user is assigned to
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	users, err := s.roleRepo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return domain.NewBadRequestError(
			fmt.Sprintf("role %q is assigned to %d users and cannot be deleted", role.Name, users))
	}

	return s.roleRepo.Delete(ctx, id)
}
