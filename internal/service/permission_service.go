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

// PermissionService handles the resource/action permission catalog
type PermissionService struct {
	permRepo *repository.PermissionRepository
	logger   *zap.Logger
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(permRepo *repository.PermissionRepository, logger *zap.Logger) *PermissionService {
	return &PermissionService{
		permRepo: permRepo,
		logger:   logger,
	}
}

// Create creates a permission for a unique (resource, action) pair
func (s *PermissionService) Create(ctx context.Context, req *domain.CreatePermissionRequest) (*domain.Permission, error) {
	if _, err := s.permRepo.GetByResourceAction(ctx, req.Resource, req.Action); err == nil {
		return nil, domain.NewConflictError(
			fmt.Sprintf("permission for %s/%s already exists", req.Resource, req.Action))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	perm := &domain.Permission{
		Name:     req.Name,
		Resource: req.Resource,
		Action:   req.Action,
	}
	if err := s.permRepo.Create(ctx, perm); err != nil {
		return nil, err
	}

	s.logger.Info("permission created",
		zap.String("resource", perm.Resource),
		zap.String("action", perm.Action))
	return perm, nil
}

// GetByID retrieves a permission by ID
func (s *PermissionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	perm, err := s.permRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("permission not found")
		}
		return nil, err
	}
	return perm, nil
}

// List retrieves all permissions
func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.permRepo.List(ctx)
}

// Delete removes a permission and its role assignments
func (s *PermissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.permRepo.Delete(ctx, id)
}
