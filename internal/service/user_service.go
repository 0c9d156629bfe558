package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles user accounts and credential checks
type UserService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	roleRepo *repository.RoleRepository
	history  *HistoryService
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, userRepo *repository.UserRepository, roleRepo *repository.RoleRepository, history *HistoryService, logger *zap.Logger) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
		roleRepo: roleRepo,
		history:  history,
		logger:   logger,
	}
}

// Create registers a new user. The mobile number must be unique.
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if _, err := s.userRepo.GetByMobile(ctx, req.Mobile); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("user with mobile %s already exists", req.Mobile))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.RoleID != nil {
		if _, err := s.roleRepo.GetByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.NewNotFoundError("role not found")
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password")
	}

	user := &domain.User{
		Name:         req.Name,
		Mobile:       req.Mobile,
		PasswordHash: string(hash),
		LegacyRole:   domain.LegacyRoleViewer,
		RoleID:       req.RoleID,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeUser,
			EntityID:    &user.ID,
			EntityName:  user.Name,
			ActionType:  domain.ActionTypeCreate,
			Description: fmt.Sprintf("Created user %s", user.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID.String()))
	return s.GetByID(ctx, user.ID)
}

// GetByID retrieves a user with role and permissions
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return user, nil
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// Authenticate checks mobile and password and returns the user on success
func (s *UserService) Authenticate(ctx context.Context, mobile, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewUnauthorizedError("invalid mobile or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.NewForbiddenError("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid mobile or password")
	}

	return user, nil
}

// Update edits a user. Empty fields are left unchanged.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []string

	if req.Name != "" && req.Name != user.Name {
		changes = append(changes, renderChange("name", user.Name, req.Name))
		user.Name = req.Name
	}
	if req.RoleID != nil {
		if _, err := s.roleRepo.GetByID(ctx, *req.RoleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.NewNotFoundError("role not found")
			}
			return nil, err
		}
		if user.RoleID == nil || *user.RoleID != *req.RoleID {
			changes = append(changes, "role changed")
			user.RoleID = req.RoleID
		}
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, domain.NewInternalError("failed to hash password")
		}
		user.PasswordHash = string(hash)
		changes = append(changes, "password changed")
	}
	if req.IsActive != nil && *req.IsActive != user.IsActive {
		changes = append(changes, renderChange("is_active", user.IsActive, *req.IsActive))
		user.IsActive = *req.IsActive
	}

	if len(changes) == 0 {
		return user, nil
	}

	user.Role = nil
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeUser,
			EntityID:    &user.ID,
			EntityName:  user.Name,
			ActionType:  domain.ActionTypeUpdate,
			Changes:     changes,
			Description: fmt.Sprintf("Updated user %s", user.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeUser,
			EntityID:    &user.ID,
			EntityName:  user.Name,
			ActionType:  domain.ActionTypeDelete,
			Description: fmt.Sprintf("Deleted user %s", user.Name),
		})
	})
}
