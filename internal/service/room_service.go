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

// RoomService handles business logic for rooms
type RoomService struct {
	db       *gorm.DB
	roomRepo *repository.RoomRepository
	history  *HistoryService
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService
func NewRoomService(db *gorm.DB, roomRepo *repository.RoomRepository, history *HistoryService, logger *zap.Logger) *RoomService {
	return &RoomService{
		db:       db,
		roomRepo: roomRepo,
		history:  history,
		logger:   logger,
	}
}

// Create creates a new room
func (s *RoomService) Create(ctx context.Context, req *domain.CreateRoomRequest) (*domain.Room, error) {
	room := &domain.Room{
		Name:       req.Name,
		Floor:      req.Floor,
		Department: req.Department,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.roomRepo.WithTx(tx).Create(ctx, room); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeRoom,
			EntityID:    &room.ID,
			EntityName:  room.Name,
			ActionType:  domain.ActionTypeCreate,
			After:       room,
			Description: fmt.Sprintf("Created room %s", room.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("room created", zap.String("room_id", room.ID.String()), zap.String("name", room.Name))
	return room, nil
}

// GetByID retrieves a room by ID
func (s *RoomService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("room not found")
		}
		return nil, err
	}
	return room, nil
}

// List retrieves all rooms
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	return s.roomRepo.List(ctx)
}

// Update updates a room. Empty fields are left unchanged.
func (s *RoomService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *room
	var changes []string

	if req.Name != "" && req.Name != room.Name {
		changes = append(changes, renderChange("name", room.Name, req.Name))
		room.Name = req.Name
	}
	if req.Floor != "" && req.Floor != room.Floor {
		changes = append(changes, renderChange("floor", room.Floor, req.Floor))
		room.Floor = req.Floor
	}
	if req.Department != "" && req.Department != room.Department {
		changes = append(changes, renderChange("department", room.Department, req.Department))
		room.Department = req.Department
	}

	if len(changes) == 0 {
		return room, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.roomRepo.WithTx(tx).Update(ctx, room); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeRoom,
			EntityID:    &room.ID,
			EntityName:  room.Name,
			ActionType:  domain.ActionTypeUpdate,
			Before:      before,
			After:       room,
			Changes:     changes,
			Description: fmt.Sprintf("Updated room %s", room.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// Delete removes a room. Deletion is restricted while item details or
// purchases still reference the room.
func (s *RoomService) Delete(ctx context.Context, id uuid.UUID) error {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.roomRepo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.NewBadRequestError(
			fmt.Sprintf("room %s is referenced by %d inventory records and cannot be deleted", room.Name, refs))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.roomRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeRoom,
			EntityID:    &room.ID,
			EntityName:  room.Name,
			ActionType:  domain.ActionTypeDelete,
			Before:      room,
			Description: fmt.Sprintf("Deleted room %s", room.Name),
		})
	})
}
