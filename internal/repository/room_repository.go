package repository

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomRepository handles room data access
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

// Create inserts a new room
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// List retrieves all rooms ordered by name
func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rooms).Error
	return rooms, err
}

// Update persists changes to a room
func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// Delete removes a room
func (r *RoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Room{}, "id = ?", id).Error
}

// CountReferences counts item details and purchases still pointing at the room.
// Room deletion is restricted while this is non-zero.
func (r *RoomRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var details, purchases int64
	if err := r.db.WithContext(ctx).Model(&domain.ItemDetail{}).
		Where("room_id = ?", id).Count(&details).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.AssetPurchase{}).
		Where("room_id = ?", id).Count(&purchases).Error; err != nil {
		return 0, err
	}
	return details + purchases, nil
}
