package repository

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemDetailRepository handles per-audit room-item snapshot data access
type ItemDetailRepository struct {
	db *gorm.DB
}

// NewItemDetailRepository creates a new item detail repository
func NewItemDetailRepository(db *gorm.DB) *ItemDetailRepository {
	return &ItemDetailRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ItemDetailRepository) WithTx(tx *gorm.DB) *ItemDetailRepository {
	return &ItemDetailRepository{db: tx}
}

// Create inserts a new item detail row
func (r *ItemDetailRepository) Create(ctx context.Context, detail *domain.ItemDetail) error {
	return r.db.WithContext(ctx).Create(detail).Error
}

// CreateBatch inserts item detail rows in chunks, used when seeding a new audit
func (r *ItemDetailRepository) CreateBatch(ctx context.Context, details []domain.ItemDetail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(details, 200).Error
}

// GetByID retrieves an item detail with room and item joined
func (r *ItemDetailRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ItemDetail, error) {
	var detail domain.ItemDetail
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Item").
		First(&detail, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetByComposite retrieves the row for a (room, item, audit) triple
func (r *ItemDetailRepository) GetByComposite(ctx context.Context, roomID, itemID, auditID uuid.UUID) (*domain.ItemDetail, error) {
	var detail domain.ItemDetail
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND item_id = ? AND audit_id = ?", roomID, itemID, auditID).
		First(&detail).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByAudit retrieves an audit's item details with room and item joined,
// ordered by room name then item name for stable grouped output
func (r *ItemDetailRepository) ListByAudit(ctx context.Context, auditID uuid.UUID) ([]domain.ItemDetail, error) {
	var details []domain.ItemDetail
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Item").
		Joins("JOIN rooms ON rooms.id = item_details.room_id").
		Joins("JOIN items ON items.id = item_details.item_id").
		Where("item_details.audit_id = ?", auditID).
		Order("rooms.name ASC").
		Order("items.name ASC").
		Find(&details).Error
	return details, err
}

// Update persists changes to an item detail row
func (r *ItemDetailRepository) Update(ctx context.Context, detail *domain.ItemDetail) error {
	return r.db.WithContext(ctx).Omit("Room", "Item", "Audit").Save(detail).Error
}

// Delete removes an item detail row
func (r *ItemDetailRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ItemDetail{}, "id = ?", id).Error
}
