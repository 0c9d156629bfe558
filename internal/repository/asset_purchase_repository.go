package repository

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetPurchaseRepository handles purchase record data access
type AssetPurchaseRepository struct {
	db *gorm.DB
}

// NewAssetPurchaseRepository creates a new asset purchase repository
func NewAssetPurchaseRepository(db *gorm.DB) *AssetPurchaseRepository {
	return &AssetPurchaseRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *AssetPurchaseRepository) WithTx(tx *gorm.DB) *AssetPurchaseRepository {
	return &AssetPurchaseRepository{db: tx}
}

// Create inserts a new purchase record
func (r *AssetPurchaseRepository) Create(ctx context.Context, purchase *domain.AssetPurchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// GetByID retrieves a purchase with room, item and the recording user joined
func (r *AssetPurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetPurchase, error) {
	var purchase domain.AssetPurchase
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Item").
		Preload("AddedBy").
		First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// List retrieves purchases matching the filters, newest purchase date first
func (r *AssetPurchaseRepository) List(ctx context.Context, filters domain.PurchaseFilters) ([]domain.AssetPurchase, error) {
	query := r.db.WithContext(ctx).
		Preload("Room").
		Preload("Item").
		Preload("AddedBy")

	if filters.RoomID != nil {
		query = query.Where("room_id = ?", *filters.RoomID)
	}
	if filters.ItemID != nil {
		query = query.Where("item_id = ?", *filters.ItemID)
	}
	if filters.StartDate != nil {
		query = query.Where("purchase_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("purchase_date <= ?", *filters.EndDate)
	}

	var purchases []domain.AssetPurchase
	err := query.
		Order("purchase_date DESC").
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// Update persists changes to a purchase record
func (r *AssetPurchaseRepository) Update(ctx context.Context, purchase *domain.AssetPurchase) error {
	return r.db.WithContext(ctx).Omit("Room", "Item", "AddedBy").Save(purchase).Error
}

// Delete removes a purchase record
func (r *AssetPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.AssetPurchase{}, "id = ?", id).Error
}
