package repository

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemRepository handles item master data access
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ItemRepository) WithTx(tx *gorm.DB) *ItemRepository {
	return &ItemRepository{db: tx}
}

// Create inserts a new item
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID retrieves an item by ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List retrieves all items ordered by name
func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// Update persists changes to an item
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// UpdateUnitPrice overwrites the master unit price. The most recent
// purchase price is authoritative for all future item detail seeding.
func (r *ItemRepository) UpdateUnitPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ?", id).
		Update("unit_price", price).Error
}

// Delete removes an item
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Item{}, "id = ?", id).Error
}

// CountReferences counts item details and purchases still pointing at the item
func (r *ItemRepository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var details, purchases int64
	if err := r.db.WithContext(ctx).Model(&domain.ItemDetail{}).
		Where("item_id = ?", id).Count(&details).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.AssetPurchase{}).
		Where("item_id = ?", id).Count(&purchases).Error; err != nil {
		return 0, err
	}
	return details + purchases, nil
}
