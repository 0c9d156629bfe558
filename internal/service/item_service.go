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

// ItemService handles business logic for item master data
type ItemService struct {
	db       *gorm.DB
	itemRepo *repository.ItemRepository
	history  *HistoryService
	logger   *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(db *gorm.DB, itemRepo *repository.ItemRepository, history *HistoryService, logger *zap.Logger) *ItemService {
	return &ItemService{
		db:       db,
		itemRepo: itemRepo,
		history:  history,
		logger:   logger,
	}
}

// Create creates a new item
func (s *ItemService) Create(ctx context.Context, req *domain.CreateItemRequest) (*domain.Item, error) {
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit price cannot be negative")
	}

	item := &domain.Item{
		Name:      req.Name,
		Category:  req.Category,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.itemRepo.WithTx(tx).Create(ctx, item); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeItem,
			EntityID:    &item.ID,
			EntityName:  item.Name,
			ActionType:  domain.ActionTypeCreate,
			After:       item,
			Description: fmt.Sprintf("Created item %s", item.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.String("item_id", item.ID.String()), zap.String("name", item.Name))
	return item, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("item not found")
		}
		return nil, err
	}
	return item, nil
}

// List retrieves all items
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.itemRepo.List(ctx)
}

// Update updates an item. Empty fields are left unchanged.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateItemRequest) (*domain.Item, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit price cannot be negative")
	}

	before := *item
	var changes []string

	if req.Name != "" && req.Name != item.Name {
		changes = append(changes, renderChange("name", item.Name, req.Name))
		item.Name = req.Name
	}
	if req.Category != "" && req.Category != item.Category {
		changes = append(changes, renderChange("category", item.Category, req.Category))
		item.Category = req.Category
	}
	if req.Unit != "" && req.Unit != item.Unit {
		changes = append(changes, renderChange("unit", item.Unit, req.Unit))
		item.Unit = req.Unit
	}
	if req.UnitPrice != nil && (item.UnitPrice == nil || !item.UnitPrice.Equal(*req.UnitPrice)) {
		oldPrice := "unset"
		if item.UnitPrice != nil {
			oldPrice = item.UnitPrice.String()
		}
		changes = append(changes, renderChange("unit_price", oldPrice, req.UnitPrice.String()))
		item.UnitPrice = req.UnitPrice
	}

	if len(changes) == 0 {
		return item, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.itemRepo.WithTx(tx).Update(ctx, item); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeItem,
			EntityID:    &item.ID,
			EntityName:  item.Name,
			ActionType:  domain.ActionTypeUpdate,
			Before:      before,
			After:       item,
			Changes:     changes,
			Description: fmt.Sprintf("Updated item %s", item.Name),
		})
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes an item. Deletion is restricted while item details or
// purchases still reference the item.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.itemRepo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.NewBadRequestError(
			fmt.Sprintf("item %s is referenced by %d inventory records and cannot be deleted", item.Name, refs))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.itemRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeItem,
			EntityID:    &item.ID,
			EntityName:  item.Name,
			ActionType:  domain.ActionTypeDelete,
			Before:      item,
			Description: fmt.Sprintf("Deleted item %s", item.Name),
		})
	})
}
