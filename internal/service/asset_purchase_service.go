package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/pricing"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssetPurchaseService records purchasing events and folds them into the
// latest audit. The fold is a one-time event at creation: later edits or
// deletes of a purchase never adjust item details retroactively.
type AssetPurchaseService struct {
	db           *gorm.DB
	purchaseRepo *repository.AssetPurchaseRepository
	auditRepo    *repository.AuditRepository
	detailRepo   *repository.ItemDetailRepository
	roomRepo     *repository.RoomRepository
	itemRepo     *repository.ItemRepository
	history      *HistoryService
	logger       *zap.Logger
}

// NewAssetPurchaseService creates a new AssetPurchaseService
func NewAssetPurchaseService(
	db *gorm.DB,
	purchaseRepo *repository.AssetPurchaseRepository,
	auditRepo *repository.AuditRepository,
	detailRepo *repository.ItemDetailRepository,
	roomRepo *repository.RoomRepository,
	itemRepo *repository.ItemRepository,
	history *HistoryService,
	logger *zap.Logger,
) *AssetPurchaseService {
	return &AssetPurchaseService{
		db:           db,
		purchaseRepo: purchaseRepo,
		auditRepo:    auditRepo,
		detailRepo:   detailRepo,
		roomRepo:     roomRepo,
		itemRepo:     itemRepo,
		history:      history,
		logger:       logger,
	}
}

// Create records a purchase, overwrites the item master price with the
// purchase price, and folds the purchased quantity into the latest audit's
// item details. All writes share one transaction.
func (s *AssetPurchaseService) Create(ctx context.Context, req *domain.CreateAssetPurchaseRequest) (*domain.AssetPurchase, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, domain.NewUnauthorizedError("authentication required")
	}

	if req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be greater than 0")
	}
	if req.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit price cannot be negative")
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("room not found")
		}
		return nil, err
	}
	item, err := s.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("item not found")
		}
		return nil, err
	}

	totalCost := req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))

	purchaseDate := time.Now().UTC()
	if req.PurchaseDate != nil {
		purchaseDate = *req.PurchaseDate
	}

	purchase := &domain.AssetPurchase{
		RoomID:       req.RoomID,
		ItemID:       req.ItemID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		TotalCost:    totalCost,
		PurchaseDate: purchaseDate,
		Notes:        req.Notes,
		AddedByID:    userCtx.UserID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The most recent purchase price is authoritative for the master
		if item.UnitPrice == nil || !item.UnitPrice.Equal(req.UnitPrice) {
			if err := s.itemRepo.WithTx(tx).UpdateUnitPrice(ctx, item.ID, req.UnitPrice); err != nil {
				return err
			}
		}

		if err := s.purchaseRepo.WithTx(tx).Create(ctx, purchase); err != nil {
			return err
		}

		latest, err := s.auditRepo.WithTx(tx).GetLatest(ctx)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if latest != nil {
			if err := s.foldIntoAudit(ctx, tx, latest, purchase, room, item); err != nil {
				return err
			}
		} else {
			s.logger.Warn("no audit found, purchase recorded without audit effect",
				zap.String("purchase_id", purchase.ID.String()))
		}

		description := fmt.Sprintf("Added %d %s(s) to %s (Total: %s)",
			purchase.Quantity, item.Name, room.Name, totalCost.String())
		if latest != nil {
			description += fmt.Sprintf(" - Added to audit %d/%d", latest.Month, latest.Year)
		}

		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeAssetPurchase,
			EntityID:    &purchase.ID,
			EntityName:  fmt.Sprintf("%s - %s", item.Name, room.Name),
			ActionType:  domain.ActionTypeCreate,
			After:       purchase,
			Description: description,
			Metadata: map[string]interface{}{
				"source": "asset_purchase",
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("asset purchase recorded",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("item", item.Name),
		zap.String("room", room.Name),
		zap.Int("quantity", purchase.Quantity))

	return s.purchaseRepo.GetByID(ctx, purchase.ID)
}

// foldIntoAudit merges the purchase into the latest audit's detail row for
// the room-item pair, creating the row when absent. The updated row's unit
// price becomes the quantity-weighted average cost basis, not the latest
// transaction price.
func (s *AssetPurchaseService) foldIntoAudit(ctx context.Context, tx *gorm.DB, audit *domain.Audit, purchase *domain.AssetPurchase, room *domain.Room, item *domain.Item) error {
	detailRepo := s.detailRepo.WithTx(tx)

	existing, err := detailRepo.GetByComposite(ctx, purchase.RoomID, purchase.ItemID, audit.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		oldQty := existing.TotalQuantity()
		existing.ActiveQuantity += purchase.Quantity
		existing.UnitPrice = pricing.BlendUnitPrice(
			existing.TotalPrice, purchase.TotalCost,
			oldQty, purchase.Quantity, purchase.UnitPrice)
		existing.TotalPrice = existing.TotalPrice.Add(purchase.TotalCost)
		if err := detailRepo.Update(ctx, existing); err != nil {
			return err
		}
	} else {
		detail := &domain.ItemDetail{
			RoomID:         purchase.RoomID,
			ItemID:         purchase.ItemID,
			AuditID:        audit.ID,
			ActiveQuantity: purchase.Quantity,
			UnitPrice:      purchase.UnitPrice,
			TotalPrice:     purchase.TotalCost,
		}
		if err := detailRepo.Create(ctx, detail); err != nil {
			return err
		}
	}

	return s.history.WithTx(tx).Record(ctx, LogEntry{
		EntityType: domain.EntityTypeItemDetail,
		EntityName: fmt.Sprintf("%s - %s", item.Name, room.Name),
		ActionType: domain.ActionTypeUpdate,
		Description: fmt.Sprintf("Added %d %s(s) to audit %d/%d as active items (from asset purchase)",
			purchase.Quantity, item.Name, audit.Month, audit.Year),
		Metadata: map[string]interface{}{
			"audit_id":   audit.ID.String(),
			"room_id":    purchase.RoomID.String(),
			"item_id":    purchase.ItemID.String(),
			"quantity":   purchase.Quantity,
			"unit_price": purchase.UnitPrice.String(),
			"total_cost": purchase.TotalCost.String(),
			"source":     "asset_purchase",
		},
	})
}

// GetByID retrieves a purchase by ID
func (s *AssetPurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetPurchase, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("asset purchase not found")
		}
		return nil, err
	}
	return purchase, nil
}

// List retrieves purchases matching the filters
func (s *AssetPurchaseService) List(ctx context.Context, filters domain.PurchaseFilters) ([]domain.AssetPurchase, error) {
	return s.purchaseRepo.List(ctx, filters)
}

// Update edits a purchase record. The total cost is recomputed, but the
// fold performed at creation time is deliberately left untouched.
func (s *AssetPurchaseService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAssetPurchaseRequest) (*domain.AssetPurchase, error) {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil && *req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be greater than 0")
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit price cannot be negative")
	}

	if req.RoomID != nil {
		if _, err := s.roomRepo.GetByID(ctx, *req.RoomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.NewNotFoundError("room not found")
			}
			return nil, err
		}
	}
	if req.ItemID != nil {
		if _, err := s.itemRepo.GetByID(ctx, *req.ItemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.NewNotFoundError("item not found")
			}
			return nil, err
		}
	}

	before := *purchase
	var changes []string

	if req.RoomID != nil && *req.RoomID != purchase.RoomID {
		changes = append(changes, "room changed")
		purchase.RoomID = *req.RoomID
	}
	if req.ItemID != nil && *req.ItemID != purchase.ItemID {
		changes = append(changes, "item changed")
		purchase.ItemID = *req.ItemID
	}
	if req.Quantity != nil && *req.Quantity != purchase.Quantity {
		changes = append(changes, renderChange("quantity", purchase.Quantity, *req.Quantity))
		purchase.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil && !req.UnitPrice.Equal(purchase.UnitPrice) {
		changes = append(changes, renderChange("unit_price", purchase.UnitPrice, *req.UnitPrice))
		purchase.UnitPrice = *req.UnitPrice
	}
	if req.PurchaseDate != nil {
		purchase.PurchaseDate = *req.PurchaseDate
	}
	if req.Notes != nil {
		purchase.Notes = *req.Notes
	}

	// Total cost always tracks the current quantity and price
	purchase.TotalCost = purchase.UnitPrice.Mul(decimal.NewFromInt(int64(purchase.Quantity)))
	purchase.Room, purchase.Item, purchase.AddedBy = nil, nil, nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.purchaseRepo.WithTx(tx).Update(ctx, purchase); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeAssetPurchase,
			EntityID:    &purchase.ID,
			EntityName:  purchaseEntityName(&before),
			ActionType:  domain.ActionTypeUpdate,
			Before:      before,
			After:       purchase,
			Changes:     changes,
			Description: "Updated asset purchase",
		})
	})
	if err != nil {
		return nil, err
	}

	return s.purchaseRepo.GetByID(ctx, id)
}

// Delete removes a purchase record. Item details folded at creation time
// are not adjusted.
func (s *AssetPurchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.purchaseRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		description := fmt.Sprintf("Deleted asset purchase: %d unit(s)", purchase.Quantity)
		if purchase.Item != nil && purchase.Room != nil {
			description = fmt.Sprintf("Deleted asset purchase: %d %s(s) from %s",
				purchase.Quantity, purchase.Item.Name, purchase.Room.Name)
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeAssetPurchase,
			EntityID:    &purchase.ID,
			EntityName:  purchaseEntityName(purchase),
			ActionType:  domain.ActionTypeDelete,
			Before:      purchase,
			Description: description,
		})
	})
}

// GetSummary aggregates purchases by room and by item within the filters
func (s *AssetPurchaseService) GetSummary(ctx context.Context, filters domain.PurchaseFilters) (*domain.PurchaseSummary, error) {
	purchases, err := s.purchaseRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	summary := &domain.PurchaseSummary{
		TotalPurchases: len(purchases),
		TotalCost:      decimal.Zero,
		ByRoom:         []domain.PurchaseRoomSummary{},
		ByItem:         []domain.PurchaseItemSummary{},
	}

	roomIndex := make(map[uuid.UUID]int)
	itemIndex := make(map[uuid.UUID]int)

	for _, p := range purchases {
		summary.TotalCost = summary.TotalCost.Add(p.TotalCost)

		roomName, itemName := "", ""
		if p.Room != nil {
			roomName = p.Room.Name
		}
		if p.Item != nil {
			itemName = p.Item.Name
		}

		ri, ok := roomIndex[p.RoomID]
		if !ok {
			summary.ByRoom = append(summary.ByRoom, domain.PurchaseRoomSummary{
				RoomID:    p.RoomID,
				RoomName:  roomName,
				TotalCost: decimal.Zero,
			})
			ri = len(summary.ByRoom) - 1
			roomIndex[p.RoomID] = ri
		}
		summary.ByRoom[ri].TotalItems += p.Quantity
		summary.ByRoom[ri].TotalCost = summary.ByRoom[ri].TotalCost.Add(p.TotalCost)
		summary.ByRoom[ri].Items = append(summary.ByRoom[ri].Items, domain.PurchaseSummaryLine{
			Name:      itemName,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			TotalCost: p.TotalCost,
		})

		ii, ok := itemIndex[p.ItemID]
		if !ok {
			summary.ByItem = append(summary.ByItem, domain.PurchaseItemSummary{
				ItemID:    p.ItemID,
				ItemName:  itemName,
				TotalCost: decimal.Zero,
			})
			ii = len(summary.ByItem) - 1
			itemIndex[p.ItemID] = ii
		}
		summary.ByItem[ii].TotalQuantity += p.Quantity
		summary.ByItem[ii].TotalCost = summary.ByItem[ii].TotalCost.Add(p.TotalCost)
		summary.ByItem[ii].Rooms = append(summary.ByItem[ii].Rooms, domain.PurchaseSummaryLine{
			Name:      roomName,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			TotalCost: p.TotalCost,
		})
	}

	return summary, nil
}

func purchaseEntityName(p *domain.AssetPurchase) string {
	itemName, roomName := "item", "room"
	if p.Item != nil {
		itemName = p.Item.Name
	}
	if p.Room != nil {
		roomName = p.Room.Name
	}
	return fmt.Sprintf("%s - %s", itemName, roomName)
}
