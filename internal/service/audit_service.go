package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/pricing"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditService manages the audit lifecycle and the per-audit item details.
// An audit is a monthly snapshot of every room-item pair; its details are
// mutable only while the audit is in progress.
type AuditService struct {
	db          *gorm.DB
	auditRepo   *repository.AuditRepository
	detailRepo  *repository.ItemDetailRepository
	roomRepo    *repository.RoomRepository
	itemRepo    *repository.ItemRepository
	userRepo    *repository.UserRepository
	historyRepo *repository.HistoryRepository
	history     *HistoryService
	logger      *zap.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(
	db *gorm.DB,
	auditRepo *repository.AuditRepository,
	detailRepo *repository.ItemDetailRepository,
	roomRepo *repository.RoomRepository,
	itemRepo *repository.ItemRepository,
	userRepo *repository.UserRepository,
	historyRepo *repository.HistoryRepository,
	history *HistoryService,
	logger *zap.Logger,
) *AuditService {
	return &AuditService{
		db:          db,
		auditRepo:   auditRepo,
		detailRepo:  detailRepo,
		roomRepo:    roomRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		history:     history,
		logger:      logger,
	}
}

// Create opens a new monthly audit. Details are seeded by carrying forward
// the most recent prior audit's rows; the first-ever audit seeds one zeroed
// row per room-item pair instead. Everything happens in one transaction.
func (s *AuditService) Create(ctx context.Context, req *domain.CreateAuditRequest) (*domain.AuditDTO, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, domain.NewValidationError("month must be between 1 and 12")
	}

	if _, err := s.auditRepo.GetByMonthYear(ctx, req.Month, req.Year); err == nil {
		return nil, domain.NewConflictError(fmt.Sprintf("audit for %d/%d already exists", req.Month, req.Year))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participants, err := s.resolveParticipants(ctx, req.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	// Seed source: the most recent prior audit, if any
	var priorDetails []domain.ItemDetail
	prior, err := s.auditRepo.GetLatest(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if prior != nil {
		priorDetails, err = s.detailRepo.ListByAudit(ctx, prior.ID)
		if err != nil {
			return nil, err
		}
		// Participants default to the prior audit's set when none supplied
		if len(participants) == 0 {
			priorFull, err := s.auditRepo.GetByID(ctx, prior.ID)
			if err != nil {
				return nil, err
			}
			participants = priorFull.Participants
		}
	}

	seed, err := s.buildSeedDetails(ctx, priorDetails)
	if err != nil {
		return nil, err
	}

	audit := &domain.Audit{
		Month:  req.Month,
		Year:   req.Year,
		Status: domain.AuditStatusInProgress,
		Notes:  req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auditRepo := s.auditRepo.WithTx(tx)
		if err := auditRepo.Create(ctx, audit); err != nil {
			return err
		}
		if len(participants) > 0 {
			if err := auditRepo.ReplaceParticipants(ctx, audit, participants); err != nil {
				return err
			}
		}

		for i := range seed {
			seed[i].AuditID = audit.ID
		}
		if err := s.detailRepo.WithTx(tx).CreateBatch(ctx, seed); err != nil {
			return err
		}

		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType: domain.EntityTypeAudit,
			EntityID:   &audit.ID,
			EntityName: fmt.Sprintf("Audit %d/%d", audit.Month, audit.Year),
			ActionType: domain.ActionTypeCreate,
			After:      audit,
			Description: fmt.Sprintf("Created audit %d/%d with %d participants and %d item rows",
				audit.Month, audit.Year, len(participants), len(seed)),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("audit created",
		zap.String("audit_id", audit.ID.String()),
		zap.Int("month", audit.Month),
		zap.Int("year", audit.Year),
		zap.Int("seeded_rows", len(seed)))

	return s.GetByID(ctx, audit.ID)
}

// buildSeedDetails carries prior rows forward, or builds the zeroed
// room-item cross-product for the first audit
func (s *AuditService) buildSeedDetails(ctx context.Context, priorDetails []domain.ItemDetail) ([]domain.ItemDetail, error) {
	if len(priorDetails) > 0 {
		seed := make([]domain.ItemDetail, len(priorDetails))
		for i, d := range priorDetails {
			seed[i] = domain.ItemDetail{
				RoomID:           d.RoomID,
				ItemID:           d.ItemID,
				ActiveQuantity:   d.ActiveQuantity,
				BrokenQuantity:   d.BrokenQuantity,
				InactiveQuantity: d.InactiveQuantity,
				UnitPrice:        d.UnitPrice,
				TotalPrice: pricing.ComputeTotalPrice(d.UnitPrice,
					d.ActiveQuantity, d.BrokenQuantity, d.InactiveQuantity),
			}
		}
		return seed, nil
	}

	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	seed := make([]domain.ItemDetail, 0, len(rooms)*len(items))
	for _, room := range rooms {
		for _, item := range items {
			seed = append(seed, domain.ItemDetail{
				RoomID:     room.ID,
				ItemID:     item.ID,
				UnitPrice:  pricing.ResolveUnitPrice(nil, item.UnitPrice),
				TotalPrice: decimal.Zero,
			})
		}
	}
	return seed, nil
}

func (s *AuditService) resolveParticipants(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, domain.NewNotFoundError("one or more participants not found")
	}
	return users, nil
}

// GetByID retrieves an audit with its details grouped by room and its
// correlated history entries
func (s *AuditService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditDTO, error) {
	audit, err := s.auditRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("audit not found")
		}
		return nil, err
	}

	details, err := s.detailRepo.ListByAudit(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListForAudit(ctx, id, 50)
	if err != nil {
		return nil, err
	}

	return s.toDTO(audit, details, history), nil
}

// GetLatest retrieves the most recent audit. When no audit exists at all a
// not-found sentinel with message "no audits found" is returned so
// dashboards can distinguish an empty system from a bad ID.
func (s *AuditService) GetLatest(ctx context.Context) (*domain.AuditDTO, error) {
	latest, err := s.auditRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("no audits found")
		}
		return nil, err
	}
	return s.GetByID(ctx, latest.ID)
}

// List retrieves all audits newest first
func (s *AuditService) List(ctx context.Context) ([]domain.AuditListEntry, error) {
	return s.auditRepo.List(ctx)
}

// Update applies status, notes and participant changes to an audit. Empty
// strings are treated as absent fields. Status follows the state machine
// in_progress -> completed | canceled; both end states are terminal.
// No-op updates produce no history entry.
func (s *AuditService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAuditRequest) (*domain.AuditDTO, error) {
	audit, err := s.auditRepo.GetBare(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("audit not found")
		}
		return nil, err
	}

	before := *audit
	var changes []string

	if req.Status != "" {
		status := domain.AuditStatus(req.Status)
		if !status.IsValid() {
			return nil, domain.NewValidationError(fmt.Sprintf("status must be one of %s, %s, %s",
				domain.AuditStatusInProgress, domain.AuditStatusCompleted, domain.AuditStatusCanceled))
		}
		if status != audit.Status {
			if audit.Status.IsTerminal() {
				return nil, domain.NewBadRequestError(
					fmt.Sprintf("audit is %s and its status can no longer change", audit.Status))
			}
			changes = append(changes, renderChange("status", audit.Status, status))
			audit.Status = status
		}
	}

	if req.Notes != "" && req.Notes != audit.Notes {
		changes = append(changes, renderChange("notes", audit.Notes, req.Notes))
		audit.Notes = req.Notes
	}

	var participants []domain.User
	replaceParticipants := false
	if len(req.ParticipantIDs) > 0 {
		participants, err = s.resolveParticipants(ctx, req.ParticipantIDs)
		if err != nil {
			return nil, err
		}
		current, err := s.auditRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !sameParticipants(current.Participants, participants) {
			replaceParticipants = true
			changes = append(changes, renderChange("participants", len(current.Participants), len(participants)))
		}
	}

	if len(changes) == 0 {
		return s.GetByID(ctx, id)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		auditRepo := s.auditRepo.WithTx(tx)
		if err := auditRepo.Update(ctx, audit); err != nil {
			return err
		}
		if replaceParticipants {
			if err := auditRepo.ReplaceParticipants(ctx, audit, participants); err != nil {
				return err
			}
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeAudit,
			EntityID:    &audit.ID,
			EntityName:  fmt.Sprintf("Audit %d/%d", audit.Month, audit.Year),
			ActionType:  domain.ActionTypeUpdate,
			Before:      before,
			After:       audit,
			Changes:     changes,
			Description: fmt.Sprintf("Updated audit %d/%d", audit.Month, audit.Year),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes an audit and its details. Completed audits are immutable
// and cannot be deleted.
func (s *AuditService) Delete(ctx context.Context, id uuid.UUID) error {
	audit, err := s.auditRepo.GetBare(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewNotFoundError("audit not found")
		}
		return err
	}

	if audit.Status == domain.AuditStatusCompleted {
		return domain.NewBadRequestError("cannot delete a completed audit")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.auditRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeAudit,
			EntityID:    &audit.ID,
			EntityName:  fmt.Sprintf("Audit %d/%d", audit.Month, audit.Year),
			ActionType:  domain.ActionTypeDelete,
			Before:      audit,
			Description: fmt.Sprintf("Deleted audit %d/%d", audit.Month, audit.Year),
		})
	})
}

// AddItemDetail adds a room-item row to an in-progress audit
func (s *AuditService) AddItemDetail(ctx context.Context, auditID uuid.UUID, req *domain.AddItemDetailRequest) (*domain.ItemDetail, error) {
	audit, err := s.auditRepo.GetBare(ctx, auditID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("audit not found")
		}
		return nil, err
	}
	if audit.Status != domain.AuditStatusInProgress {
		return nil, domain.NewBadRequestError("cannot modify items in an audit that is not in progress")
	}

	if req.ActiveQuantity < 0 || req.BrokenQuantity < 0 || req.InactiveQuantity < 0 {
		return nil, domain.NewValidationError("quantities cannot be negative")
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

	if _, err := s.detailRepo.GetByComposite(ctx, req.RoomID, req.ItemID, auditID); err == nil {
		return nil, domain.NewConflictError("item details for this room, item, and audit combination already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unitPrice := pricing.ResolveUnitPrice(nil, item.UnitPrice)
	detail := &domain.ItemDetail{
		RoomID:           req.RoomID,
		ItemID:           req.ItemID,
		AuditID:          auditID,
		ActiveQuantity:   req.ActiveQuantity,
		BrokenQuantity:   req.BrokenQuantity,
		InactiveQuantity: req.InactiveQuantity,
		UnitPrice:        unitPrice,
		TotalPrice: pricing.ComputeTotalPrice(unitPrice,
			req.ActiveQuantity, req.BrokenQuantity, req.InactiveQuantity),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.detailRepo.WithTx(tx).Create(ctx, detail); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType: domain.EntityTypeItemDetail,
			EntityID:   &detail.ID,
			EntityName: fmt.Sprintf("%s - %s", item.Name, room.Name),
			ActionType: domain.ActionTypeCreate,
			After:      detail,
			Description: fmt.Sprintf("Added %s to %s in audit %d/%d",
				item.Name, room.Name, audit.Month, audit.Year),
			Metadata: map[string]interface{}{
				"audit_id": auditID.String(),
				"room_id":  req.RoomID.String(),
				"item_id":  req.ItemID.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return s.detailRepo.GetByID(ctx, detail.ID)
}

// UpdateItemDetail adjusts quantity counters on an item detail. Prices are
// recomputed on every update so the total always matches the counters.
func (s *AuditService) UpdateItemDetail(ctx context.Context, auditID, detailID uuid.UUID, req *domain.UpdateItemDetailRequest) (*domain.ItemDetail, error) {
	detail, audit, err := s.getDetailForMutation(ctx, auditID, detailID)
	if err != nil {
		return nil, err
	}

	if (req.ActiveQuantity != nil && *req.ActiveQuantity < 0) ||
		(req.BrokenQuantity != nil && *req.BrokenQuantity < 0) ||
		(req.InactiveQuantity != nil && *req.InactiveQuantity < 0) {
		return nil, domain.NewValidationError("quantities cannot be negative")
	}

	before := *detail
	var changes []string

	if req.ActiveQuantity != nil && *req.ActiveQuantity != detail.ActiveQuantity {
		changes = append(changes, renderChange("active_quantity", detail.ActiveQuantity, *req.ActiveQuantity))
		detail.ActiveQuantity = *req.ActiveQuantity
	}
	if req.BrokenQuantity != nil && *req.BrokenQuantity != detail.BrokenQuantity {
		changes = append(changes, renderChange("broken_quantity", detail.BrokenQuantity, *req.BrokenQuantity))
		detail.BrokenQuantity = *req.BrokenQuantity
	}
	if req.InactiveQuantity != nil && *req.InactiveQuantity != detail.InactiveQuantity {
		changes = append(changes, renderChange("inactive_quantity", detail.InactiveQuantity, *req.InactiveQuantity))
		detail.InactiveQuantity = *req.InactiveQuantity
	}

	if len(changes) == 0 {
		return detail, nil
	}

	delta := detail.ActiveQuantity + detail.BrokenQuantity + detail.InactiveQuantity -
		before.ActiveQuantity - before.BrokenQuantity - before.InactiveQuantity
	if delta < 0 {
		delta = -delta
	}

	// Recompute prices on every update so the invariant never goes stale
	unitPrice := detail.UnitPrice
	if unitPrice.IsZero() && detail.Item != nil {
		unitPrice = pricing.ResolveUnitPrice(nil, detail.Item.UnitPrice)
	}
	detail.UnitPrice = unitPrice
	detail.TotalPrice = pricing.ComputeTotalPrice(unitPrice,
		detail.ActiveQuantity, detail.BrokenQuantity, detail.InactiveQuantity)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.detailRepo.WithTx(tx).Update(ctx, detail); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:    domain.EntityTypeItemDetail,
			EntityID:      &detail.ID,
			EntityName:    detailEntityName(detail),
			ActionType:    domain.ActionTypeUpdate,
			Before:        before,
			After:         detail,
			Changes:       changes,
			QuantityDelta: &delta,
			Description:   fmt.Sprintf("Updated item counts in audit %d/%d", audit.Month, audit.Year),
			Metadata: map[string]interface{}{
				"audit_id": auditID.String(),
				"room_id":  detail.RoomID.String(),
				"item_id":  detail.ItemID.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// DeleteItemDetail removes an item detail from an in-progress audit
func (s *AuditService) DeleteItemDetail(ctx context.Context, auditID, detailID uuid.UUID) error {
	detail, audit, err := s.getDetailForMutation(ctx, auditID, detailID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.detailRepo.WithTx(tx).Delete(ctx, detailID); err != nil {
			return err
		}
		return s.history.WithTx(tx).Record(ctx, LogEntry{
			EntityType:  domain.EntityTypeItemDetail,
			EntityID:    &detail.ID,
			EntityName:  detailEntityName(detail),
			ActionType:  domain.ActionTypeDelete,
			Before:      detail,
			Description: fmt.Sprintf("Removed item row from audit %d/%d", audit.Month, audit.Year),
			Metadata: map[string]interface{}{
				"audit_id": auditID.String(),
				"room_id":  detail.RoomID.String(),
				"item_id":  detail.ItemID.String(),
			},
		})
	})
}

// GetItemSummary aggregates an audit's details by item across rooms,
// sorted by item name
func (s *AuditService) GetItemSummary(ctx context.Context, auditID uuid.UUID) ([]domain.ItemSummaryRow, error) {
	if _, err := s.auditRepo.GetBare(ctx, auditID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("audit not found")
		}
		return nil, err
	}

	details, err := s.detailRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID]*domain.ItemSummaryRow)
	for _, d := range details {
		row, ok := byItem[d.ItemID]
		if !ok {
			row = &domain.ItemSummaryRow{ItemID: d.ItemID}
			if d.Item != nil {
				row.ItemName = d.Item.Name
				row.Unit = d.Item.Unit
			}
			byItem[d.ItemID] = row
		}
		row.ActiveQuantity += d.ActiveQuantity
		row.DamageQuantity += d.BrokenQuantity
		row.InactiveQuantity += d.InactiveQuantity
		row.TotalQuantity += d.TotalQuantity()
		// Each row carries its own unit price, so sum the per-row totals
		// rather than applying one global price
		row.TotalPrice = row.TotalPrice.Add(d.TotalPrice)
	}

	summary := make([]domain.ItemSummaryRow, 0, len(byItem))
	for _, row := range byItem {
		summary = append(summary, *row)
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].ItemName < summary[j].ItemName
	})
	return summary, nil
}

// getDetailForMutation loads a detail row and enforces the lifecycle guard
func (s *AuditService) getDetailForMutation(ctx context.Context, auditID, detailID uuid.UUID) (*domain.ItemDetail, *domain.Audit, error) {
	detail, err := s.detailRepo.GetByID(ctx, detailID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NewNotFoundError("item details not found")
		}
		return nil, nil, err
	}
	if detail.AuditID != auditID {
		return nil, nil, domain.NewNotFoundError("item details not found in this audit")
	}

	audit, err := s.auditRepo.GetBare(ctx, auditID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.NewNotFoundError("audit not found")
		}
		return nil, nil, err
	}
	if audit.Status != domain.AuditStatusInProgress {
		return nil, nil, domain.NewBadRequestError("cannot modify items in an audit that is not in progress")
	}

	return detail, audit, nil
}

func (s *AuditService) toDTO(audit *domain.Audit, details []domain.ItemDetail, history []domain.ActivityHistory) *domain.AuditDTO {
	var grouped []domain.RoomDetails
	index := make(map[uuid.UUID]int)
	for _, d := range details {
		i, ok := index[d.RoomID]
		if !ok {
			rd := domain.RoomDetails{}
			if d.Room != nil {
				rd.Room = domain.RoomSummary{
					ID:         d.Room.ID,
					Name:       d.Room.Name,
					Floor:      d.Room.Floor,
					Department: d.Room.Department,
				}
			}
			grouped = append(grouped, rd)
			i = len(grouped) - 1
			index[d.RoomID] = i
		}
		grouped[i].Details = append(grouped[i].Details, d)
	}

	participants := audit.Participants
	if participants == nil {
		participants = []domain.User{}
	}
	if grouped == nil {
		grouped = []domain.RoomDetails{}
	}

	return &domain.AuditDTO{
		ID:            audit.ID,
		Month:         audit.Month,
		Year:          audit.Year,
		Status:        audit.Status,
		Notes:         audit.Notes,
		Participants:  participants,
		DetailsByRoom: grouped,
		History:       history,
		CreatedAt:     audit.CreatedAt,
		UpdatedAt:     audit.UpdatedAt,
	}
}

func detailEntityName(detail *domain.ItemDetail) string {
	itemName, roomName := "item", "room"
	if detail.Item != nil {
		itemName = detail.Item.Name
	}
	if detail.Room != nil {
		roomName = detail.Room.Name
	}
	return fmt.Sprintf("%s - %s", itemName, roomName)
}

func sameParticipants(current, next []domain.User) bool {
	if len(current) != len(next) {
		return false
	}
	have := make(map[uuid.UUID]bool, len(current))
	for _, u := range current {
		have[u.ID] = true
	}
	for _, u := range next {
		if !have[u.ID] {
			return false
		}
	}
	return true
}
