package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HistoryService records and serves the append-only activity trail. Every
// mutating operation calls Record inside its own transaction so a mutation
// and its log entry are never observed independently.
type HistoryService struct {
	historyRepo *repository.HistoryRepository
	logger      *zap.Logger
}

// NewHistoryService creates a new history service
func NewHistoryService(historyRepo *repository.HistoryRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// WithTx returns a copy of the service bound to the given transaction
func (s *HistoryService) WithTx(tx *gorm.DB) *HistoryService {
	return &HistoryService{
		historyRepo: s.historyRepo.WithTx(tx),
		logger:      s.logger,
	}
}

// LogEntry represents the input for recording a history entry
type LogEntry struct {
	EntityType domain.EntityType
	EntityID   *uuid.UUID
	EntityName string
	ActionType domain.ActionType
	Before     interface{}
	After      interface{}
	Changes    []string
	// QuantityDelta is the total absolute quantity change for counter-bearing
	// updates, folded into the change summary
	QuantityDelta *int
	Description   string
	Metadata      map[string]interface{}
}

// Record appends a history entry. The acting user is taken from the
// request context when present.
func (s *HistoryService) Record(ctx context.Context, entry LogEntry) error {
	h := &domain.ActivityHistory{
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		EntityName:  entry.EntityName,
		ActionType:  entry.ActionType,
		Description: entry.Description,
		Before:      marshalValue(entry.Before),
		After:       marshalValue(entry.After),
		Metadata:    marshalValue(entry.Metadata),
		OccurredAt:  time.Now().UTC(),
	}

	if userCtx, ok := auth.FromContext(ctx); ok && userCtx != nil {
		h.UserID = userCtx.UserIDPtr()
	}

	if len(entry.Changes) > 0 {
		summary := map[string]interface{}{"changes": entry.Changes}
		if entry.QuantityDelta != nil {
			summary["quantityDelta"] = *entry.QuantityDelta
		}
		h.ChangeSummary = marshalValue(summary)
	} else {
		h.ChangeSummary = "null"
	}

	if err := s.historyRepo.Create(ctx, h); err != nil {
		s.logger.Error("failed to record activity history",
			zap.String("entity_type", string(entry.EntityType)),
			zap.String("action_type", string(entry.ActionType)),
			zap.Error(err))
		return err
	}

	return nil
}

// GetRecentActivity retrieves history entries matching the filters,
// newest first, capped at filters.Limit (default 50)
func (s *HistoryService) GetRecentActivity(ctx context.Context, filters domain.ActivityFilters) ([]domain.ActivityHistory, error) {
	if filters.EntityType != "" && !filters.EntityType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown entity type %q", filters.EntityType))
	}
	return s.historyRepo.List(ctx, filters)
}

// GetActivityStats summarizes history volume for dashboards
func (s *HistoryService) GetActivityStats(ctx context.Context) (*domain.ActivityStats, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	total, err := s.historyRepo.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.historyRepo.CountSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	week, err := s.historyRepo.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	byEntityType, err := s.historyRepo.CountByEntityType(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ActivityStats{
		TotalActivities: total,
		TodayActivities: today,
		WeekActivities:  week,
		ByEntityType:    byEntityType,
	}, nil
}

// renderChange renders one field delta for a change summary
func renderChange(field string, oldValue, newValue interface{}) string {
	return fmt.Sprintf("%s: %v → %v", field, oldValue, newValue)
}

// marshalValue serializes a snapshot for a jsonb column, using "null"
// when there is nothing to store
func marshalValue(v interface{}) string {
	if v == nil {
		return "null"
	}
	if m, ok := v.(map[string]interface{}); ok && len(m) == 0 {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
