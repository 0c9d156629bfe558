package repository

import (
	"context"
	"time"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository handles the append-only activity history log.
// There are no update or delete methods on purpose.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *HistoryRepository) WithTx(tx *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

// Create appends a history entry
func (r *HistoryRepository) Create(ctx context.Context, entry *domain.ActivityHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List retrieves history entries matching the filters, newest first
func (r *HistoryRepository) List(ctx context.Context, filters domain.ActivityFilters) ([]domain.ActivityHistory, error) {
	query := r.db.WithContext(ctx).Preload("User")

	if filters.EntityType != "" {
		query = query.Where("entity_type = ?", filters.EntityType)
	}
	if filters.EntityID != nil {
		query = query.Where("entity_id = ?", *filters.EntityID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	var entries []domain.ActivityHistory
	err := query.
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// ListForAudit retrieves the entries correlated with one audit: the audit's
// own entries plus item detail entries tagged with the audit id in metadata.
func (r *HistoryRepository) ListForAudit(ctx context.Context, auditID uuid.UUID, limit int) ([]domain.ActivityHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []domain.ActivityHistory
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("(entity_type = ? AND entity_id = ?) OR (entity_type = ? AND metadata LIKE ?)",
			domain.EntityTypeAudit, auditID,
			domain.EntityTypeItemDetail, "%"+auditID.String()+"%").
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// CountTotal counts all history entries
func (r *HistoryRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ActivityHistory{}).Count(&count).Error
	return count, err
}

// CountSince counts entries recorded at or after the given time
func (r *HistoryRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ActivityHistory{}).
		Where("occurred_at >= ?", since).
		Count(&count).Error
	return count, err
}

// CountByEntityType counts entries grouped by entity type
func (r *HistoryRepository) CountByEntityType(ctx context.Context) ([]domain.EntityTypeCount, error) {
	var counts []domain.EntityTypeCount
	err := r.db.WithContext(ctx).Model(&domain.ActivityHistory{}).
		Select("entity_type, COUNT(*) as count").
		Group("entity_type").
		Order("count DESC").
		Find(&counts).Error
	return counts, err
}
