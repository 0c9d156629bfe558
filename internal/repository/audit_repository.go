package repository

import (
	"context"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepository handles audit aggregate data access
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *AuditRepository) WithTx(tx *gorm.DB) *AuditRepository {
	return &AuditRepository{db: tx}
}

// Create inserts a new audit
func (r *AuditRepository) Create(ctx context.Context, audit *domain.Audit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// GetByID retrieves an audit with participants and item details
// (room and item joined)
func (r *AuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Audit, error) {
	var audit domain.Audit
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("ItemDetails.Room").
		Preload("ItemDetails.Item").
		First(&audit, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// GetBare retrieves an audit without relations, for status checks
func (r *AuditRepository) GetBare(ctx context.Context, id uuid.UUID) (*domain.Audit, error) {
	var audit domain.Audit
	if err := r.db.WithContext(ctx).First(&audit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &audit, nil
}

// GetByMonthYear retrieves the audit for a calendar month, if any
func (r *AuditRepository) GetByMonthYear(ctx context.Context, month, year int) (*domain.Audit, error) {
	var audit domain.Audit
	err := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		First(&audit).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// GetLatest retrieves the most recent audit, ordered by year, month and
// creation time. Returns gorm.ErrRecordNotFound when no audit exists.
func (r *AuditRepository) GetLatest(ctx context.Context) (*domain.Audit, error) {
	var audit domain.Audit
	err := r.db.WithContext(ctx).
		Order("year DESC").
		Order("month DESC").
		Order("created_at DESC").
		First(&audit).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// GetLatestWithRelations retrieves the most recent audit with participants
// and item details joined
func (r *AuditRepository) GetLatestWithRelations(ctx context.Context) (*domain.Audit, error) {
	latest, err := r.GetLatest(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, latest.ID)
}

// List retrieves all audits newest first with relation counts
func (r *AuditRepository) List(ctx context.Context) ([]domain.AuditListEntry, error) {
	var audits []domain.Audit
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Order("year DESC").
		Order("month DESC").
		Find(&audits).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.AuditListEntry, len(audits))
	for i, a := range audits {
		var detailCount int64
		if err := r.db.WithContext(ctx).Model(&domain.ItemDetail{}).
			Where("audit_id = ?", a.ID).Count(&detailCount).Error; err != nil {
			return nil, err
		}
		entries[i] = domain.AuditListEntry{
			ID:               a.ID,
			Month:            a.Month,
			Year:             a.Year,
			Status:           a.Status,
			Notes:            a.Notes,
			ParticipantCount: len(a.Participants),
			ItemDetailCount:  int(detailCount),
			CreatedAt:        a.CreatedAt,
		}
	}
	return entries, nil
}

// Update persists changes to an audit's own columns
func (r *AuditRepository) Update(ctx context.Context, audit *domain.Audit) error {
	return r.db.WithContext(ctx).Omit("Participants", "ItemDetails").Save(audit).Error
}

// ReplaceParticipants swaps the audit's participant set
func (r *AuditRepository) ReplaceParticipants(ctx context.Context, audit *domain.Audit, users []domain.User) error {
	return r.db.WithContext(ctx).Model(audit).Association("Participants").Replace(users)
}

// Delete hard-deletes an audit together with its participant links and
// item details
func (r *AuditRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM audit_participants WHERE audit_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("audit_id = ?", id).Delete(&domain.ItemDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Audit{}, "id = ?", id).Error
	})
}
