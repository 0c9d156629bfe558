package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/assetline/inventory-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditCoverageJobName is the name of the audit coverage check job
const AuditCoverageJobName = "audit_coverage"

// AuditLookup is the slice of the audit repository the coverage check needs.
type AuditLookup interface {
	GetByMonthYear(ctx context.Context, month, year int) (*domain.Audit, error)
	GetLatest(ctx context.Context) (*domain.Audit, error)
}

// AuditCoverageJob flags months that have no audit opened yet, and audits
// left in progress past their calendar month. It only observes and logs;
// opening audits stays a deliberate user action.
type AuditCoverageJob struct {
	audits  AuditLookup
	logger  *zap.Logger
	timeout time.Duration
}

// NewAuditCoverageJob creates a new audit coverage job.
func NewAuditCoverageJob(audits AuditLookup, logger *zap.Logger, timeout time.Duration) *AuditCoverageJob {
	return &AuditCoverageJob{
		audits:  audits,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the coverage check. Called by the scheduler.
func (j *AuditCoverageJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()

	current, err := j.audits.GetByMonthYear(ctx, month, year)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		j.logger.Warn("no audit opened for the current month",
			zap.Int("month", month),
			zap.Int("year", year))
	case err != nil:
		j.logger.Error("audit coverage check failed", zap.Error(err))
		return
	default:
		j.logger.Info("current month audit present",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.String("status", string(current.Status)))
	}

	latest, err := j.audits.GetLatest(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			j.logger.Error("audit coverage check failed", zap.Error(err))
		}
		return
	}
	if latest.Status == domain.AuditStatusInProgress &&
		(latest.Year < year || (latest.Year == year && latest.Month < month)) {
		j.logger.Warn("audit from a past month is still in progress",
			zap.Int("month", latest.Month),
			zap.Int("year", latest.Year),
			zap.String("audit_id", latest.ID.String()))
	}
}

// RegisterAuditCoverageJob registers the coverage check with the scheduler.
func RegisterAuditCoverageJob(scheduler *Scheduler, audits AuditLookup, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewAuditCoverageJob(audits, logger, timeout)
	return scheduler.AddJob(AuditCoverageJobName, cronExpr, job.Run)
}
