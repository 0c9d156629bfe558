package jobs_test

import (
	"testing"
	"time"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/jobs"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/assetline/inventory-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditCoverageJob_WarnsWhenMonthUncovered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	core, logs := observer.New(zap.WarnLevel)

	job := jobs.NewAuditCoverageJob(repository.NewAuditRepository(db), zap.New(core), time.Second)
	job.Run()

	assert.Equal(t, 1, logs.FilterMessage("no audit opened for the current month").Len())
}

func TestAuditCoverageJob_QuietWhenMonthCovered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Now().UTC()
	testutil.CreateTestAudit(t, db, int(now.Month()), now.Year(), domain.AuditStatusInProgress)

	core, logs := observer.New(zap.WarnLevel)
	job := jobs.NewAuditCoverageJob(repository.NewAuditRepository(db), zap.New(core), time.Second)
	job.Run()

	assert.Zero(t, logs.Len())
}

func TestAuditCoverageJob_FlagsStaleInProgressAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Now().UTC()
	stale := now.AddDate(0, -2, 0)
	testutil.CreateTestAudit(t, db, int(stale.Month()), stale.Year(), domain.AuditStatusInProgress)

	core, logs := observer.New(zap.WarnLevel)
	job := jobs.NewAuditCoverageJob(repository.NewAuditRepository(db), zap.New(core), time.Second)
	job.Run()

	assert.Equal(t, 1, logs.FilterMessage("audit from a past month is still in progress").Len())
}
