package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
	"github.com/martijn/clustercalm/internal/infrastructure/sqlite"
	"github.com/martijn/clustercalm/internal/logging"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

type testEnv struct {
	clusterRepo  repository.ClusterRepository
	databaseRepo repository.DatabaseRepository
	auditRepo    repository.AuditLogRepository
	audit        *AuditLogService
	locks        *ClusterLocks
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvAt(t, ":memory:")
}

func newTestEnvAt(t *testing.T, dbPath string) *testEnv {
	t.Helper()
	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auditRepo := sqlite.NewAuditLogRepository(db)
	return &testEnv{
		clusterRepo:  sqlite.NewClusterRepository(db),
		databaseRepo: sqlite.NewDatabaseRepository(db),
		auditRepo:    auditRepo,
		audit:        NewAuditLogService(auditRepo, logging.Discard()),
		locks:        NewClusterLocks(),
	}
}

func (e *testEnv) propagation(parallelism int) *PropagationService {
	return NewPropagationService(e.clusterRepo, e.databaseRepo, e.audit, e.locks, parallelism, logging.Discard())
}

func (e *testEnv) auditCount(t *testing.T) int {
	t.Helper()
	n, err := e.auditRepo.Count(context.Background(), repository.AuditLogFilter{})
	require.NoError(t, err)
	return n
}

func dailyAt(tod string) *domain.Interval {
	return &domain.Interval{Interval: domain.IntervalDaily, TimeOfDay: ptr(tod)}
}

// seedScenario stores the canonical three database example: db_a differs in
// storage, db_b in schedule and skipme is excluded.
func (e *testEnv) seedScenario(t *testing.T) *domain.Cluster {
	t.Helper()
	ctx := context.Background()

	cluster := domain.NewCluster("prod", domain.EnginePostgresql, domain.ClusterConnection{
		Host: "db.internal", Port: 5432, Username: "backup", Password: "secret",
	})
	cluster.StorageID = "S1"
	cluster.BackupInterval = dailyAt("04:00")
	cluster.IsBackupsEnabled = true
	cluster.ExcludedDatabases = []string{"skipme"}
	require.NoError(t, e.clusterRepo.Create(ctx, cluster))

	e.seedDatabase(t, cluster, "db_a", "S2", dailyAt("04:00"), true)
	e.seedDatabase(t, cluster, "db_b", "S1", &domain.Interval{
		Interval: domain.IntervalWeekly, TimeOfDay: ptr("04:00"), Weekday: ptr(3),
	}, true)
	e.seedDatabase(t, cluster, "skipme", "S3", dailyAt("06:00"), false)

	return cluster
}

func (e *testEnv) seedDatabase(t *testing.T, cluster *domain.Cluster, name, storage string, interval *domain.Interval, enabled bool) *domain.Database {
	t.Helper()
	now := time.Now().UTC()
	db := &domain.Database{
		ID:               uuid.New(),
		ClusterID:        cluster.ID,
		Name:             name,
		IsBackupsEnabled: enabled,
		StorePeriod:      domain.PeriodWeek,
		BackupInterval:   interval,
		StorageID:        storage,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, e.databaseRepo.Create(context.Background(), db))
	return db
}

// failingDatabaseRepo fails Update for the named databases.
type failingDatabaseRepo struct {
	repository.DatabaseRepository
	failNames map[string]bool
}

func (r *failingDatabaseRepo) Update(ctx context.Context, db *domain.Database) error {
	if r.failNames[db.Name] {
		return errors.New("disk I/O error")
	}
	return r.DatabaseRepository.Update(ctx, db)
}

type brokenClusterRepo struct {
	repository.ClusterRepository
}

func (brokenClusterRepo) FindByID(context.Context, uuid.UUID) (*domain.Cluster, error) {
	return nil, errors.New("database is locked")
}

type failingAuditRepo struct {
	repository.AuditLogRepository
}

func (failingAuditRepo) Create(context.Context, *domain.AuditLog) error {
	return errors.New("audit store offline")
}

type fakeIntrospector struct {
	mu    sync.Mutex
	names []string
	err   error
	calls int
}

func (f *fakeIntrospector) ListDatabases(context.Context, *domain.Cluster) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.names, f.err
}
