package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) databaseService() *DatabaseService {
	return NewDatabaseService(e.clusterRepo, e.databaseRepo, e.audit, logging.Discard())
}

func TestCreateDatabase_SeedsFromCluster(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cluster := env.seedScenario(t)
	svc := env.databaseService()

	db, err := svc.CreateDatabase(ctx, "admin", cluster.ID, DatabaseSettings{Name: ptr(" orders ")})
	require.NoError(t, err)
	assert.Equal(t, "orders", db.Name)
	assert.Equal(t, "S1", db.StorageID)
	assert.True(t, db.IsBackupsEnabled)
	assert.True(t, db.BackupInterval.Equal(cluster.BackupInterval))

	custom, err := svc.CreateDatabase(ctx, "admin", cluster.ID, DatabaseSettings{
		Name:             ptr("archive"),
		IsBackupsEnabled: ptr(false),
		StorageID:        ptr("S5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "S5", custom.StorageID)
	assert.False(t, custom.IsBackupsEnabled)
}

func TestCreateDatabase_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cluster := env.seedScenario(t)
	svc := env.databaseService()

	var vErr *ValidationError

	_, err := svc.CreateDatabase(ctx, "admin", cluster.ID, DatabaseSettings{})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.CreateDatabase(ctx, "admin", cluster.ID, DatabaseSettings{Name: ptr("DB_A")})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "already exists")

	_, err = svc.CreateDatabase(ctx, "admin", cluster.ID, DatabaseSettings{
		Name:      ptr("x"),
		StorageID: ptr(""),
	})
	assert.ErrorAs(t, err, &vErr, "enabled backups need a storage")

	_, err = svc.CreateDatabase(ctx, "admin", uuid.New(), DatabaseSettings{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrClusterNotFound)
}

func TestUpdateDatabase_DriftsFromCluster(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cluster := env.seedScenario(t)
	svc := env.databaseService()

	databases, err := svc.ListByCluster(ctx, cluster.ID)
	require.NoError(t, err)
	dbB := databases[1]
	require.Equal(t, "db_b", dbB.Name)

	updated, err := svc.UpdateDatabase(ctx, "admin", dbB.ID, DatabaseSettings{
		BackupInterval: &domain.Interval{Interval: domain.IntervalHourly, TimeOfDay: ptr("01:00")},
		StorageID:      ptr("S4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "S4", updated.StorageID)
	assert.Nil(t, updated.BackupInterval.TimeOfDay)

	stored, err := svc.GetDatabase(ctx, dbB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IntervalHourly, stored.BackupInterval.Interval)

	_, err = svc.UpdateDatabase(ctx, "admin", uuid.New(), DatabaseSettings{})
	assert.ErrorIs(t, err, ErrDatabaseNotFound)

	_, err = svc.ListByCluster(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrClusterNotFound)
}

func TestUpdateDatabase_RenameRejectsFoldedDuplicate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	cluster := env.seedScenario(t)
	svc := env.databaseService()

	databases, err := svc.ListByCluster(ctx, cluster.ID)
	require.NoError(t, err)
	dbB := databases[1]
	require.Equal(t, "db_b", dbB.Name)

	_, err = svc.UpdateDatabase(ctx, "admin", dbB.ID, DatabaseSettings{Name: ptr(" DB_A ")})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "already exists")

	// a database may change the case of its own name
	renamed, err := svc.UpdateDatabase(ctx, "admin", dbB.ID, DatabaseSettings{Name: ptr("DB_B")})
	require.NoError(t, err)
	assert.Equal(t, "DB_B", renamed.Name)

	renamed, err = svc.UpdateDatabase(ctx, "admin", dbB.ID, DatabaseSettings{Name: ptr("db_c")})
	require.NoError(t, err)
	assert.Equal(t, "db_c", renamed.Name)
}
