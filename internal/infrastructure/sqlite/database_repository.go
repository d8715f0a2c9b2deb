package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

type databaseRow struct {
	ID               uuid.UUID `db:"id"`
	ClusterID        uuid.UUID `db:"cluster_id"`
	Name             string    `db:"name"`
	IsBackupsEnabled bool      `db:"is_backups_enabled"`
	StorePeriod      string    `db:"store_period"`
	StorageID        string    `db:"storage_id"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	intervalColumns
}

func (row databaseRow) toDomain() *domain.Database {
	return &domain.Database{
		ID:               row.ID,
		ClusterID:        row.ClusterID,
		Name:             row.Name,
		IsBackupsEnabled: row.IsBackupsEnabled,
		StorePeriod:      domain.StorePeriod(row.StorePeriod),
		BackupInterval:   row.intervalColumns.toDomain(),
		StorageID:        row.StorageID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

const databaseColumns = `id, cluster_id, name, is_backups_enabled, store_period, storage_id,
	interval_type, time_of_day, weekday, day_of_month, created_at, updated_at`

type databaseRepository struct {
	db *DB
}

func NewDatabaseRepository(db *DB) repository.DatabaseRepository {
	return &databaseRepository{db: db}
}

func (r *databaseRepository) Create(ctx context.Context, database *domain.Database) error {
	iv := newIntervalColumns(database.BackupInterval)
	query := `
		INSERT INTO database (` + databaseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		database.ID,
		database.ClusterID,
		database.Name,
		database.IsBackupsEnabled,
		database.StorePeriod,
		database.StorageID,
		iv.IntervalType,
		iv.TimeOfDay,
		iv.Weekday,
		iv.DayOfMonth,
		database.CreatedAt,
		database.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	return nil
}

func (r *databaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Database, error) {
	query := `SELECT ` + databaseColumns + ` FROM database WHERE id = ?`

	var row databaseRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("database %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find database: %w", err)
	}
	return row.toDomain(), nil
}

func (r *databaseRepository) Update(ctx context.Context, database *domain.Database) error {
	iv := newIntervalColumns(database.BackupInterval)
	query := `
		UPDATE database
		SET name = ?, is_backups_enabled = ?, store_period = ?, storage_id = ?,
			interval_type = ?, time_of_day = ?, weekday = ?, day_of_month = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		database.Name,
		database.IsBackupsEnabled,
		database.StorePeriod,
		database.StorageID,
		iv.IntervalType,
		iv.TimeOfDay,
		iv.Weekday,
		iv.DayOfMonth,
		database.UpdatedAt,
		database.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update database: %w", err)
	}

	return requireRow(result, "database", database.ID)
}

func (r *databaseRepository) ListByCluster(ctx context.Context, clusterID uuid.UUID) ([]*domain.Database, error) {
	query := `
		SELECT ` + databaseColumns + `
		FROM database
		WHERE cluster_id = ?
		ORDER BY name, id
	`
	var rows []databaseRow
	if err := r.db.SelectContext(ctx, &rows, query, clusterID); err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	databases := make([]*domain.Database, 0, len(rows))
	for _, row := range rows {
		databases = append(databases, row.toDomain())
	}
	return databases, nil
}
