package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

type clusterRow struct {
	ID               uuid.UUID `db:"id"`
	Name             string    `db:"name"`
	Engine           string    `db:"engine"`
	Version          string    `db:"version"`
	Host             string    `db:"host"`
	Port             int       `db:"port"`
	Username         string    `db:"username"`
	Password         string    `db:"password"`
	IsHttps          bool      `db:"is_https"`
	IsBackupsEnabled bool      `db:"is_backups_enabled"`
	StorePeriod      string    `db:"store_period"`
	StorageID        string    `db:"storage_id"`
	Notifiers        string    `db:"notifiers"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	intervalColumns
}

const clusterColumns = `id, name, engine, version, host, port, username, password, is_https,
	is_backups_enabled, store_period, storage_id, interval_type, time_of_day, weekday, day_of_month,
	notifiers, created_at, updated_at`

type clusterRepository struct {
	db *DB
}

func NewClusterRepository(db *DB) repository.ClusterRepository {
	return &clusterRepository{db: db}
}

func (r *clusterRepository) Create(ctx context.Context, cluster *domain.Cluster) error {
	notifiers, err := json.Marshal(nonNil(cluster.Notifiers))
	if err != nil {
		return fmt.Errorf("failed to marshal notifiers: %w", err)
	}
	iv := newIntervalColumns(cluster.BackupInterval)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO cluster (` + clusterColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		cluster.ID,
		cluster.Name,
		cluster.Engine,
		cluster.Connection.Version,
		cluster.Connection.Host,
		cluster.Connection.Port,
		cluster.Connection.Username,
		cluster.Connection.Password,
		cluster.Connection.IsHttps,
		cluster.IsBackupsEnabled,
		cluster.StorePeriod,
		cluster.StorageID,
		iv.IntervalType,
		iv.TimeOfDay,
		iv.Weekday,
		iv.DayOfMonth,
		string(notifiers),
		cluster.CreatedAt,
		cluster.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cluster: %w", err)
	}

	if err := replaceExclusions(ctx, tx, cluster.ID, cluster.ExcludedDatabases); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cluster: %w", err)
	}
	return nil
}

func (r *clusterRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Cluster, error) {
	query := `SELECT ` + clusterColumns + ` FROM cluster WHERE id = ?`

	var row clusterRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cluster %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cluster: %w", err)
	}

	cluster, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	exclusions, err := r.loadExclusions(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	cluster.ExcludedDatabases = nonNil(exclusions[id])

	return cluster, nil
}

func (r *clusterRepository) Update(ctx context.Context, cluster *domain.Cluster) error {
	notifiers, err := json.Marshal(nonNil(cluster.Notifiers))
	if err != nil {
		return fmt.Errorf("failed to marshal notifiers: %w", err)
	}
	iv := newIntervalColumns(cluster.BackupInterval)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE cluster
		SET name = ?, engine = ?, version = ?, host = ?, port = ?, username = ?, password = ?,
			is_https = ?, is_backups_enabled = ?, store_period = ?, storage_id = ?,
			interval_type = ?, time_of_day = ?, weekday = ?, day_of_month = ?,
			notifiers = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := tx.ExecContext(ctx, query,
		cluster.Name,
		cluster.Engine,
		cluster.Connection.Version,
		cluster.Connection.Host,
		cluster.Connection.Port,
		cluster.Connection.Username,
		cluster.Connection.Password,
		cluster.Connection.IsHttps,
		cluster.IsBackupsEnabled,
		cluster.StorePeriod,
		cluster.StorageID,
		iv.IntervalType,
		iv.TimeOfDay,
		iv.Weekday,
		iv.DayOfMonth,
		string(notifiers),
		cluster.UpdatedAt,
		cluster.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cluster: %w", err)
	}

	if err := requireRow(result, "cluster", cluster.ID); err != nil {
		return err
	}

	if err := replaceExclusions(ctx, tx, cluster.ID, cluster.ExcludedDatabases); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cluster: %w", err)
	}
	return nil
}

func (r *clusterRepository) List(ctx context.Context) ([]*domain.Cluster, error) {
	query := `SELECT ` + clusterColumns + ` FROM cluster ORDER BY name, id`

	var rows []clusterRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	if len(rows) == 0 {
		return []*domain.Cluster{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	exclusions, err := r.loadExclusions(ctx, ids)
	if err != nil {
		return nil, err
	}

	clusters := make([]*domain.Cluster, 0, len(rows))
	for _, row := range rows {
		cluster, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		cluster.ExcludedDatabases = nonNil(exclusions[row.ID])
		clusters = append(clusters, cluster)
	}
	return clusters, nil
}

func (r *clusterRepository) loadExclusions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	query, args, err := sqlx.In(`
		SELECT cluster_id, name
		FROM cluster_excluded_database
		WHERE cluster_id IN (?)
		ORDER BY name
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build exclusion query: %w", err)
	}

	var rows []struct {
		ClusterID uuid.UUID `db:"cluster_id"`
		Name      string    `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load excluded databases: %w", err)
	}

	result := make(map[uuid.UUID][]string, len(ids))
	for _, row := range rows {
		result[row.ClusterID] = append(result[row.ClusterID], row.Name)
	}
	return result, nil
}

func replaceExclusions(ctx context.Context, tx *sqlx.Tx, clusterID uuid.UUID, names []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cluster_excluded_database WHERE cluster_id = ?`, clusterID); err != nil {
		return fmt.Errorf("failed to clear excluded databases: %w", err)
	}

	// the NOCASE primary key folds duplicates that differ only by case
	for _, name := range names {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO cluster_excluded_database (cluster_id, name) VALUES (?, ?)`,
			clusterID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to store excluded database %q: %w", name, err)
		}
	}
	return nil
}

func (row clusterRow) toDomain() (*domain.Cluster, error) {
	var notifiers []string
	if err := json.Unmarshal([]byte(row.Notifiers), &notifiers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notifiers: %w", err)
	}

	return &domain.Cluster{
		ID:     row.ID,
		Name:   row.Name,
		Engine: domain.Engine(row.Engine),
		Connection: domain.ClusterConnection{
			Version:  row.Version,
			Host:     row.Host,
			Port:     row.Port,
			Username: row.Username,
			Password: row.Password,
			IsHttps:  row.IsHttps,
		},
		IsBackupsEnabled: row.IsBackupsEnabled,
		StorePeriod:      domain.StorePeriod(row.StorePeriod),
		BackupInterval:   row.intervalColumns.toDomain(),
		StorageID:        row.StorageID,
		Notifiers:        nonNil(notifiers),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
