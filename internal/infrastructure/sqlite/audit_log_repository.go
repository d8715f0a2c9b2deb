package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

type auditLogRow struct {
	ID         uuid.UUID     `db:"id"`
	ActorID    string        `db:"actor_id"`
	EntityType string        `db:"entity_type"`
	EntityID   uuid.UUID     `db:"entity_id"`
	ClusterID  uuid.NullUUID `db:"cluster_id"`
	Message    string        `db:"message"`
	CreatedAt  time.Time     `db:"created_at"`
}

type auditLogRepository struct {
	db *DB
}

func NewAuditLogRepository(db *DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	var clusterID uuid.NullUUID
	if entry.ClusterID != nil {
		clusterID = uuid.NullUUID{UUID: *entry.ClusterID, Valid: true}
	}

	query := `
		INSERT INTO audit_log (id, actor_id, entity_type, entity_id, cluster_id, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.EntityType,
		entry.EntityID,
		clusterID,
		entry.Message,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) List(ctx context.Context, filter repository.AuditLogFilter) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, actor_id, entity_type, entity_id, cluster_id, message, created_at
		FROM audit_log
		WHERE 1=1
	`
	var args []any

	query, args = ApplyFilters(query, args, filter.Filters)
	query = ApplyOrdering(query, filter.Order, "created_at DESC")
	query, args = ApplyPagination(query, args, filter.ListFilter)

	var rows []auditLogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	entries := make([]*domain.AuditLog, 0, len(rows))
	for _, row := range rows {
		entry := &domain.AuditLog{
			ID:         row.ID,
			ActorID:    row.ActorID,
			EntityType: domain.AuditEntityType(row.EntityType),
			EntityID:   row.EntityID,
			Message:    row.Message,
			CreatedAt:  row.CreatedAt,
		}
		if row.ClusterID.Valid {
			id := row.ClusterID.UUID
			entry.ClusterID = &id
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *auditLogRepository) Count(ctx context.Context, filter repository.AuditLogFilter) (int, error) {
	query := `SELECT COUNT(*) FROM audit_log WHERE 1=1`
	var args []any

	query, args = ApplyFilters(query, args, filter.Filters)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return count, nil
}

func (r *auditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit logs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
