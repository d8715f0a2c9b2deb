package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

// AuditRecorder is the sink services report settings mutations to.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, message string, entity domain.AuditEntity)
}

type AuditLogService struct {
	repo   repository.AuditLogRepository
	logger *slog.Logger
}

func NewAuditLogService(repo repository.AuditLogRepository, logger *slog.Logger) *AuditLogService {
	return &AuditLogService{repo: repo, logger: logger}
}

// Record stores an audit entry. Storage failures are logged and never
// reported to the caller.
func (s *AuditLogService) Record(ctx context.Context, actorID, message string, entity domain.AuditEntity) {
	entry := domain.NewAuditLog(actorID, message, entity)
	if err := s.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("failed to record audit log",
			"actor_id", actorID,
			"entity_type", entity.Type,
			"entity_id", entity.ID,
			"message", message,
			"error", err,
		)
	}
}

func (s *AuditLogService) List(ctx context.Context, filter repository.AuditLogFilter) ([]*domain.AuditLog, int, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, unavailable("list audit logs", err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, unavailable("count audit logs", err)
	}
	return entries, total, nil
}

func (s *AuditLogService) CleanOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, unavailable("delete audit logs", err)
	}
	if deleted > 0 {
		s.logger.Info("removed expired audit logs", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

// RunRetention deletes entries older than retention once immediately and then
// on every tick until ctx is cancelled.
func (s *AuditLogService) RunRetention(ctx context.Context, retention, every time.Duration) {
	if retention <= 0 || every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := s.CleanOlderThan(ctx, time.Now().UTC().Add(-retention)); err != nil {
			s.logger.Error("audit log retention failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
