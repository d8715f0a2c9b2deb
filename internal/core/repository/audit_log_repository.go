package repository

import (
	"context"
	"time"

	"github.com/martijn/clustercalm/internal/api/util"
	"github.com/martijn/clustercalm/internal/core/domain"
)

// AuditLogFilter embeds ListFilter for generic query/order/pagination
type AuditLogFilter struct {
	util.ListFilter
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]*domain.AuditLog, error)
	Count(ctx context.Context, filter AuditLogFilter) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
