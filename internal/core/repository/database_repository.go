package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
)

type DatabaseRepository interface {
	Create(ctx context.Context, database *domain.Database) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Database, error)
	Update(ctx context.Context, database *domain.Database) error
	ListByCluster(ctx context.Context, clusterID uuid.UUID) ([]*domain.Database, error)
}
