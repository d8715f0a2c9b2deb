package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
)

type ClusterRepository interface {
	Create(ctx context.Context, cluster *domain.Cluster) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Cluster, error)
	Update(ctx context.Context, cluster *domain.Cluster) error
	List(ctx context.Context) ([]*domain.Cluster, error)
}
