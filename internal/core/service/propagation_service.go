package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
	"golang.org/x/sync/errgroup"
)

// PropagationService pushes a cluster's backup policy onto its member
// databases.
type PropagationService struct {
	clusterRepo  repository.ClusterRepository
	databaseRepo repository.DatabaseRepository
	audit        AuditRecorder
	locks        *ClusterLocks
	parallelism  int
	logger       *slog.Logger
}

func NewPropagationService(
	clusterRepo repository.ClusterRepository,
	databaseRepo repository.DatabaseRepository,
	audit AuditRecorder,
	locks *ClusterLocks,
	parallelism int,
	logger *slog.Logger,
) *PropagationService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &PropagationService{
		clusterRepo:  clusterRepo,
		databaseRepo: databaseRepo,
		audit:        audit,
		locks:        locks,
		parallelism:  parallelism,
		logger:       logger,
	}
}

// PreviewPropagation lists the member databases that would change. It never
// writes.
func (s *PropagationService) PreviewPropagation(ctx context.Context, clusterID uuid.UUID, opts domain.PropagationOptions) ([]domain.PropagationChange, error) {
	unlock := s.locks.Lock(clusterID)
	defer unlock()

	_, _, changes, err := s.diff(ctx, clusterID, opts)
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// ApplyPropagation recomputes the diff and persists every listed database
// independently. A failing database is reported in the result and does not
// stop the others.
func (s *PropagationService) ApplyPropagation(ctx context.Context, actorID string, clusterID uuid.UUID, opts domain.PropagationOptions) (*domain.PropagationResult, error) {
	unlock := s.locks.Lock(clusterID)
	defer unlock()

	cluster, databases, changes, err := s.diff(ctx, clusterID, opts)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Database, len(databases))
	for _, db := range databases {
		byID[db.ID] = db
	}

	// once started, an apply runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	applied := make([]bool, len(changes))
	failures := make([]*domain.PropagationFailure, len(changes))

	var g errgroup.Group
	g.SetLimit(s.parallelism)

	for i, change := range changes {
		i, change := i, change
		g.Go(func() error {
			if err := s.applyOne(ctx, actorID, cluster, byID[change.DatabaseID], change); err != nil {
				s.logger.Warn("failed to propagate cluster settings",
					"cluster_id", cluster.ID,
					"database_id", change.DatabaseID,
					"database", change.Name,
					"error", err,
				)
				failures[i] = &domain.PropagationFailure{
					DatabaseID: change.DatabaseID,
					Name:       change.Name,
					Error:      err.Error(),
				}
				return nil
			}
			applied[i] = true
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.PropagationResult{
		Items:    []domain.PropagationChange{},
		Failures: []domain.PropagationFailure{},
	}
	for i, change := range changes {
		switch {
		case applied[i]:
			result.Items = append(result.Items, change)
		case failures[i] != nil:
			result.Failures = append(result.Failures, *failures[i])
		}
	}

	s.logger.Info("cluster settings propagated",
		"cluster_id", cluster.ID,
		"actor_id", actorID,
		"applied", result.Applied(),
		"failed", result.Failed(),
	)

	return result, nil
}

func (s *PropagationService) applyOne(ctx context.Context, actorID string, cluster *domain.Cluster, db *domain.Database, change domain.PropagationChange) error {
	updated := db.Copy()
	domain.ApplyChange(cluster, updated, change)
	updated.UpdatedAt = time.Now().UTC()

	if err := s.databaseRepo.Update(ctx, updated); err != nil {
		return fmt.Errorf("failed to update database: %w", err)
	}

	s.audit.Record(ctx, actorID,
		fmt.Sprintf("Database %q: %s synced from cluster %q", db.Name, change.Describe(), cluster.Name),
		domain.DatabaseEntity(updated),
	)
	return nil
}

// diff loads the cluster and its databases and returns the databases that
// differ from the cluster policy for the selected dimensions, in repository
// order.
func (s *PropagationService) diff(ctx context.Context, clusterID uuid.UUID, opts domain.PropagationOptions) (*domain.Cluster, []*domain.Database, []domain.PropagationChange, error) {
	cluster, err := s.clusterRepo.FindByID(ctx, clusterID)
	if err != nil {
		return nil, nil, nil, lookupError("load cluster", err, ErrClusterNotFound)
	}

	if cluster.BackupInterval != nil && opts.ApplySchedule {
		if err := cluster.BackupInterval.Validate(); err != nil {
			return nil, nil, nil, err
		}
	}

	databases, err := s.databaseRepo.ListByCluster(ctx, clusterID)
	if err != nil {
		return nil, nil, nil, unavailable("list databases", err)
	}

	var excluded map[string]struct{}
	if opts.RespectExclusions {
		excluded = cluster.ExclusionSet()
	}

	changes := []domain.PropagationChange{}
	for _, db := range databases {
		if _, skip := excluded[domain.FoldName(db.Name)]; skip {
			continue
		}
		change := domain.DiffDatabase(cluster, db, opts)
		if change.HasChanges() {
			changes = append(changes, change)
		}
	}

	return cluster, databases, changes, nil
}
