package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

// Introspector lists the logical databases present on a live cluster.
type Introspector interface {
	ListDatabases(ctx context.Context, cluster *domain.Cluster) ([]string, error)
}

type ClusterService struct {
	clusterRepo  repository.ClusterRepository
	databaseRepo repository.DatabaseRepository
	introspector Introspector
	audit        AuditRecorder
	locks        *ClusterLocks
	logger       *slog.Logger
}

func NewClusterService(
	clusterRepo repository.ClusterRepository,
	databaseRepo repository.DatabaseRepository,
	introspector Introspector,
	audit AuditRecorder,
	locks *ClusterLocks,
	logger *slog.Logger,
) *ClusterService {
	return &ClusterService{
		clusterRepo:  clusterRepo,
		databaseRepo: databaseRepo,
		introspector: introspector,
		audit:        audit,
		locks:        locks,
		logger:       logger,
	}
}

func (s *ClusterService) CreateCluster(ctx context.Context, actorID string, cluster *domain.Cluster) (*domain.Cluster, error) {
	prepareCluster(cluster)
	if err := cluster.Validate(true); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cluster.ID = uuid.New()
	cluster.CreatedAt = now
	cluster.UpdatedAt = now

	if err := s.clusterRepo.Create(ctx, cluster); err != nil {
		return nil, unavailable("create cluster", err)
	}

	s.audit.Record(ctx, actorID, fmt.Sprintf("Cluster %q created", cluster.Name), domain.ClusterEntity(cluster))
	s.logger.Info("cluster created", "cluster_id", cluster.ID, "name", cluster.Name, "actor_id", actorID)

	return cluster, nil
}

// UpdateCluster replaces the cluster's settings. An empty password keeps the
// stored one. Databases matching a newly added exclusion get their backups
// disabled.
func (s *ClusterService) UpdateCluster(ctx context.Context, actorID string, id uuid.UUID, cluster *domain.Cluster) (*domain.Cluster, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	existing, err := s.clusterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("load cluster", err, ErrClusterNotFound)
	}

	cluster.ID = existing.ID
	cluster.CreatedAt = existing.CreatedAt
	if cluster.Connection.Password == "" {
		cluster.Connection.Password = existing.Connection.Password
	}
	prepareCluster(cluster)
	if err := cluster.Validate(false); err != nil {
		return nil, err
	}
	cluster.UpdatedAt = time.Now().UTC()

	if err := s.clusterRepo.Update(ctx, cluster); err != nil {
		return nil, lookupError("update cluster", err, ErrClusterNotFound)
	}

	s.audit.Record(ctx, actorID, fmt.Sprintf("Cluster %q updated", cluster.Name), domain.ClusterEntity(cluster))

	if added := newExclusions(existing, cluster); len(added) > 0 {
		s.disableExcluded(ctx, actorID, cluster, added)
	}

	return cluster, nil
}

// disableExcluded turns off backups for newly excluded databases. The cluster
// update is already committed, so failures are logged per database and do
// not fail the update.
func (s *ClusterService) disableExcluded(ctx context.Context, actorID string, cluster *domain.Cluster, names map[string]struct{}) {
	databases, err := s.databaseRepo.ListByCluster(ctx, cluster.ID)
	if err != nil {
		s.logger.Error("failed to list databases to disable excluded ones",
			"cluster_id", cluster.ID, "error", err)
		return
	}

	for _, db := range databases {
		if _, ok := names[domain.FoldName(db.Name)]; !ok || !db.IsBackupsEnabled {
			continue
		}

		db.IsBackupsEnabled = false
		db.UpdatedAt = time.Now().UTC()
		if err := s.databaseRepo.Update(ctx, db); err != nil {
			s.logger.Error("failed to disable backups for excluded database",
				"cluster_id", cluster.ID, "database_id", db.ID, "database", db.Name, "error", err)
			continue
		}

		s.audit.Record(ctx, actorID,
			fmt.Sprintf("Backups disabled for database %q: excluded in cluster %q", db.Name, cluster.Name),
			domain.DatabaseEntity(db),
		)
	}
}

func (s *ClusterService) GetCluster(ctx context.Context, id uuid.UUID) (*domain.Cluster, error) {
	cluster, err := s.clusterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("load cluster", err, ErrClusterNotFound)
	}
	return cluster, nil
}

func (s *ClusterService) ListClusters(ctx context.Context) ([]*domain.Cluster, error) {
	clusters, err := s.clusterRepo.List(ctx)
	if err != nil {
		return nil, unavailable("list clusters", err)
	}
	return clusters, nil
}

// ListLiveDatabases connects to the cluster and returns the user databases
// it hosts, sorted by name.
func (s *ClusterService) ListLiveDatabases(ctx context.Context, id uuid.UUID) ([]string, error) {
	cluster, err := s.GetCluster(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.liveDatabases(ctx, cluster)
}

func (s *ClusterService) liveDatabases(ctx context.Context, cluster *domain.Cluster) ([]string, error) {
	names, err := s.introspector.ListDatabases(ctx, cluster)
	if err != nil {
		return nil, unavailable(fmt.Sprintf("list databases on cluster %q", cluster.Name), err)
	}

	result := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" || domain.IsSystemDatabase(cluster.Engine, name) {
			continue
		}
		result = append(result, name)
	}
	slices.Sort(result)
	return result, nil
}

// SyncDatabases creates a member database, seeded from the cluster policy,
// for every live database not yet known and not excluded.
func (s *ClusterService) SyncDatabases(ctx context.Context, actorID string, id uuid.UUID) ([]*domain.Database, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	cluster, err := s.GetCluster(ctx, id)
	if err != nil {
		return nil, err
	}

	live, err := s.liveDatabases(ctx, cluster)
	if err != nil {
		return nil, err
	}

	existing, err := s.databaseRepo.ListByCluster(ctx, id)
	if err != nil {
		return nil, unavailable("list databases", err)
	}

	known := cluster.ExclusionSet()
	for _, db := range existing {
		known[domain.FoldName(db.Name)] = struct{}{}
	}

	created := []*domain.Database{}
	for _, name := range live {
		key := domain.FoldName(name)
		if _, skip := known[key]; skip {
			continue
		}
		known[key] = struct{}{}

		db := domain.NewDatabaseFromCluster(cluster, name)
		if err := s.databaseRepo.Create(ctx, db); err != nil {
			return created, unavailable(fmt.Sprintf("create database %q", name), err)
		}
		created = append(created, db)

		s.audit.Record(ctx, actorID,
			fmt.Sprintf("Database %q discovered on cluster %q", name, cluster.Name),
			domain.DatabaseEntity(db),
		)
	}

	s.logger.Info("cluster databases synced", "cluster_id", cluster.ID, "created", len(created))
	return created, nil
}

func prepareCluster(c *domain.Cluster) {
	c.Name = strings.TrimSpace(c.Name)
	if c.StorePeriod == "" {
		c.StorePeriod = domain.PeriodWeek
	}
	if c.BackupInterval != nil {
		c.BackupInterval.Normalize()
	}
	if c.Notifiers == nil {
		c.Notifiers = []string{}
	}

	names := make([]string, 0, len(c.ExcludedDatabases))
	for _, name := range c.ExcludedDatabases {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	c.ExcludedDatabases = names
}

func newExclusions(before, after *domain.Cluster) map[string]struct{} {
	old := before.ExclusionSet()
	added := map[string]struct{}{}
	for name := range after.ExclusionSet() {
		if _, ok := old[name]; !ok {
			added[name] = struct{}{}
		}
	}
	return added
}
