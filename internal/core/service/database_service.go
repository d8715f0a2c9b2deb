package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
)

// DatabaseSettings carries an individual edit. Nil fields are left as they
// are, or seeded from the cluster on create.
type DatabaseSettings struct {
	Name             *string
	IsBackupsEnabled *bool
	StorePeriod      *domain.StorePeriod
	BackupInterval   *domain.Interval
	StorageID        *string
}

type DatabaseService struct {
	clusterRepo  repository.ClusterRepository
	databaseRepo repository.DatabaseRepository
	audit        AuditRecorder
	logger       *slog.Logger
}

func NewDatabaseService(
	clusterRepo repository.ClusterRepository,
	databaseRepo repository.DatabaseRepository,
	audit AuditRecorder,
	logger *slog.Logger,
) *DatabaseService {
	return &DatabaseService{
		clusterRepo:  clusterRepo,
		databaseRepo: databaseRepo,
		audit:        audit,
		logger:       logger,
	}
}

func (s *DatabaseService) ListByCluster(ctx context.Context, clusterID uuid.UUID) ([]*domain.Database, error) {
	if _, err := s.clusterRepo.FindByID(ctx, clusterID); err != nil {
		return nil, lookupError("load cluster", err, ErrClusterNotFound)
	}

	databases, err := s.databaseRepo.ListByCluster(ctx, clusterID)
	if err != nil {
		return nil, unavailable("list databases", err)
	}
	return databases, nil
}

func (s *DatabaseService) GetDatabase(ctx context.Context, id uuid.UUID) (*domain.Database, error) {
	db, err := s.databaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("load database", err, ErrDatabaseNotFound)
	}
	return db, nil
}

// CreateDatabase adds a member database. Omitted settings are copied from the
// cluster policy.
func (s *DatabaseService) CreateDatabase(ctx context.Context, actorID string, clusterID uuid.UUID, settings DatabaseSettings) (*domain.Database, error) {
	cluster, err := s.clusterRepo.FindByID(ctx, clusterID)
	if err != nil {
		return nil, lookupError("load cluster", err, ErrClusterNotFound)
	}

	if settings.Name == nil || strings.TrimSpace(*settings.Name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	name := strings.TrimSpace(*settings.Name)

	if err := s.ensureNameFree(ctx, cluster, name, uuid.Nil); err != nil {
		return nil, err
	}

	db := domain.NewDatabaseFromCluster(cluster, name)
	settings.Name = nil
	applySettings(db, settings)
	if err := db.Validate(); err != nil {
		return nil, err
	}

	if err := s.databaseRepo.Create(ctx, db); err != nil {
		return nil, unavailable("create database", err)
	}

	s.audit.Record(ctx, actorID,
		fmt.Sprintf("Database %q added to cluster %q", db.Name, cluster.Name),
		domain.DatabaseEntity(db),
	)
	return db, nil
}

// ensureNameFree rejects a name that case-insensitively matches another
// member of the cluster. self is skipped so a database can keep its name.
func (s *DatabaseService) ensureNameFree(ctx context.Context, cluster *domain.Cluster, name string, self uuid.UUID) error {
	members, err := s.databaseRepo.ListByCluster(ctx, cluster.ID)
	if err != nil {
		return unavailable("list databases", err)
	}
	for _, m := range members {
		if m.ID != self && domain.FoldName(m.Name) == domain.FoldName(name) {
			return domain.NewValidationError("database %q already exists in cluster %q", name, cluster.Name)
		}
	}
	return nil
}

// UpdateDatabase applies an individual edit. The database may drift from its
// cluster's policy afterwards.
func (s *DatabaseService) UpdateDatabase(ctx context.Context, actorID string, id uuid.UUID, settings DatabaseSettings) (*domain.Database, error) {
	db, err := s.GetDatabase(ctx, id)
	if err != nil {
		return nil, err
	}

	if settings.Name != nil {
		trimmed := strings.TrimSpace(*settings.Name)
		settings.Name = &trimmed
		if domain.FoldName(trimmed) != domain.FoldName(db.Name) {
			cluster, err := s.clusterRepo.FindByID(ctx, db.ClusterID)
			if err != nil {
				return nil, lookupError("load cluster", err, ErrClusterNotFound)
			}
			if err := s.ensureNameFree(ctx, cluster, trimmed, db.ID); err != nil {
				return nil, err
			}
		}
	}
	applySettings(db, settings)
	if err := db.Validate(); err != nil {
		return nil, err
	}
	db.UpdatedAt = time.Now().UTC()

	if err := s.databaseRepo.Update(ctx, db); err != nil {
		return nil, lookupError("update database", err, ErrDatabaseNotFound)
	}

	s.audit.Record(ctx, actorID, fmt.Sprintf("Database %q settings updated", db.Name), domain.DatabaseEntity(db))
	return db, nil
}

func applySettings(db *domain.Database, settings DatabaseSettings) {
	if settings.Name != nil {
		db.Name = *settings.Name
	}
	if settings.IsBackupsEnabled != nil {
		db.IsBackupsEnabled = *settings.IsBackupsEnabled
	}
	if settings.StorePeriod != nil {
		db.StorePeriod = *settings.StorePeriod
	}
	if settings.BackupInterval != nil {
		interval := settings.BackupInterval.Clone()
		interval.Normalize()
		db.BackupInterval = interval
	}
	if settings.StorageID != nil {
		db.StorageID = *settings.StorageID
	}
}
