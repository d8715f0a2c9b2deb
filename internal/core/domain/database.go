package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Database is one logical database under a cluster. Its backup settings start
// as a copy of the cluster policy and may drift after individual edits.
type Database struct {
	ID        uuid.UUID
	ClusterID uuid.UUID
	Name      string

	IsBackupsEnabled bool
	StorePeriod      StorePeriod
	BackupInterval   *Interval
	StorageID        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDatabaseFromCluster seeds a member database with the cluster's canonical
// policy.
func NewDatabaseFromCluster(cluster *Cluster, name string) *Database {
	now := time.Now().UTC()
	return &Database{
		ID:               uuid.New(),
		ClusterID:        cluster.ID,
		Name:             name,
		IsBackupsEnabled: cluster.IsBackupsEnabled,
		StorePeriod:      cluster.StorePeriod,
		BackupInterval:   cluster.BackupInterval.Clone(),
		StorageID:        cluster.StorageID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (d *Database) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name is required")
	}
	if d.ClusterID == uuid.Nil {
		return NewValidationError("clusterId is required")
	}
	if d.StorePeriod != "" && !d.StorePeriod.IsValid() {
		return NewValidationError("invalid storePeriod %q", d.StorePeriod)
	}
	if d.IsBackupsEnabled && d.StorageID == "" {
		return NewValidationError("storage must be selected when backups are enabled")
	}
	if d.BackupInterval != nil {
		if err := d.BackupInterval.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns a deep copy of the database.
func (d *Database) Copy() *Database {
	c := *d
	c.BackupInterval = d.BackupInterval.Clone()
	return &c
}
