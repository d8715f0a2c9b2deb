package domain

import (
	"strings"

	"github.com/google/uuid"
)

// PropagationOptions selects which dimensions of the cluster policy are
// pushed onto member databases.
type PropagationOptions struct {
	ApplyStorage       bool
	ApplySchedule      bool
	ApplyEnableBackups bool
	RespectExclusions  bool
}

// PropagationChange describes how one database differs from its cluster for
// the selected dimensions. It is computed on every call and never stored.
type PropagationChange struct {
	DatabaseID     uuid.UUID
	Name           string
	ChangeStorage  bool
	ChangeSchedule bool
	ChangeEnabled  bool
}

func (c PropagationChange) HasChanges() bool {
	return c.ChangeStorage || c.ChangeSchedule || c.ChangeEnabled
}

// Describe returns a short human readable summary used in audit entries.
func (c PropagationChange) Describe() string {
	var parts []string
	if c.ChangeStorage {
		parts = append(parts, "storage")
	}
	if c.ChangeSchedule {
		parts = append(parts, "schedule")
	}
	if c.ChangeEnabled {
		parts = append(parts, "backup enablement")
	}
	return strings.Join(parts, ", ")
}

type PropagationFailure struct {
	DatabaseID uuid.UUID
	Name       string
	Error      string
}

// PropagationResult is what apply reports back: the changes that were
// persisted and the databases that could not be updated.
type PropagationResult struct {
	Items    []PropagationChange
	Failures []PropagationFailure
}

func (r *PropagationResult) Applied() int { return len(r.Items) }

func (r *PropagationResult) Failed() int { return len(r.Failures) }

// DiffDatabase compares a member database with the cluster policy for the
// selected dimensions. Storage and schedule are only compared when the
// cluster has a value to push.
func DiffDatabase(cluster *Cluster, db *Database, opts PropagationOptions) PropagationChange {
	change := PropagationChange{
		DatabaseID: db.ID,
		Name:       db.Name,
	}

	if opts.ApplyStorage && cluster.StorageID != "" {
		change.ChangeStorage = db.StorageID != cluster.StorageID
	}
	if opts.ApplySchedule && cluster.BackupInterval != nil {
		change.ChangeSchedule = !db.BackupInterval.Equal(cluster.BackupInterval)
	}
	if opts.ApplyEnableBackups {
		change.ChangeEnabled = db.IsBackupsEnabled != cluster.IsBackupsEnabled
		// a database cannot have backups enabled without a storage
		if change.ChangeEnabled && cluster.IsBackupsEnabled && db.StorageID == "" && cluster.StorageID != "" {
			change.ChangeStorage = true
		}
	}

	return change
}

// ApplyChange copies the cluster policy onto db for every dimension flagged
// in change.
func ApplyChange(cluster *Cluster, db *Database, change PropagationChange) {
	if change.ChangeStorage {
		db.StorageID = cluster.StorageID
	}
	if change.ChangeSchedule {
		db.BackupInterval = cluster.BackupInterval.Clone()
	}
	if change.ChangeEnabled {
		db.IsBackupsEnabled = cluster.IsBackupsEnabled
	}
}
