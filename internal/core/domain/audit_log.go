package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditEntityType string

const (
	AuditEntityCluster  AuditEntityType = "cluster"
	AuditEntityDatabase AuditEntityType = "database"
)

type AuditLog struct {
	ID         uuid.UUID
	ActorID    string
	EntityType AuditEntityType
	EntityID   uuid.UUID
	ClusterID  *uuid.UUID
	Message    string
	CreatedAt  time.Time
}

// AuditEntity identifies what an audit entry is about.
type AuditEntity struct {
	Type      AuditEntityType
	ID        uuid.UUID
	ClusterID *uuid.UUID
}

func ClusterEntity(c *Cluster) AuditEntity {
	id := c.ID
	return AuditEntity{Type: AuditEntityCluster, ID: c.ID, ClusterID: &id}
}

func DatabaseEntity(d *Database) AuditEntity {
	clusterID := d.ClusterID
	return AuditEntity{Type: AuditEntityDatabase, ID: d.ID, ClusterID: &clusterID}
}

func NewAuditLog(actorID, message string, entity AuditEntity) *AuditLog {
	return &AuditLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		EntityType: entity.Type,
		EntityID:   entity.ID,
		ClusterID:  entity.ClusterID,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
}
