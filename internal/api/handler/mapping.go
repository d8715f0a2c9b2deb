package handler

import (
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/core/domain"
)

func toIntervalDTO(i *domain.Interval) *dto.Interval {
	if i == nil {
		return nil
	}
	return &dto.Interval{
		Interval:   string(i.Interval),
		TimeOfDay:  i.TimeOfDay,
		Weekday:    i.Weekday,
		DayOfMonth: i.DayOfMonth,
	}
}

func toDomainInterval(i *dto.Interval) *domain.Interval {
	if i == nil {
		return nil
	}
	return &domain.Interval{
		Interval:   domain.IntervalType(i.Interval),
		TimeOfDay:  i.TimeOfDay,
		Weekday:    i.Weekday,
		DayOfMonth: i.DayOfMonth,
	}
}

func toDomainCluster(req *dto.ClusterRequest) *domain.Cluster {
	return &domain.Cluster{
		Name:   req.Name,
		Engine: domain.Engine(req.Engine),
		Connection: domain.ClusterConnection{
			Version:  req.Connection.Version,
			Host:     req.Connection.Host,
			Port:     req.Connection.Port,
			Username: req.Connection.Username,
			Password: req.Connection.Password,
			IsHttps:  req.Connection.IsHttps,
		},
		IsBackupsEnabled:  req.IsBackupsEnabled,
		StorePeriod:       domain.StorePeriod(req.StorePeriod),
		BackupInterval:    toDomainInterval(req.BackupInterval),
		StorageID:         req.StorageID,
		Notifiers:         req.Notifiers,
		ExcludedDatabases: req.ExcludedDatabases,
	}
}

func toClusterResponse(cluster *domain.Cluster) dto.ClusterResponse {
	c := *cluster
	c.HideSensitiveData()

	return dto.ClusterResponse{
		ID:     c.ID.String(),
		Name:   c.Name,
		Engine: string(c.Engine),
		Connection: dto.ClusterConnection{
			Version:  c.Connection.Version,
			Host:     c.Connection.Host,
			Port:     c.Connection.Port,
			Username: c.Connection.Username,
			Password: c.Connection.Password,
			IsHttps:  c.Connection.IsHttps,
		},
		IsBackupsEnabled:  c.IsBackupsEnabled,
		StorePeriod:       string(c.StorePeriod),
		BackupInterval:    toIntervalDTO(c.BackupInterval),
		StorageID:         c.StorageID,
		Notifiers:         nonNil(c.Notifiers),
		ExcludedDatabases: nonNil(c.ExcludedDatabases),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func toDatabaseResponse(db *domain.Database) dto.DatabaseResponse {
	return dto.DatabaseResponse{
		ID:               db.ID.String(),
		ClusterID:        db.ClusterID.String(),
		Name:             db.Name,
		IsBackupsEnabled: db.IsBackupsEnabled,
		StorePeriod:      string(db.StorePeriod),
		BackupInterval:   toIntervalDTO(db.BackupInterval),
		StorageID:        db.StorageID,
		CreatedAt:        db.CreatedAt,
		UpdatedAt:        db.UpdatedAt,
	}
}

func toDatabaseResponses(databases []*domain.Database) []dto.DatabaseResponse {
	items := make([]dto.DatabaseResponse, len(databases))
	for i, db := range databases {
		items[i] = toDatabaseResponse(db)
	}
	return items
}

func toPropagationChanges(changes []domain.PropagationChange) []dto.PropagationChange {
	items := make([]dto.PropagationChange, len(changes))
	for i, change := range changes {
		items[i] = dto.PropagationChange{
			DatabaseID:     change.DatabaseID.String(),
			Name:           change.Name,
			ChangeStorage:  change.ChangeStorage,
			ChangeSchedule: change.ChangeSchedule,
			ChangeEnabled:  change.ChangeEnabled,
		}
	}
	return items
}

func toAuditLogResponse(entry *domain.AuditLog) dto.AuditLogResponse {
	resp := dto.AuditLogResponse{
		ID:         entry.ID.String(),
		ActorID:    entry.ActorID,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID.String(),
		Message:    entry.Message,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.ClusterID != nil {
		id := entry.ClusterID.String()
		resp.ClusterID = &id
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
