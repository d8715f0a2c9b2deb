package dto

import "time"

type AuditLogResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	ClusterID  *string   `json:"clusterId,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
}
