package dto

import "time"

// DatabaseRequest is an individual edit. Omitted fields keep their value, or
// on create are copied from the cluster.
type DatabaseRequest struct {
	Name             *string   `json:"name"`
	IsBackupsEnabled *bool     `json:"isBackupsEnabled"`
	StorePeriod      *string   `json:"storePeriod"`
	BackupInterval   *Interval `json:"backupInterval"`
	StorageID        *string   `json:"storageId"`
}

type DatabaseResponse struct {
	ID               string    `json:"id"`
	ClusterID        string    `json:"clusterId"`
	Name             string    `json:"name"`
	IsBackupsEnabled bool      `json:"isBackupsEnabled"`
	StorePeriod      string    `json:"storePeriod"`
	BackupInterval   *Interval `json:"backupInterval"`
	StorageID        string    `json:"storageId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type DatabaseListResponse struct {
	Items      []DatabaseResponse `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
}
