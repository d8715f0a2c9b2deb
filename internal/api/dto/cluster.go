package dto

import "time"

type ClusterConnection struct {
	Version  string `json:"version"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"` // write only
	IsHttps  bool   `json:"isHttps"`
}

// ClusterRequest is the body of POST /clusters and PUT /clusters/:id. An
// empty password on update keeps the stored one.
type ClusterRequest struct {
	Name              string            `json:"name"`
	Engine            string            `json:"engine"`
	Connection        ClusterConnection `json:"connection"`
	IsBackupsEnabled  bool              `json:"isBackupsEnabled"`
	StorePeriod       string            `json:"storePeriod"`
	BackupInterval    *Interval         `json:"backupInterval"`
	StorageID         string            `json:"storageId"`
	Notifiers         []string          `json:"notifiers"`
	ExcludedDatabases []string          `json:"excludedDatabases"`
}

type ClusterResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Engine            string            `json:"engine"`
	Connection        ClusterConnection `json:"connection"`
	IsBackupsEnabled  bool              `json:"isBackupsEnabled"`
	StorePeriod       string            `json:"storePeriod"`
	BackupInterval    *Interval         `json:"backupInterval"`
	StorageID         string            `json:"storageId"`
	Notifiers         []string          `json:"notifiers"`
	ExcludedDatabases []string          `json:"excludedDatabases"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type ClusterListResponse struct {
	Items      []ClusterResponse `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}

// LiveDatabasesResponse lists the user databases found on the live cluster
type LiveDatabasesResponse struct {
	Items []string `json:"items"`
}

// SyncDatabasesResponse lists the member databases created by a sync
type SyncDatabasesResponse struct {
	Items   []DatabaseResponse `json:"items"`
	Created int                `json:"created"`
}
