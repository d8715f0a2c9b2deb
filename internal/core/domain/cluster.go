package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Engine string

const (
	EnginePostgresql Engine = "postgresql"
	EngineMysql      Engine = "mysql"
)

func (e Engine) IsValid() bool {
	return e == EnginePostgresql || e == EngineMysql
}

// StorePeriod is the retention tier applied to backups.
type StorePeriod string

const (
	PeriodDay     StorePeriod = "DAY"
	PeriodWeek    StorePeriod = "WEEK"
	PeriodMonth   StorePeriod = "MONTH"
	Period3Month  StorePeriod = "3_MONTH"
	Period6Month  StorePeriod = "6_MONTH"
	PeriodYear    StorePeriod = "YEAR"
	Period2Years  StorePeriod = "2_YEARS"
	Period3Years  StorePeriod = "3_YEARS"
	Period4Years  StorePeriod = "4_YEARS"
	Period5Years  StorePeriod = "5_YEARS"
	PeriodForever StorePeriod = "FOREVER"
)

func (p StorePeriod) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, Period3Month, Period6Month, PeriodYear,
		Period2Years, Period3Years, Period4Years, Period5Years, PeriodForever:
		return true
	}
	return false
}

// ClusterConnection holds the credentials used to reach the database server.
type ClusterConnection struct {
	Version  string
	Host     string
	Port     int
	Username string
	Password string
	IsHttps  bool
}

// Cluster is a connection profile plus the canonical backup policy it
// enforces on its member databases.
type Cluster struct {
	ID         uuid.UUID
	Name       string
	Engine     Engine
	Connection ClusterConnection

	IsBackupsEnabled  bool
	StorePeriod       StorePeriod
	BackupInterval    *Interval
	StorageID         string
	Notifiers         []string
	ExcludedDatabases []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCluster(name string, engine Engine, conn ClusterConnection) *Cluster {
	now := time.Now().UTC()
	return &Cluster{
		ID:                uuid.New(),
		Name:              name,
		Engine:            engine,
		Connection:        conn,
		StorePeriod:       PeriodWeek,
		Notifiers:         []string{},
		ExcludedDatabases: []string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (c *Cluster) Validate(requirePassword bool) error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name is required")
	}
	if !c.Engine.IsValid() {
		return NewValidationError("engine must be 'postgresql' or 'mysql'")
	}
	if c.Connection.Host == "" {
		return NewValidationError("host is required")
	}
	if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
		return NewValidationError("port must be between 1 and 65535")
	}
	if c.Connection.Username == "" {
		return NewValidationError("username is required")
	}
	if requirePassword && c.Connection.Password == "" {
		return NewValidationError("password is required")
	}
	if c.StorePeriod != "" && !c.StorePeriod.IsValid() {
		return NewValidationError("invalid storePeriod %q", c.StorePeriod)
	}
	if c.IsBackupsEnabled && c.StorageID == "" {
		return NewValidationError("storage must be selected when backups are enabled for cluster")
	}
	if c.BackupInterval != nil {
		if err := c.BackupInterval.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsExcluded reports whether name is in the exclusion list, ignoring case.
// Exclusions are stored by name, so renaming a database silently drops it
// out of the exclusion list.
func (c *Cluster) IsExcluded(name string) bool {
	_, ok := c.ExclusionSet()[FoldName(name)]
	return ok
}

// ExclusionSet returns the case-folded exclusion names.
func (c *Cluster) ExclusionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ExcludedDatabases))
	for _, name := range c.ExcludedDatabases {
		if folded := FoldName(name); folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}

// FoldName is the case-insensitive key used to compare database names.
func FoldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Cluster) HideSensitiveData() {
	c.Connection.Password = ""
}

// IsSystemDatabase reports whether name is an engine internal database that
// is never backed up.
func IsSystemDatabase(engine Engine, name string) bool {
	name = FoldName(name)
	switch engine {
	case EnginePostgresql:
		return name == "postgres" || name == "template0" || name == "template1"
	case EngineMysql:
		return name == "information_schema" || name == "mysql" ||
			name == "performance_schema" || name == "sys"
	}
	return false
}
