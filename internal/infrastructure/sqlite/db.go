package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/martijn/clustercalm/internal/core/repository"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS user (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS client (
	id TEXT PRIMARY KEY,
	secret TEXT NOT NULL,
	label TEXT NOT NULL,
	scopes TEXT NOT NULL, -- JSON array
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS cluster (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	engine TEXT NOT NULL,
	version TEXT NOT NULL DEFAULT '',
	host TEXT NOT NULL,
	port INTEGER NOT NULL,
	username TEXT NOT NULL,
	password TEXT NOT NULL,
	is_https INTEGER NOT NULL DEFAULT 0,
	is_backups_enabled INTEGER NOT NULL DEFAULT 0,
	store_period TEXT NOT NULL,
	storage_id TEXT NOT NULL DEFAULT '',
	interval_type TEXT,
	time_of_day TEXT,
	weekday INTEGER,
	day_of_month INTEGER,
	notifiers TEXT NOT NULL DEFAULT '[]', -- JSON array
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS cluster_excluded_database (
	cluster_id TEXT NOT NULL,
	name TEXT NOT NULL COLLATE NOCASE,
	PRIMARY KEY (cluster_id, name),
	FOREIGN KEY (cluster_id) REFERENCES cluster(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS database (
	id TEXT PRIMARY KEY,
	cluster_id TEXT NOT NULL,
	name TEXT NOT NULL,
	is_backups_enabled INTEGER NOT NULL DEFAULT 0,
	store_period TEXT NOT NULL,
	storage_id TEXT NOT NULL DEFAULT '',
	interval_type TEXT,
	time_of_day TEXT,
	weekday INTEGER,
	day_of_month INTEGER,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (cluster_id) REFERENCES cluster(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	actor_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	cluster_id TEXT,
	message TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_database_cluster_id ON database(cluster_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_log_cluster_id ON audit_log(cluster_id);
`

type DB struct {
	*sqlx.DB
}

// connectionParams are applied by the driver to every pooled connection.
// Immediate transactions take the write lock at BEGIN so concurrent writers
// wait on busy_timeout instead of failing on lock upgrade.
var connectionParams = []string{
	"_pragma=busy_timeout(5000)",
	"_pragma=foreign_keys(1)",
	"_pragma=journal_mode(WAL)",
	"_txlock=immediate",
}

func dataSourceName(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(connectionParams, "&")
}

func New(dbPath string) (*DB, error) {
	db, err := sqlx.Connect("sqlite", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// an in-memory database exists per connection
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// NullString helper for optional string fields
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullInt helper for optional int fields
func NullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

// requireRow turns a write that matched nothing into repository.ErrNotFound.
func requireRow(result sql.Result, entity string, key any) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %v: %w", entity, key, repository.ErrNotFound)
	}
	return nil
}
