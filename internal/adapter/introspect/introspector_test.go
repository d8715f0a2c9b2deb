package introspect

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDatabases_UnsupportedEngine(t *testing.T) {
	i := New(time.Second, logging.Discard())
	cluster := &domain.Cluster{Name: "odd", Engine: "oracle"}

	_, err := i.ListDatabases(context.Background(), cluster)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported engine")
}

func TestPostgresqlConnString(t *testing.T) {
	conn := domain.ClusterConnection{Host: "db.internal", Port: 5433, Username: "backup", Password: `it's\secret`}

	s := postgresqlConnString(conn)
	assert.Contains(t, s, "host=db.internal port=5433")
	assert.Contains(t, s, `password='it\'s\\secret'`)
	assert.Contains(t, s, "dbname=postgres")
	assert.Contains(t, s, "sslmode=disable")

	conn.IsHttps = true
	assert.Contains(t, postgresqlConnString(conn), "sslmode=require")
}

func TestMysqlDSN(t *testing.T) {
	conn := domain.ClusterConnection{Host: "10.0.0.5", Port: 3306, Username: "backup", Password: "p@ss:word"}

	dsn := mysqlDSN(conn, 5*time.Second)
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "backup", cfg.User)
	assert.Equal(t, "p@ss:word", cfg.Passwd)
	assert.Equal(t, "10.0.0.5:3306", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.DBName)
	assert.False(t, strings.Contains(dsn, "tls="))

	conn.IsHttps = true
	assert.Contains(t, mysqlDSN(conn, time.Second), "tls=true")
}

func TestNew_DefaultTimeout(t *testing.T) {
	i := New(0, logging.Discard())
	assert.Equal(t, 10*time.Second, i.timeout)
}
