package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/martijn/clustercalm/internal/core/domain"
)

func (i *Introspector) listMysql(ctx context.Context, conn domain.ClusterConnection) ([]string, error) {
	db, err := sql.Open("mysql", mysqlDSN(conn, i.timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql %s:%d: %w", conn.Host, conn.Port, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			i.logger.Warn("failed to close mysql connection", "host", conn.Host, "error", err)
		}
	}()

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(i.timeout)

	rows, err := db.QueryContext(ctx, "SHOW DATABASES")
	if err != nil {
		return nil, fmt.Errorf("failed to list mysql databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan mysql database name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mysql databases: %w", err)
	}
	return names, nil
}

func mysqlDSN(conn domain.ClusterConnection, timeout time.Duration) string {
	cfg := mysql.NewConfig()
	cfg.User = conn.Username
	cfg.Passwd = conn.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port))
	cfg.Timeout = timeout
	cfg.ReadTimeout = timeout
	cfg.ParseTime = true
	if conn.IsHttps {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
}
