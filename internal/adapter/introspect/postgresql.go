package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/martijn/clustercalm/internal/core/domain"
)

const listPostgresqlDatabases = `
	SELECT datname
	FROM pg_database
	WHERE datallowconn AND NOT datistemplate
	ORDER BY datname
`

func (i *Introspector) listPostgresql(ctx context.Context, conn domain.ClusterConnection) ([]string, error) {
	pg, err := pgx.Connect(ctx, postgresqlConnString(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgresql %s:%d: %w", conn.Host, conn.Port, err)
	}
	defer func() {
		if err := pg.Close(context.WithoutCancel(ctx)); err != nil {
			i.logger.Warn("failed to close postgresql connection", "host", conn.Host, "error", err)
		}
	}()

	rows, err := pg.Query(ctx, listPostgresqlDatabases)
	if err != nil {
		return nil, fmt.Errorf("failed to list postgresql databases: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read postgresql databases: %w", err)
	}
	return names, nil
}

// postgresqlConnString connects to the maintenance database, which exists on
// every server.
func postgresqlConnString(conn domain.ClusterConnection) string {
	sslMode := "disable"
	if conn.IsHttps {
		sslMode = "require"
	}

	return fmt.Sprintf(
		"host=%s port=%d user='%s' password='%s' dbname=postgres sslmode=%s default_query_exec_mode=simple_protocol",
		conn.Host,
		conn.Port,
		escapeConnValue(conn.Username),
		escapeConnValue(conn.Password),
		sslMode,
	)
}

func escapeConnValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
