package introspect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/martijn/clustercalm/internal/core/domain"
)

// Introspector lists the logical databases hosted by a live cluster. Each
// call opens a short lived connection bounded by timeout.
type Introspector struct {
	timeout time.Duration
	logger  *slog.Logger
}

func New(timeout time.Duration, logger *slog.Logger) *Introspector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Introspector{timeout: timeout, logger: logger}
}

func (i *Introspector) ListDatabases(ctx context.Context, cluster *domain.Cluster) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	switch cluster.Engine {
	case domain.EnginePostgresql:
		return i.listPostgresql(ctx, cluster.Connection)
	case domain.EngineMysql:
		return i.listMysql(ctx, cluster.Connection)
	default:
		return nil, fmt.Errorf("unsupported engine: %q", cluster.Engine)
	}
}
