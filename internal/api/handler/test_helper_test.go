package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/martijn/clustercalm/internal/api/middleware"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
	"github.com/martijn/clustercalm/internal/core/service"
	"github.com/martijn/clustercalm/internal/infrastructure/sqlite"
	"github.com/martijn/clustercalm/internal/logging"
	"github.com/stretchr/testify/require"
)

const testActor = "tester"

// fakeIntrospector returns a fixed list of live databases or an error
type fakeIntrospector struct {
	names []string
	err   error
}

func (f *fakeIntrospector) ListDatabases(ctx context.Context, cluster *domain.Cluster) ([]string, error) {
	return f.names, f.err
}

// testEnv holds all test dependencies
type testEnv struct {
	db           *sqlite.DB
	router       *gin.Engine
	clusterRepo  repository.ClusterRepository
	databaseRepo repository.DatabaseRepository
	auditRepo    repository.AuditLogRepository
	authService  *service.AuthService
	introspector *fakeIntrospector
}

// setupTestEnv creates a test environment with in-memory SQLite database.
// Routes are registered without the JWT middleware; every request runs as
// testActor with all scopes.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logging.Discard()
	clusterRepo := sqlite.NewClusterRepository(db)
	databaseRepo := sqlite.NewDatabaseRepository(db)
	auditRepo := sqlite.NewAuditLogRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	introspector := &fakeIntrospector{}

	locks := service.NewClusterLocks()
	auditService := service.NewAuditLogService(auditRepo, logger)
	authService := service.NewAuthService(sqlite.NewUserRepository(db), clientRepo, "test-secret", "HS256")
	clusterService := service.NewClusterService(clusterRepo, databaseRepo, introspector, auditService, locks, logger)
	databaseService := service.NewDatabaseService(clusterRepo, databaseRepo, auditService, logger)
	propagationService := service.NewPropagationService(clusterRepo, databaseRepo, auditService, locks, 4, logger)

	clusterHandler := NewClusterHandler(clusterService)
	databaseHandler := NewDatabaseHandler(databaseService)
	propagationHandler := NewPropagationHandler(propagationService)
	scheduleHandler := NewScheduleHandler()
	auditLogHandler := NewAuditLogHandler(auditService)
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/token", authHandler.Token)

	api := router.Group("")
	api.Use(func(c *gin.Context) {
		claims := &service.TokenClaims{
			SubjectType: service.SubjectUser,
			Scopes:      []string{domain.ScopeAll},
		}
		claims.Subject = testActor
		c.Set(middleware.AuthContextKey, claims)
		c.Next()
	})

	api.GET("/clusters", clusterHandler.ListClusters)
	api.POST("/clusters", clusterHandler.CreateCluster)
	api.GET("/clusters/:id", clusterHandler.GetCluster)
	api.PUT("/clusters/:id", clusterHandler.UpdateCluster)
	api.GET("/clusters/:id/live-databases", clusterHandler.ListLiveDatabases)
	api.POST("/clusters/:id/databases/sync", clusterHandler.SyncDatabases)
	api.GET("/clusters/:id/databases", databaseHandler.ListDatabases)
	api.POST("/clusters/:id/databases", databaseHandler.CreateDatabase)
	api.GET("/databases/:id", databaseHandler.GetDatabase)
	api.PUT("/databases/:id", databaseHandler.UpdateDatabase)
	api.GET("/clusters/:id/propagation/preview", propagationHandler.PreviewPropagation)
	api.POST("/clusters/:id/propagation/apply", propagationHandler.ApplyPropagation)
	api.POST("/schedule/convert", scheduleHandler.ConvertSchedule)
	api.GET("/audit-logs", auditLogHandler.ListAuditLogs)
	api.POST("/clients", clientHandler.CreateClient)
	api.GET("/clients", clientHandler.ListClients)
	api.GET("/clients/:id", clientHandler.GetClient)
	api.PUT("/clients/:id", clientHandler.UpdateClient)
	api.DELETE("/clients/:id", clientHandler.DeleteClient)

	return &testEnv{
		db:           db,
		router:       router,
		clusterRepo:  clusterRepo,
		databaseRepo: databaseRepo,
		auditRepo:    auditRepo,
		authService:  authService,
		introspector: introspector,
	}
}

func dailyAt(tod string) *domain.Interval {
	return &domain.Interval{Interval: domain.IntervalDaily, TimeOfDay: ptr(tod)}
}

// seedScenario stores cluster "prod" (storage S1, daily 04:00, backups on,
// excludes skipme) with db_a (storage differs), db_b (schedule differs) and
// skipme.
func (env *testEnv) seedScenario(t *testing.T) (*domain.Cluster, map[string]*domain.Database) {
	t.Helper()
	ctx := context.Background()

	cluster := domain.NewCluster("prod", domain.EnginePostgresql, domain.ClusterConnection{
		Host: "db.internal", Port: 5432, Username: "backup", Password: "secret",
	})
	cluster.StorageID = "S1"
	cluster.BackupInterval = dailyAt("04:00")
	cluster.IsBackupsEnabled = true
	cluster.ExcludedDatabases = []string{"skipme"}
	require.NoError(t, env.clusterRepo.Create(ctx, cluster))

	dbs := map[string]*domain.Database{}
	add := func(name, storage string, interval *domain.Interval, enabled bool) {
		db := domain.NewDatabaseFromCluster(cluster, name)
		db.StorageID = storage
		db.BackupInterval = interval
		db.IsBackupsEnabled = enabled
		require.NoError(t, env.databaseRepo.Create(ctx, db))
		dbs[name] = db
	}
	add("db_a", "S2", dailyAt("04:00"), true)
	add("db_b", "S1", &domain.Interval{Interval: domain.IntervalWeekly, TimeOfDay: ptr("04:00"), Weekday: ptr(3)}, true)
	add("skipme", "S3", dailyAt("06:00"), false)

	return cluster, dbs
}

// makeRequest performs a request with an optional JSON body
func (env *testEnv) makeRequest(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) auditCount(t *testing.T) int {
	t.Helper()
	n, err := env.auditRepo.Count(context.Background(), repository.AuditLogFilter{})
	require.NoError(t, err)
	return n
}

// parseJSON decodes the response body into T
func parseJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	return parseJSON[dto.ErrorResponse](t, w)
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
