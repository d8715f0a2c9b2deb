package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/martijn/clustercalm/internal/api/docs"
	"github.com/martijn/clustercalm/internal/api/handler"
	"github.com/martijn/clustercalm/internal/api/middleware"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/service"
	"github.com/martijn/clustercalm/pkg/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new API server
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	authService *service.AuthService,
	clusterService *service.ClusterService,
	databaseService *service.DatabaseService,
	propagationService *service.PropagationService,
	auditLogService *service.AuditLogService,
) *Server {
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	authHandler := handler.NewAuthHandler(authService)
	clusterHandler := handler.NewClusterHandler(clusterService)
	databaseHandler := handler.NewDatabaseHandler(databaseService)
	propagationHandler := handler.NewPropagationHandler(propagationService)
	scheduleHandler := handler.NewScheduleHandler()
	auditLogHandler := handler.NewAuditLogHandler(auditLogService)
	clientHandler := handler.NewClientHandler(authService)

	// Public routes (no auth required)
	router.POST("/auth/token", authHandler.Token)

	authMiddleware := middleware.AuthMiddleware(authService)
	read := middleware.RequireScope(domain.ScopeClustersRead)
	write := middleware.RequireScope(domain.ScopeClustersWrite)

	// Clusters
	clusters := router.Group("/clusters")
	clusters.Use(authMiddleware)
	{
		clusters.GET("", read, clusterHandler.ListClusters)
		clusters.POST("", write, clusterHandler.CreateCluster)
		clusters.GET("/:id", read, clusterHandler.GetCluster)
		clusters.PUT("/:id", write, clusterHandler.UpdateCluster)
		clusters.GET("/:id/live-databases", read, clusterHandler.ListLiveDatabases)
		clusters.POST("/:id/databases/sync", write, clusterHandler.SyncDatabases)
		clusters.GET("/:id/databases", read, databaseHandler.ListDatabases)
		clusters.POST("/:id/databases", write, databaseHandler.CreateDatabase)
		clusters.GET("/:id/propagation/preview", read, propagationHandler.PreviewPropagation)
		clusters.POST("/:id/propagation/apply", write, propagationHandler.ApplyPropagation)
	}

	// Member databases
	databases := router.Group("/databases")
	databases.Use(authMiddleware)
	{
		databases.GET("/:id", read, databaseHandler.GetDatabase)
		databases.PUT("/:id", write, databaseHandler.UpdateDatabase)
	}

	router.POST("/schedule/convert", authMiddleware, scheduleHandler.ConvertSchedule)
	router.GET("/audit-logs", authMiddleware, read, auditLogHandler.ListAuditLogs)

	// Clients
	clients := router.Group("/clients")
	clients.Use(authMiddleware, middleware.RequireScope(domain.ScopeAll))
	{
		clients.POST("", clientHandler.CreateClient)
		clients.GET("", clientHandler.ListClients)
		clients.GET("/:id", clientHandler.GetClient)
		clients.PUT("/:id", clientHandler.UpdateClient)
		clients.DELETE("/:id", clientHandler.DeleteClient)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return &Server{
		router: router,
		config: cfg,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// apply may fan out over many databases
		WriteTimeout:   2 * time.Minute,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.logger.Info("starting HTTPS server", "addr", addr)
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
