package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/martijn/clustercalm/internal/adapter/introspect"
	"github.com/martijn/clustercalm/internal/core/service"
	"github.com/martijn/clustercalm/internal/infrastructure/sqlite"
	"github.com/martijn/clustercalm/internal/logging"
	"github.com/martijn/clustercalm/pkg/config"
	"github.com/spf13/cobra"
)

// cliActor is recorded in the audit log for changes made from the command line
const cliActor = "cli"

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clustercalm",
	Short: "ClusterCalm - Cluster-level backup policy management",
	Long: `ClusterCalm manages backup policy for groups of databases hosted on the same server.

It provides:
- Cluster profiles with a canonical backup policy
- Per-database overrides with drift detection
- Preview and apply of policy propagation
- Schedule conversion between UTC and local time
- Audit log of every change
- REST API with OAuth2 style tokens`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Parent() == scheduleCmd {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logging.Init(cfg)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")
}

// initServices initializes all services
func initServices(ctx context.Context) (*Services, error) {
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger := logging.L()

	userRepo := sqlite.NewUserRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	clusterRepo := sqlite.NewClusterRepository(db)
	databaseRepo := sqlite.NewDatabaseRepository(db)
	auditRepo := sqlite.NewAuditLogRepository(db)

	introspector := introspect.New(cfg.IntrospectionTimeout, logger)
	locks := service.NewClusterLocks()

	authService := service.NewAuthService(userRepo, clientRepo, cfg.JWTSecretKey, cfg.JWTAlgorithm)
	auditLogService := service.NewAuditLogService(auditRepo, logger)
	clusterService := service.NewClusterService(clusterRepo, databaseRepo, introspector, auditLogService, locks, logger)
	databaseService := service.NewDatabaseService(clusterRepo, databaseRepo, auditLogService, logger)
	propagationService := service.NewPropagationService(clusterRepo, databaseRepo, auditLogService, locks, cfg.PropagationParallelism, logger)

	return &Services{
		DB:                 db,
		Logger:             logger,
		AuthService:        authService,
		AuditLogService:    auditLogService,
		ClusterService:     clusterService,
		DatabaseService:    databaseService,
		PropagationService: propagationService,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB                 *sqlite.DB
	Logger             *slog.Logger
	AuthService        *service.AuthService
	AuditLogService    *service.AuditLogService
	ClusterService     *service.ClusterService
	DatabaseService    *service.DatabaseService
	PropagationService *service.PropagationService
}

// withServices opens the metadata store for the duration of one command.
func withServices(run func(cmd *cobra.Command, services *Services, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()
		return run(cmd, services, args)
	}
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
