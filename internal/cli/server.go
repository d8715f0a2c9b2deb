package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martijn/clustercalm/internal/api"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  "Start the REST API server for remote management",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer services.Close()

		server := api.NewServer(
			cfg,
			services.Logger,
			services.AuthService,
			services.ClusterService,
			services.DatabaseService,
			services.PropagationService,
			services.AuditLogService,
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.AuditRetentionDays > 0 {
			retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
			go services.AuditLogService.RunRetention(ctx, retention, time.Hour)
		}

		// Start server in goroutine
		serverErr := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		services.Logger.Info("server is ready", "host", cfg.APIHost, "port", cfg.APIPort)

		select {
		case err := <-serverErr:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			services.Logger.Info("shutting down gracefully")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		services.Logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
