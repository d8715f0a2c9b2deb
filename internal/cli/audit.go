package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/martijn/clustercalm/internal/api/util"
	"github.com/martijn/clustercalm/internal/core/repository"
	"github.com/spf13/cobra"
)

var (
	auditOlderThanDays int
	auditActor         string
	auditClusterID     string
	auditLimit         int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and prune the audit log",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent audit entries",
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		filter := repository.AuditLogFilter{ListFilter: util.ListFilter{
			Page:    1,
			PerPage: auditLimit,
			Order:   []util.OrderClause{{Field: "created_at", Direction: util.OrderDesc}},
		}}
		if auditActor != "" {
			filter.Filters = append(filter.Filters, util.QueryFilter{Field: "actor_id", Operator: util.OpEq, Value: auditActor})
		}
		if auditClusterID != "" {
			id, err := parseClusterID(auditClusterID)
			if err != nil {
				return err
			}
			filter.Filters = append(filter.Filters, util.QueryFilter{Field: "cluster_id", Operator: util.OpEq, Value: id.String()})
		}

		entries, total, err := services.AuditLogService.List(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list audit log: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No audit entries found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED AT\tACTOR\tENTITY\tMESSAGE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
				e.CreatedAt.Format(timeLayout),
				e.ActorID,
				e.EntityType,
				e.EntityID,
				e.Message,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if total > len(entries) {
			fmt.Printf("\nShowing %d of %d entries\n", len(entries), total)
		}
		return nil
	}),
}

var auditCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete audit entries older than the retention period",
	Long:  "Delete audit entries older than the retention period (typically used by cron when the server does not prune)",
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		days := auditOlderThanDays
		if !cmd.Flags().Changed("older-than-days") {
			days = cfg.AuditRetentionDays
		}
		if days <= 0 {
			return fmt.Errorf("older-than-days must be positive")
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		deleted, err := services.AuditLogService.CleanOlderThan(cmd.Context(), cutoff)
		if err != nil {
			return fmt.Errorf("failed to clean audit log: %w", err)
		}

		fmt.Printf("Deleted %d audit entries older than %s\n", deleted, cutoff.Format(timeLayout))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditCleanupCmd)

	auditListCmd.Flags().StringVar(&auditActor, "actor", "", "only entries by this actor")
	auditListCmd.Flags().StringVar(&auditClusterID, "cluster", "", "only entries for this cluster ID")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum number of entries to show")

	auditCleanupCmd.Flags().IntVar(&auditOlderThanDays, "older-than-days", 0, "retention in days (default is audit_retention_days from the config)")
}
