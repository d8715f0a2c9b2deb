package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/spf13/cobra"
)

var propagationOpts domain.PropagationOptions

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Inspect clusters and propagate their backup policy",
}

var clustersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clusters",
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		clusters, err := services.ClusterService.ListClusters(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list clusters: %w", err)
		}

		if len(clusters) == 0 {
			fmt.Println("No clusters found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tENGINE\tHOST\tBACKUPS\tSTORAGE\tSCHEDULE")
		for _, c := range clusters {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s:%d\t%t\t%s\t%s\n",
				c.ID,
				c.Name,
				c.Engine,
				c.Connection.Host,
				c.Connection.Port,
				c.IsBackupsEnabled,
				orDash(c.StorageID),
				formatInterval(c.BackupInterval, "UTC"),
			)
		}
		return w.Flush()
	}),
}

var clustersPreviewCmd = &cobra.Command{
	Use:   "preview <cluster-id>",
	Short: "Show which databases differ from the cluster policy",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		clusterID, err := parseClusterID(args[0])
		if err != nil {
			return err
		}

		changes, err := services.PropagationService.PreviewPropagation(cmd.Context(), clusterID, propagationOpts)
		if err != nil {
			return fmt.Errorf("failed to preview propagation: %w", err)
		}

		if len(changes) == 0 {
			fmt.Println("All databases match the cluster policy")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATABASE ID\tNAME\tCHANGES")
		for _, change := range changes {
			fmt.Fprintf(w, "%s\t%s\t%s\n", change.DatabaseID, change.Name, change.Describe())
		}
		return w.Flush()
	}),
}

var clustersApplyCmd = &cobra.Command{
	Use:   "apply <cluster-id>",
	Short: "Push the cluster policy onto differing databases",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		clusterID, err := parseClusterID(args[0])
		if err != nil {
			return err
		}

		result, err := services.PropagationService.ApplyPropagation(cmd.Context(), cliActor, clusterID, propagationOpts)
		if err != nil {
			return fmt.Errorf("failed to apply propagation: %w", err)
		}

		for _, change := range result.Items {
			fmt.Printf("updated %s: %s\n", change.Name, change.Describe())
		}
		for _, failure := range result.Failures {
			fmt.Printf("failed %s: %s\n", failure.Name, failure.Error)
		}
		fmt.Printf("Applied: %d, failed: %d\n", result.Applied(), result.Failed())

		if result.Failed() > 0 {
			return fmt.Errorf("%d database(s) could not be updated", result.Failed())
		}
		return nil
	}),
}

var clustersSyncCmd = &cobra.Command{
	Use:   "sync <cluster-id>",
	Short: "Register databases that exist on the server but are not tracked yet",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		clusterID, err := parseClusterID(args[0])
		if err != nil {
			return err
		}

		created, err := services.ClusterService.SyncDatabases(cmd.Context(), cliActor, clusterID)
		if err != nil {
			return fmt.Errorf("failed to sync databases: %w", err)
		}

		if len(created) == 0 {
			fmt.Println("No new databases found")
			return nil
		}
		for _, db := range created {
			fmt.Printf("registered %s (%s)\n", db.Name, db.ID)
		}
		return nil
	}),
}

func parseClusterID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid cluster ID %q: %w", raw, err)
	}
	return id, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatInterval renders a schedule as e.g. "WEEKLY weekday=3 04:00 UTC"
func formatInterval(i *domain.Interval, zone string) string {
	if i == nil {
		return "-"
	}
	parts := []string{string(i.Interval)}
	if i.Weekday != nil {
		parts = append(parts, fmt.Sprintf("weekday=%d", *i.Weekday))
	}
	if i.DayOfMonth != nil {
		parts = append(parts, fmt.Sprintf("day=%d", *i.DayOfMonth))
	}
	if i.TimeOfDay != nil {
		parts = append(parts, *i.TimeOfDay)
		if zone != "" {
			parts = append(parts, zone)
		}
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(clustersCmd)
	clustersCmd.AddCommand(clustersListCmd)
	clustersCmd.AddCommand(clustersPreviewCmd)
	clustersCmd.AddCommand(clustersApplyCmd)
	clustersCmd.AddCommand(clustersSyncCmd)

	for _, c := range []*cobra.Command{clustersPreviewCmd, clustersApplyCmd} {
		c.Flags().BoolVar(&propagationOpts.ApplyStorage, "storage", true, "compare and push the storage target")
		c.Flags().BoolVar(&propagationOpts.ApplySchedule, "schedule", true, "compare and push the backup schedule")
		c.Flags().BoolVar(&propagationOpts.ApplyEnableBackups, "enable-backups", true, "compare and push backup enablement")
		c.Flags().BoolVar(&propagationOpts.RespectExclusions, "respect-exclusions", true, "skip databases on the cluster exclusion list")
	}
}
