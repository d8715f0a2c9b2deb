package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04:05"

var clientScopes, updatedScopes []string

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage API clients",
	Long:  "Manage machine credentials that use the client_credentials grant",
}

var clientsAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a client and print its secret",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		client, secret, err := services.AuthService.CreateClient(cmd.Context(), args[0], clientScopes)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
		fmt.Fprintf(w, "Client ID:\t%s\n", client.ID)
		fmt.Fprintf(w, "Client secret:\t%s\n", secret)
		fmt.Fprintf(w, "Scopes:\t%s\n", strings.Join(client.Scopes, ", "))
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println("\nThe secret is not stored in plain text and cannot be shown again.")
		return nil
	}),
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <client-id>",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		if !confirm(fmt.Sprintf("Delete client %s?", args[0])) {
			fmt.Println("Cancelled")
			return nil
		}
		if err := services.AuthService.DeleteClient(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted client %s\n", args[0])
		return nil
	}),
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update <client-id> <label>",
	Short: "Relabel a client, optionally replacing its scopes",
	Args:  cobra.ExactArgs(2),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		client, err := services.AuthService.UpdateClient(cmd.Context(), args[0], args[1], updatedScopes)
		if err != nil {
			return err
		}
		fmt.Printf("Updated client %s (%s): %s\n", client.ID, client.Label, strings.Join(client.Scopes, ", "))
		return nil
	}),
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		clients, err := services.AuthService.ListClients(cmd.Context())
		if err != nil {
			return err
		}
		if len(clients) == 0 {
			fmt.Println("No clients")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CLIENT ID\tLABEL\tSCOPES\tCREATED")
		for _, c := range clients {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Label, strings.Join(c.Scopes, ","), c.CreatedAt.Format(timeLayout))
		}
		return w.Flush()
	}),
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.AddCommand(clientsAddCmd, clientsDeleteCmd, clientsUpdateCmd, clientsListCmd)

	scopesUsage := "comma separated scopes (" + strings.Join([]string{domain.ScopeAll, domain.ScopeClustersRead, domain.ScopeClustersWrite}, ", ") + ")"
	clientsAddCmd.Flags().StringSliceVar(&clientScopes, "scopes", []string{domain.ScopeAll}, scopesUsage)
	clientsUpdateCmd.Flags().StringSliceVar(&updatedScopes, "scopes", nil, scopesUsage+"; omitted keeps the current scopes")
	clientsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
