package cli

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const minPasswordLength = 8

// assumeYes skips the confirmation prompt of destructive commands.
var assumeYes bool

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
	Long:  "Manage operator accounts that sign in with the password grant",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a user",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		password, err := promptNewPassword("Password: ", "Repeat password: ")
		if err != nil {
			return err
		}
		user, err := services.AuthService.CreateUser(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %s\n", user.Username)
		return nil
	}),
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		if !confirm(fmt.Sprintf("Delete user %s?", args[0])) {
			fmt.Println("Cancelled")
			return nil
		}
		if err := services.AuthService.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted user %s\n", args[0])
		return nil
	}),
}

var usersUpdatePasswordCmd = &cobra.Command{
	Use:   "update-password <username>",
	Short: "Set a new password for a user",
	Args:  cobra.ExactArgs(1),
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		password, err := promptNewPassword("New password: ", "Repeat new password: ")
		if err != nil {
			return err
		}
		if err := services.AuthService.SetPassword(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Printf("Password updated for %s\n", args[0])
		return nil
	}),
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: withServices(func(cmd *cobra.Command, services *Services, args []string) error {
		users, err := services.AuthService.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No users")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tCREATED\tPASSWORD CHANGED")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.CreatedAt.Format(timeLayout), u.UpdatedAt.Format(timeLayout))
		}
		return w.Flush()
	}),
}

// promptNewPassword reads a password twice from the terminal without echo.
func promptNewPassword(prompt, repeatPrompt string) (string, error) {
	first, err := readSecret(prompt)
	if err != nil {
		return "", err
	}
	second, err := readSecret(repeatPrompt)
	if err != nil {
		return "", err
	}

	switch {
	case first != second:
		return "", errors.New("passwords do not match")
	case len(first) < minPasswordLength:
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return first, nil
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func confirm(question string) bool {
	if assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", question)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "yes"
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd, usersDeleteCmd, usersUpdatePasswordCmd, usersListCmd)

	usersDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}
