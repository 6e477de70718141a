package cmd

import (
	"context"
	"fmt"

	"github.com/ccoveille/go-safecast"
	"github.com/jon4hz/loanwise/internal/database"
	"github.com/mergestat/timediff"
	"github.com/spf13/cobra"
)

var usersCmdFlags struct {
	CountOnly bool
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Long:  `List all registered users, or only print how many there are.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithDB(cmd.Context(), func(ctx context.Context, db *database.Client) error {
			count, err := db.CountUsers(ctx)
			if err != nil {
				return fmt.Errorf("failed to count users: %w", err)
			}
			n, err := safecast.ToInt(count)
			if err != nil {
				return fmt.Errorf("failed to convert user count: %w", err)
			}
			if usersCmdFlags.CountOnly {
				fmt.Println(n)
				return nil
			}

			users, err := db.GetAllUsers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			fmt.Printf("Registered Users: %d\n", n)
			for _, u := range users {
				fmt.Printf("  ID: %d, Username: %s, Registered: %s\n", u.ID, u.Username, timediff.TimeDiff(u.CreatedAt))
			}
			return nil
		})
	},
}

func init() {
	usersCmd.Flags().BoolVar(&usersCmdFlags.CountOnly, "count", false, "Only print the number of users")
	rootCmd.AddCommand(usersCmd)
}
