package cmd

import (
	"context"
	"fmt"

	"github.com/jon4hz/loanwise/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Create the users table if it doesn't exist yet. Running it again is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runWithDB(cmd.Context(), func(ctx context.Context, db *database.Client) error {
			return db.EnsureSchema(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		fmt.Println("Database migrations completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
