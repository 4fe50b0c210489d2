package commands

import (
	"context"
	"fmt"

	"github.com/benvon/todo-everyday/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMigrateCmd creates the migrate command with up, down and status subcommands
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(newMigrateStep("up", "Apply all pending migrations", database.Migrate))
	cmd.AddCommand(newMigrateStep("down", "Roll back the most recent migration", database.MigrateDown))
	cmd.AddCommand(newMigrateStep("status", "Show the state of every migration", database.MigrationStatus))
	return cmd
}

func newMigrateStep(use, short string, step func(context.Context, *database.DB, *zap.Logger) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				if err := step(ctx, rt.db, rt.logger); err != nil {
					return fmt.Errorf("migrate %s: %w", use, err)
				}
				return nil
			})
		},
	}
}
