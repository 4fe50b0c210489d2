package commands

import (
	"context"
	"fmt"

	"github.com/benvon/todo-everyday/internal/models"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		status string
		page   int
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Long:  "List todos newest first, optionally filtered by completion status",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}
			if limit < 1 || limit > 100 {
				return fmt.Errorf("--limit must be between 1 and 100")
			}
			return validFormat(format)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				result, err := rt.service.List(ctx, models.ParseFilterStatus(status), page, limit)
				if err != nil {
					return fmt.Errorf("failed to list todos: %w", err)
				}
				if err := printTodos(cmd.OutOrStdout(), format, result.Items); err != nil {
					return err
				}
				if format == FormatTable {
					fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d, showing %d of %d\n", result.Page, len(result.Items), result.Total)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", string(models.FilterAll), "Filter: all, completed or pending")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Page size (1-100)")
	cmd.Flags().StringVarP(&format, "output", "o", FormatTable, "Output format: table, json or yaml")

	return cmd
}
