package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// parseIDs converts positional arguments into todo ids.
// Arguments may also be comma separated.
func parseIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid todo id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one todo id is required")
	}
	return ids, nil
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id> [id...]",
		Short: "Show one or more todos by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				items, err := rt.service.GetMany(ctx, ids)
				if err != nil {
					return fmt.Errorf("failed to load todos: %w", err)
				}
				if len(items) < len(ids) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d of %d ids not found\n", len(ids)-len(items), len(ids))
				}
				return printTodos(cmd.OutOrStdout(), format, items)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", FormatTable, "Output format: table, json or yaml")
	return cmd
}
