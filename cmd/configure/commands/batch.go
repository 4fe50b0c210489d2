package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/benvon/todo-everyday/internal/models"
	"github.com/benvon/todo-everyday/internal/services/todos"
	"github.com/benvon/todo-everyday/internal/validation"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	var (
		action string
		ids    []int64
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply a bulk action to todos",
		Long: "Apply delete_completed, delete_all or complete_all to every todo, " +
			"or only to the todos named with --ids.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			act := models.BatchAction(strings.ToLower(strings.TrimSpace(action)))
			if err := validation.Validate.Var(string(act), "required,batch_action"); err != nil {
				return fmt.Errorf("--action must be one of %s, %s or %s",
					models.BatchDeleteCompleted, models.BatchDeleteAll, models.BatchCompleteAll)
			}
			if act == models.BatchDeleteAll && len(ids) == 0 && !yes {
				return fmt.Errorf("delete_all without --ids removes every todo; pass --yes to confirm")
			}

			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				n, err := rt.service.Batch(ctx, act, ids)
				if err != nil {
					return fmt.Errorf("batch %s failed: %w", act, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), todos.BatchMessage(act, n))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Action: delete_completed, delete_all or complete_all (required)")
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "Restrict the action to these todo ids")
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm delete_all across every todo")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}
