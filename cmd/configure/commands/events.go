package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/todo-everyday/internal/config"
	"github.com/benvon/todo-everyday/internal/queue"
	"github.com/spf13/cobra"
)

// NewEventsCmd creates the events command
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect todo change events published to RabbitMQ",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

// formatEvent renders one event as a single log line
func formatEvent(e *queue.Event) string {
	line := fmt.Sprintf("%s  %-13s", e.OccurredAt.UTC().Format(time.RFC3339), e.Type)
	if e.TodoID != nil {
		line += fmt.Sprintf("  todo=%d", *e.TodoID)
	}
	if e.Action != "" {
		line += fmt.Sprintf("  action=%s count=%d", e.Action, e.Count)
	}
	return line + "  id=" + e.ID.String()
}

func newEventsTailCmd() *cobra.Command {
	var (
		prefetch int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Stream events from the audit queue, acknowledging each one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is not configured")
			}

			sub, err := queue.NewRabbitMQPublisher(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() { _ = sub.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return tail(ctx, sub, cmd, prefetch, limit)
		},
	}

	cmd.Flags().IntVar(&prefetch, "prefetch", 10, "Messages fetched ahead of acknowledgement")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many events (0 = until interrupted)")
	return cmd
}

func tail(ctx context.Context, sub queue.EventSubscriber, cmd *cobra.Command, prefetch, limit int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs, errs, err := sub.Subscribe(ctx, prefetch)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatEvent(msg.GetEvent()))
			if err := msg.Ack(); err != nil {
				return fmt.Errorf("failed to acknowledge event: %w", err)
			}
			seen++
			if limit > 0 && seen >= limit {
				return nil
			}
		}
	}
}
