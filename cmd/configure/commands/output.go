package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/benvon/todo-everyday/internal/models"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

func validFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, FormatTable, FormatJSON, FormatYAML)
	}
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v any) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// todoRow is the YAML/JSON friendly view of a todo
type todoRow struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool    `json:"isCompleted" yaml:"completed"`
	Priority    int     `json:"priority" yaml:"priority"`
	CreatedAt   string  `json:"createdAt" yaml:"created_at"`
	CompletedAt *string `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	DueDate     *string `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func toRows(items []*models.Todo) []todoRow {
	rows := make([]todoRow, 0, len(items))
	for _, t := range items {
		row := todoRow{
			ID:          t.ID,
			Title:       t.Title,
			Completed:   t.IsCompleted,
			Priority:    t.Priority,
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
			CompletedAt: formatTime(t.CompletedAt),
			DueDate:     formatTime(t.DueDate),
		}
		if t.Description != nil {
			row.Description = *t.Description
		}
		rows = append(rows, row)
	}
	return rows
}

// printTodos renders todos in the requested format
func printTodos(w io.Writer, format string, items []*models.Todo) error {
	if format != FormatTable {
		return writeStructured(w, format, toRows(items))
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No todos found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tPRIORITY\tDUE\tTITLE")
	for _, row := range toRows(items) {
		done := " "
		if row.Completed {
			done = "x"
		}
		due := "-"
		if row.DueDate != nil {
			due = *row.DueDate
		}
		fmt.Fprintf(tw, "%d\t[%s]\t%d\t%s\t%s\n", row.ID, done, row.Priority, due, row.Title)
	}
	return tw.Flush()
}

// printStats renders aggregate counts in the requested format
func printStats(w io.Writer, format string, stats *models.Stats) error {
	if format != FormatTable {
		return writeStructured(w, format, stats)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total:     %d\n", stats.Total)
	fmt.Fprintf(&b, "Completed: %d\n", stats.Completed)
	fmt.Fprintf(&b, "Pending:   %d\n", stats.Pending)
	fmt.Fprintf(&b, "Overdue:   %d\n", stats.Overdue)
	_, err := io.WriteString(w, b.String())
	return err
}
