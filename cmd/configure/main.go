package main

import (
	"fmt"
	"os"

	"github.com/benvon/todo-everyday/cmd/configure/commands"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:           "todo-everyday-configure",
		Short:         "Administration tool for the TodoEveryday API",
		Long:          "CLI tool for schema migrations, inspecting todos, bulk actions and event streams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewShowCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewBatchCmd())
	rootCmd.AddCommand(commands.NewEventsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
