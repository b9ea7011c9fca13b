package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	toptmcp "github.com/valter-silva-au/time-optimizer/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the topt MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the topt MCP server on stdio",
	Long: `Start the topt MCP server on stdio transport.

The server exposes the planner as MCP tools that AI assistants can call:
generate_schedule, list_tasks, get_schedule, suggest_tasks, get_metrics,
get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Planner == nil || Tasks == nil {
			return fmt.Errorf("planner not initialized")
		}

		srv := toptmcp.NewServer(Planner, Tasks, MetricsCalc, AlertEngine, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		Logger.Debug().Msg("mcp server listening on stdio")
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
