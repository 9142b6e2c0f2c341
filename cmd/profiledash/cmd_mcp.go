package main

import (
	"context"

	"github.com/spf13/cobra"

	"profiledash/internal/logging"
	mcpserver "profiledash/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio",
	Long: `Start an MCP server over stdin/stdout exposing render_chart,
get_dashboard and get_history.

The server monitors its parent process and exits when the client goes
away without closing stdin.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appConfig, "", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []mcpserver.Option{
		mcpserver.WithDashboard(a.load),
		mcpserver.WithTheme(appConfig.Theme),
	}
	if a.history != nil {
		opts = append(opts, mcpserver.WithHistory(a.history.List))
	}
	srv := mcpserver.NewServer(version, opts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := logging.New("mcp")
	mcpserver.WatchParent(ctx, cancel, logger)

	logger.Info("starting profiledash MCP server over stdio (parent watchdog active)")
	return srv.Run(ctx)
}
