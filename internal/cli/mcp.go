package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/studyhub/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants search the catalog, refine a search step by step
and turn interest-test answers into recommendations.

Add to your MCP client config:

{
  "mcpServers": {
    "studyhub": {
      "command": "/path/to/studyhub",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, ctx, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	if err := a.loadCatalogPath(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.New(a.engine, a.db, version)
	return server.Start(ctx)
}
