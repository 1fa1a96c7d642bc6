package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/mcpserver"
)

// MCPCmd serves larder tools to MCP clients over stdio
var MCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve larder tools over the Model Context Protocol (stdio)",
	Long: `Run an MCP server on stdin/stdout exposing parse_quantity,
format_quantity, resolve_icon, suggest_ingredients and add_ingredient.
Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, database, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		srv, err := mcpserver.NewMCPServer(store, cfg, loadResolver(cfg), logger.ComponentLogger("mcp"))
		if err != nil {
			return err
		}
		return srv.Serve()
	},
}
