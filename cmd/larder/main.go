package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/larder/cmd/larder/commands"
	"github.com/teranos/larder/logger"
)

var rootCmd = &cobra.Command{
	Use:   "larder",
	Short: "larder - recipe ingredient entry toolkit",
	Long: `larder - quantities, icons and ingredient autocomplete for recipe entry.

Available commands:
  am          - Manage larder configuration ("I am")
  qty         - Parse and format recipe quantities
  icon        - Resolve ingredient icons
  ingredients - Manage the ingredient catalog
  suggest     - Query the catalog the way autocomplete does
  pick        - Drive an interactive autocomplete session
  server      - Start the HTTP and websocket server
  mcp         - Serve larder tools over the Model Context Protocol

Examples:
  larder qty parse "1 1/2"        # 3/2, shown as 1 1/2
  larder icon "olive oil"         # icon:olive-oil
  larder ingredients import list.yaml
  larder suggest oli
  larder server`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(logJSON, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Bool("json", false, "Print command results as JSON")
	rootCmd.PersistentFlags().String("db", "", "Catalog database path (overrides database.path)")

	// Add commands
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.QtyCmd)
	rootCmd.AddCommand(commands.IconCmd)
	rootCmd.AddCommand(commands.IngredientsCmd)
	rootCmd.AddCommand(commands.SuggestCmd)
	rootCmd.AddCommand(commands.PickCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.MCPCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
