package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/larder/am"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage larder configuration",
	Long: `am - Manage larder configuration ("I am")

Configuration sources (later overrides earlier):
1. Default values
2. System config (/etc/larder/larder.toml)
3. User config (~/.larder/larder.toml)
4. Project config (nearest larder.toml walking up from the working directory)
5. Environment variables (LARDER_* prefix)

Examples:
  larder am show                          # Show current configuration
  larder am show --format json            # Show configuration as JSON
  larder am get autocomplete.empty_query  # Get one value
  larder am set autocomplete.empty_query all
  larder am validate                      # Validate current configuration
  larder am where                         # Show where each value came from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, autocomplete.empty_query)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a value to the user config file",
	Long: `Write key = value to ~/.larder/larder.toml. The previous file is kept
as larder.toml.back1. Lists are comma separated.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configFormat)
}

// writeConfig renders cfg in format.
func writeConfig(w io.Writer, cfg *am.Config, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		fmt.Fprintf(w, "# larder configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Fprintf(w, "# larder configuration\n%s", string(data))

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !am.IsSet(key) {
		return fmt.Errorf("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]
	value, err := am.ParseValue(key, raw)
	if err != nil {
		return err
	}
	path := am.UserConfigPath()
	if err := am.SetUserValue(path, key, value); err != nil {
		return err
	}
	pterm.Success.Printf("%s = %v written to %s\n", key, value, path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	settings, err := am.GetConfigIntrospection()
	if err != nil {
		return fmt.Errorf("failed to get config introspection: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	for i, src := range am.ConfigPaths() {
		status := "missing"
		if _, err := os.Stat(src.Path); err == nil {
			status = "found"
		}
		fmt.Fprintf(out, "  %d. [%-7s]  %s (%s)\n", i+2, src.Source, src.Path, status)
	}
	fmt.Fprintf(out, "  %d. [ENV]      %s_* environment variables\n\n", len(am.ConfigPaths())+2, am.EnvPrefix)

	summary := map[am.ConfigSource]int{}
	rows := pterm.TableData{{"Key", "Value", "Source"}}
	for _, s := range settings {
		summary[s.Source]++
		source := string(s.Source)
		if s.SourcePath != "" && s.Source != am.SourceDefault {
			source = fmt.Sprintf("%s (%s)", s.Source, s.SourcePath)
		}
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), source})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, table)

	sources := make([]string, 0, len(summary))
	for src := range summary {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)
	fmt.Fprintln(out)
	for _, src := range sources {
		fmt.Fprintf(out, "%s: %d\n", src, summary[am.ConfigSource(src)])
	}
	return nil
}
