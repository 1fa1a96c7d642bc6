package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/larder/display"
	"github.com/teranos/larder/icon"
)

// IconCmd resolves the icon for an ingredient
var IconCmd = &cobra.Command{
	Use:   "icon <name>",
	Short: "Resolve the icon for an ingredient",
	Long: `Resolve the icon or emoji shown beside an ingredient name.

The first keyword rule contained in the name wins. A rule without a dedicated
icon yields to the category's token when --category is given.

Examples:
  larder icon "extra virgin olive oil"
  larder icon "smoked gouda" --category dairy
  larder icon table`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		return runIcon(cmd.OutOrStdout(), loadResolver(cfg), strings.Join(args, " "), category, display.ShouldOutputJSON(cmd))
	},
}

var iconTableCmd = &cobra.Command{
	Use:   "table",
	Short: "List the icon rules in precedence order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runIconTable(cmd.OutOrStdout(), loadResolver(cfg).Table())
	},
}

func init() {
	IconCmd.Flags().StringP("category", "c", "", "Ingredient category (e.g. dairy)")
	IconCmd.AddCommand(iconTableCmd)
}

func runIcon(w io.Writer, r *icon.Resolver, name, category string, asJSON bool) error {
	tok := r.Resolve(name, category)
	if asJSON {
		return display.OutputJSON(w, tok)
	}

	fmt.Fprintln(w, tok.String())
	if rule, ok := r.Match(name); ok {
		fmt.Fprintln(w, pterm.Gray(fmt.Sprintf("matched %q", rule.Keyword)))
	}
	return nil
}

func runIconTable(w io.Writer, t *icon.Table) error {
	fmt.Fprintf(w, "%s (version %s)\n", t.Source(), t.Version())

	rows := pterm.TableData{{"#", "Keyword", "Token"}}
	for i, rule := range t.Rules() {
		token := rule.Result.String()
		if rule.EmojiOnly() {
			token += " (emoji only)"
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), rule.Keyword, token})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)

	fmt.Fprintln(w, "Categories:")
	for _, name := range t.Categories() {
		tok, _ := t.Category(name)
		fmt.Fprintf(w, "  %-12s %s\n", name, tok)
	}
	return nil
}
