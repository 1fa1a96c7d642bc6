package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/display"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
)

// SuggestCmd runs one autocomplete query against the catalog
var SuggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Show the suggestions autocomplete would offer for text",
	Long: `Show the rows the autocomplete dropdown would list for text: existing
ingredients containing it, then an offer to create it when no name matches
exactly. An empty query lists everything or nothing, per autocomplete.empty_query
or --empty.

Examples:
  larder suggest oli
  larder suggest --empty all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if empty, _ := cmd.Flags().GetString("empty"); empty != "" {
			cfg.Autocomplete.EmptyQuery = empty
		}
		engine, err := cfg.NewEngine()
		if err != nil {
			return err
		}

		store, database, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		start := time.Now()
		if err := runSuggest(cmd.Context(), cmd.OutOrStdout(), store, engine, loadResolver(cfg),
			strings.Join(args, " "), display.ShouldOutputJSON(cmd)); err != nil {
			return err
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		reportTiming(cmd.ErrOrStderr(), verbosity, "suggest", time.Since(start))
		return nil
	},
}

func init() {
	SuggestCmd.Flags().String("empty", "", "What an empty query lists: all or none (default: autocomplete.empty_query)")
}

// suggestionRow is the JSON form of one suggest row
type suggestionRow struct {
	Kind     string     `json:"kind"`
	ID       int64      `json:"id,omitempty"`
	Name     string     `json:"name"`
	Category string     `json:"category,omitempty"`
	Icon     icon.Token `json:"icon"`
	Exact    bool       `json:"exact,omitempty"`
}

func runSuggest(ctx context.Context, w io.Writer, store *catalog.Store, engine *match.Engine, resolver *icon.Resolver, text string, asJSON bool) error {
	candidates, err := store.Candidates(ctx)
	if err != nil {
		return err
	}
	result := engine.Query(candidates, text)

	rows := make([]suggestionRow, 0, len(result.Items))
	for _, it := range result.Items {
		row := suggestionRow{Kind: it.Kind.String(), Name: it.Label()}
		if it.Kind == match.ItemExisting {
			row.ID = it.Candidate.ID
			row.Category = it.Candidate.Category
			row.Exact = result.Exact != nil && result.Exact.ID == it.Candidate.ID
		}
		row.Icon = resolver.Resolve(row.Name, row.Category)
		rows = append(rows, row)
	}

	if asJSON {
		return display.OutputJSON(w, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, pterm.Gray("(no suggestions)"))
		return nil
	}
	for i, row := range rows {
		fmt.Fprintln(w, suggestionLine(row, i == result.Highlighted))
	}
	return nil
}

// suggestionLine renders a row; the highlighted row gets a cursor.
func suggestionLine(row suggestionRow, highlighted bool) string {
	cursor := "  "
	if highlighted {
		cursor = "> "
	}
	label := row.Name
	if row.Kind == match.ItemCreateNew.String() {
		label = fmt.Sprintf("Create %q", row.Name)
	}
	if row.Exact {
		label += " " + pterm.Gray("(exact)")
	}
	return fmt.Sprintf("%s%s %s", cursor, row.Icon, label)
}

// reportTiming prints how long op took when -vv or higher is set.
func reportTiming(w io.Writer, verbosity int, op string, elapsed time.Duration) {
	if !logger.ShouldOutput(verbosity, logger.OutputTiming) {
		return
	}
	fmt.Fprintln(w, pterm.Gray(fmt.Sprintf("%s took %dms", op, elapsed.Milliseconds())))
}
