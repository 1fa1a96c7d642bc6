package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
)

// PickCmd drives an autocomplete session from the terminal
var PickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Drive an autocomplete session interactively",
	Long: `Drive one ingredient input field from the terminal. Each line is an event:

  type <text>   replace the field text (quote text with spaces: type "olive oil")
  next, prev    move the highlight (opens a closed dropdown)
  enter         commit the highlighted row
  esc, blur     close the dropdown
  focus         reopen the dropdown
  quit          leave

Committing a "Create" row adds the ingredient to the catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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

		return runPick(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), store, engine, loadResolver(cfg))
	},
}

// pickCommands maps REPL words to session events
var pickCommands = map[string]match.EventKind{
	"type":   match.TextChanged,
	"t":      match.TextChanged,
	"next":   match.KeyNext,
	"n":      match.KeyNext,
	"down":   match.KeyNext,
	"prev":   match.KeyPrev,
	"p":      match.KeyPrev,
	"up":     match.KeyPrev,
	"enter":  match.KeyCommit,
	"commit": match.KeyCommit,
	"esc":    match.KeyEscape,
	"escape": match.KeyEscape,
	"focus":  match.FocusGained,
	"blur":   match.FocusLost,
}

func runPick(ctx context.Context, in io.Reader, out io.Writer, store *catalog.Store, engine *match.Engine, resolver *icon.Resolver) error {
	candidates, err := store.Candidates(ctx)
	if err != nil {
		return err
	}
	session := match.NewSession(engine, candidates)
	log := logger.ComponentLogger("pick")

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		words, err := shellquote.Split(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, pterm.Red(fmt.Sprintf("parse error: %v", err)))
			fmt.Fprint(out, "> ")
			continue
		}
		if len(words) == 0 {
			fmt.Fprint(out, "> ")
			continue
		}
		if words[0] == "quit" || words[0] == "q" || words[0] == "exit" {
			break
		}

		kind, ok := pickCommands[words[0]]
		if !ok {
			fmt.Fprintln(out, pterm.Red(fmt.Sprintf("unknown command %q", words[0])))
			fmt.Fprint(out, "> ")
			continue
		}

		ev := match.Event{Kind: kind}
		if kind == match.TextChanged {
			ev.Text = strings.Join(words[1:], " ")
		}
		log.Debugw("Pick event", logger.FieldEvent, kind.String(), logger.FieldQuery, ev.Text)

		if sel, committed := session.Handle(ev); committed {
			ing, created, err := commitSelection(ctx, store, sel)
			if err != nil {
				fmt.Fprintln(out, pterm.Red(err.Error()))
			} else {
				verb := "Selected"
				if created {
					verb = "Created"
				}
				fmt.Fprintf(out, "%s %s %s (id %d)\n", verb, resolver.Resolve(ing.Name, ing.Category), ing.Name, ing.ID)
				if created {
					if fresh, err := store.Candidates(ctx); err == nil {
						session.SetCandidates(fresh)
					}
				}
			}
		}
		renderSession(out, session, resolver)
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

// commitSelection resolves sel to a catalog row, adding it for a create-new
// selection. A name someone else added meanwhile resolves to their row.
func commitSelection(ctx context.Context, store *catalog.Store, sel match.Selection) (catalog.Ingredient, bool, error) {
	if sel.Kind == match.SelectExisting {
		c := sel.Candidate
		return catalog.Ingredient{ID: c.ID, Name: c.Name, Category: c.Category}, false, nil
	}
	ing, err := store.Create(ctx, sel.NewName, "")
	if err == nil {
		return ing, true, nil
	}
	if errors.IsConflict(err) {
		existing, findErr := store.FindByName(ctx, sel.NewName)
		if findErr != nil {
			return catalog.Ingredient{}, false, findErr
		}
		return existing, false, nil
	}
	return catalog.Ingredient{}, false, err
}

func renderSession(out io.Writer, session *match.Session, resolver *icon.Resolver) {
	if session.State() == match.Closed {
		fmt.Fprintf(out, "[%s] %s\n", session.Text(), pterm.Gray("(closed)"))
		return
	}
	result := session.Result()
	fmt.Fprintf(out, "[%s]\n", session.Text())
	if len(result.Items) == 0 {
		fmt.Fprintln(out, pterm.Gray("  (no suggestions)"))
		return
	}
	for i, it := range result.Items {
		row := suggestionRow{Kind: it.Kind.String(), Name: it.Label()}
		if it.Kind == match.ItemExisting {
			row.Category = it.Candidate.Category
			row.Exact = result.Exact != nil && result.Exact.ID == it.Candidate.ID
		}
		row.Icon = resolver.Resolve(row.Name, row.Category)
		fmt.Fprintln(out, suggestionLine(row, i == result.Highlighted))
	}
}
