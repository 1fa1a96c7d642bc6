package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/display"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/internal/httpclient"
)

// IngredientsCmd manages the ingredient catalog
var IngredientsCmd = &cobra.Command{
	Use:     "ingredients",
	Aliases: []string{"ing"},
	Short:   "Manage the ingredient catalog",
	Long: `List, add, remove and import catalog ingredients.

Import reads a YAML list of {name, category} entries from a file, from
stdin ("-"), or from an http(s) URL. Names already in the catalog are skipped.

Examples:
  larder ingredients ls
  larder ingredients add "Olive Oil" --category pantry
  larder ingredients rm 12
  larder ingredients import pantry.yaml
  larder ingredients import https://example.com/pantry.yaml`,
}

var ingredientsLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List ingredients",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer database.Close()
		return runIngredientsLs(cmd.Context(), cmd.OutOrStdout(), store, display.ShouldOutputJSON(cmd))
	},
}

var ingredientsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an ingredient",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer database.Close()
		category, _ := cmd.Flags().GetString("category")
		ing, err := store.Create(cmd.Context(), strings.Join(args, " "), category)
		if err != nil {
			return err
		}
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), ing)
		}
		pterm.Success.Printf("Added %s (id %d)\n", ing.Name, ing.ID)
		return nil
	},
}

var ingredientsRmCmd = &cobra.Command{
	Use:     "rm <id|name>",
	Aliases: []string{"remove"},
	Short:   "Remove an ingredient",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer database.Close()
		ing, err := removeIngredient(cmd.Context(), store, strings.Join(args, " "))
		if err != nil {
			return err
		}
		pterm.Success.Printf("Removed %s (id %d)\n", ing.Name, ing.ID)
		return nil
	},
}

var ingredientsImportCmd = &cobra.Command{
	Use:   "import <file|url|->",
	Short: "Import ingredients from YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, database, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer database.Close()

		var opts []httpclient.Option
		if allow, _ := cmd.Flags().GetBool("allow-private"); allow {
			opts = append(opts, httpclient.AllowPrivateNetworks())
		}
		data, err := readImportSource(cmd.Context(), args[0], cmd.InOrStdin(), httpclient.New(opts...))
		if err != nil {
			return err
		}
		return runImport(cmd.Context(), cmd.OutOrStdout(), store, data, display.ShouldOutputJSON(cmd))
	},
}

func init() {
	ingredientsAddCmd.Flags().StringP("category", "c", "", "Ingredient category (e.g. dairy)")
	ingredientsImportCmd.Flags().Bool("allow-private", false, "Allow importing from localhost and private network URLs")

	IngredientsCmd.AddCommand(ingredientsLsCmd)
	IngredientsCmd.AddCommand(ingredientsAddCmd)
	IngredientsCmd.AddCommand(ingredientsRmCmd)
	IngredientsCmd.AddCommand(ingredientsImportCmd)
}

func runIngredientsLs(ctx context.Context, w io.Writer, store *catalog.Store, asJSON bool) error {
	items, err := store.List(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return display.OutputJSON(w, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No ingredients yet. Add one with: larder ingredients add <name>")
		return nil
	}
	for _, ing := range items {
		category := ""
		if ing.Category != "" {
			category = pterm.Gray(ing.Category)
		}
		fmt.Fprintf(w, "%4d  %-24s %s\n", ing.ID, ing.Name, category)
	}
	return nil
}

// removeIngredient deletes by numeric id, or by name when ref is not a number.
func removeIngredient(ctx context.Context, store *catalog.Store, ref string) (catalog.Ingredient, error) {
	var (
		ing catalog.Ingredient
		err error
	)
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		ing, err = store.Get(ctx, id)
	} else {
		ing, err = store.FindByName(ctx, ref)
	}
	if err != nil {
		return catalog.Ingredient{}, err
	}
	if err := store.Delete(ctx, ing.ID); err != nil {
		return catalog.Ingredient{}, err
	}
	return ing, nil
}

// fetcher downloads import documents
type fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// readImportSource reads src as a URL, "-" for stdin, or a file path.
func readImportSource(ctx context.Context, src string, stdin io.Reader, f fetcher) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err := f.Fetch(ctx, src)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch %s", src)
		}
		return data, nil
	case src == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		return data, nil
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", src)
		}
		return data, nil
	}
}

func runImport(ctx context.Context, w io.Writer, store *catalog.Store, data []byte, asJSON bool) error {
	report, err := store.Import(ctx, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if asJSON {
		return display.OutputJSON(w, report)
	}
	for _, ing := range report.Added {
		fmt.Fprintf(w, "+ %s\n", ing.Name)
	}
	for _, name := range report.Skipped {
		fmt.Fprintf(w, "= %s %s\n", name, pterm.Gray("(already in catalog)"))
	}
	fmt.Fprintf(w, "%d added, %d skipped\n", len(report.Added), len(report.Skipped))
	return nil
}
