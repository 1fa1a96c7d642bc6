package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/larder/display"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/quantity"
)

// QtyCmd groups the quantity commands
var QtyCmd = &cobra.Command{
	Use:   "qty",
	Short: "Parse and format recipe quantities",
	Long: `Parse quantity text into exact fractions and render fractions for display.

Accepted input: ` + quantity.AcceptedForms + `

Examples:
  larder qty parse "1 1/2"     # 1 1/2 (3/2)
  larder qty parse 0.125       # 0.125 (1/8)
  larder qty format 7 4        # 1 3/4
  larder qty format            # placeholder for an absent quantity`,
}

var qtyParseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Parse quantity text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f := quantity.Formatter{Placeholder: cfg.Quantity.Placeholder}
		return runQtyParse(cmd.OutOrStdout(), f, strings.Join(args, " "), display.ShouldOutputJSON(cmd))
	},
}

var qtyFormatCmd = &cobra.Command{
	Use:   "format [numerator] [denominator]",
	Short: "Render a fraction for display",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f := quantity.Formatter{Placeholder: cfg.Quantity.Placeholder}
		return runQtyFormat(cmd.OutOrStdout(), f, args)
	},
}

func init() {
	QtyCmd.AddCommand(qtyParseCmd)
	QtyCmd.AddCommand(qtyFormatCmd)
}

// parsedQuantity is the JSON form of qty parse
type parsedQuantity struct {
	Input       string `json:"input"`
	Absent      bool   `json:"absent,omitempty"`
	Numerator   *int64 `json:"numerator,omitempty"`
	Denominator *int64 `json:"denominator,omitempty"`
	Display     string `json:"display"`
}

func runQtyParse(w io.Writer, f quantity.Formatter, text string, asJSON bool) error {
	out := parsedQuantity{Input: text}
	if strings.TrimSpace(text) == "" {
		out.Absent = true
		out.Display = f.Format(nil)
	} else {
		q, err := quantity.Parse(text)
		if err != nil {
			return errors.WithHintf(err, "quantities look like %s", quantity.AcceptedForms)
		}
		num, den := q.Num(), q.Den()
		out.Numerator, out.Denominator = &num, &den
		out.Display = f.Format(&q)
	}

	if asJSON {
		return display.OutputJSON(w, out)
	}
	if out.Absent {
		fmt.Fprintln(w, out.Display, pterm.Gray("(absent)"))
		return nil
	}
	fmt.Fprintln(w, out.Display, pterm.Gray(fmt.Sprintf("(%d/%d)", *out.Numerator, *out.Denominator)))
	return nil
}

func runQtyFormat(w io.Writer, f quantity.Formatter, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(w, f.Format(nil))
		return nil
	}

	num, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.NewInvalidRequestf("numerator must be an integer, got %q", args[0])
	}
	den := int64(1)
	if len(args) == 2 {
		if den, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return errors.NewInvalidRequestf("denominator must be an integer, got %q", args[1])
		}
	}

	q, err := quantity.New(num, den)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, f.Format(&q))
	return nil
}
