// Package names cleans the company names in the first column of the
// spreadsheet.
package names

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

// Update is a cleaned company name. Row is the 1-based sheet row.
type Update struct {
	Row      int
	Old, New string
}

// Plan returns the rows of the first column whose name changes when
// cleaned. The header row is skipped.
func Plan(values [][]string) []Update {
	var out []Update

	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}

		name := row[0]
		if strings.TrimSpace(name) == "" {
			continue
		}

		if clean := match.CleanSheetName(name); clean != name {
			out = append(out, Update{Row: i + 1, Old: name, New: clean})
		}
	}

	return out
}

// Apply writes each cleaned name to its cell.
func Apply(ctx context.Context, sheet leads.Sheet, updates []Update) error {
	for _, u := range updates {
		if err := sheet.Update(ctx, fmt.Sprintf("A%d", u.Row), [][]string{{u.New}}); err != nil {
			return fmt.Errorf("updating row %d: %w", u.Row, err)
		}
	}
	return nil
}

func run(ctx context.Context, w io.Writer, sheet leads.Sheet, dryRun bool) error {
	values, err := sheet.Values(ctx)
	if err != nil {
		return err
	}

	updates := Plan(values)

	for _, u := range updates {
		fmt.Fprintf(w, "  Row %d: %q -> %q\n", u.Row, u.Old, u.New)
	}

	if len(updates) == 0 {
		fmt.Fprintln(w, "All company names are already clean")
		return nil
	}

	if dryRun {
		fmt.Fprintf(w, "\nDry run, %d company names were not updated\n", len(updates))
		return nil
	}

	if err := Apply(ctx, sheet, updates); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nUpdated %d company names\n", len(updates))
	return nil
}

var Cmd = &cobra.Command{
	Use: "clean-names",

	Short: "Strips batch tags, symbols and legal suffixes from the spreadsheet company names.",

	Example: `
  outsourcing clean-names --dryrun`,

	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.Load(cmd, config.SpreadsheetID, config.CredentialsFile)
		if err != nil {
			app.Exit(cmd, err)
		}

		sheet, err := a.Sheet(cmd.Context())
		if err != nil {
			app.Exit(cmd, err)
		}

		if err := run(cmd.Context(), cmd.OutOrStdout(), sheet, viper.GetBool("names.dryrun")); err != nil {
			app.Exit(cmd, err)
		}
	},
}

func init() {
	flags := Cmd.Flags()
	flags.Bool("dryrun", false, "Prints the changes without updating the spreadsheet.")
	viper.BindPFlag("names.dryrun", flags.Lookup("dryrun"))
}
