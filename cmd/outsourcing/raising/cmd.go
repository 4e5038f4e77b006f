package raising

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
)

// Run scans the list and returns its raising later companies with their
// latest notes.
func (f *Finder) Run(ctx context.Context, listID int64) ([]*Company, error) {
	f.printf("\nFetching all list entries...\n")

	entries, err := f.Affinity.ListEntries(ctx, listID)
	if err != nil {
		return nil, err
	}

	f.printf("  Total: %d entries\n", len(entries))

	companies, err := f.Scan(ctx, entries)
	if err != nil {
		return nil, err
	}

	f.printf("\nGetting notes...\n")
	f.AddNotes(ctx, companies)

	return companies, nil
}

var Cmd = &cobra.Command{
	Use: "raising-later",

	Short: "Writes the sourcing list companies marked as raising later to the spreadsheet.",

	Example: `
  outsourcing raising-later
  outsourcing raising-later --workers 10 --dryrun`,

	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.Load(cmd, config.AffinityAPIKey, config.AffinityListID, config.SpreadsheetID, config.CredentialsFile)
		if err != nil {
			app.Exit(cmd, err)
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		rule := strings.Repeat("=", 60)

		cmd.Printf("%s\nFind 'Raising Later' companies from the sourcing list\n%s\n", rule, rule)

		aff := a.Env.Affinity

		f := &Finder{
			Affinity:       a.Affinity,
			StatusField:    aff.StatusField,
			RespondedField: aff.RespondedField,
			OutreachField:  aff.OutreachField,
			Options:        mapset.NewSet[int64](aff.RaisingLaterOptions...),
			Workers:        viper.GetInt("raising.workers"),
			Out:            out,
		}

		sheet, err := a.Sheet(ctx)
		if err != nil {
			app.Exit(cmd, err)
		}

		companies, err := f.Run(ctx, a.Env.AffinityListID)
		if err != nil {
			app.Exit(cmd, err)
		}

		if viper.GetBool("raising.dryrun") {
			cmd.Printf("\nDry run, %d rows were not written to the spreadsheet.\n", len(companies))
		} else if err := leads.WriteTable(ctx, sheet, Table(companies)); err != nil {
			app.Exit(cmd, err)
		}

		var high int
		for _, c := range companies {
			if c.High() {
				high++
			}
		}

		app.Summary(out, fmt.Sprintf("DONE! %d 'Raising Later' companies", len(companies)),
			app.Count{Label: "High Priority", N: high},
			app.Count{Label: "Normal", N: len(companies) - high},
		)
		cmd.Printf("\nSpreadsheet: %s\n", sheet.URL())
	},
}

func init() {
	flags := Cmd.Flags()
	flags.Int("workers", 20, "Number of concurrent field value requests.")
	flags.Bool("dryrun", false, "Scans the list without writing the spreadsheet.")
	viper.BindPFlag("raising.workers", flags.Lookup("workers"))
	viper.BindPFlag("raising.dryrun", flags.Lookup("dryrun"))
}
