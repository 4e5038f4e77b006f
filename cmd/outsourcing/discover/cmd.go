package discover

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/scoring"
)

// PrintSummary prints the closing counts of a run.
func PrintSummary(w io.Writer, p *scoring.Profile, res *Result) {
	n := len(res.Picks)

	if !p.FounderQuality {
		app.Summary(w, fmt.Sprintf("DONE! %d net-new startups about to raise", n),
			app.Count{Label: "Candidates after filter", N: res.Candidates},
			app.Count{Label: "Skipped (no CEO+email)", N: res.SkippedNoContact},
			app.Count{Label: "Skipped (in Affinity)", N: res.SkippedAffinity},
			app.Count{Label: "Failed", N: res.Failed},
		)
		return
	}

	var founder, raising float64
	var high int

	for _, pick := range res.Picks {
		founder += pick.Founder
		raising += pick.Raising
		if pick.Founder >= 30 {
			high++
		}
	}

	if n > 0 {
		founder /= float64(n)
		raising /= float64(n)
	}

	app.Summary(w, fmt.Sprintf("DONE! %d startups - high-quality founders raising now", n),
		app.Count{Label: "Avg Founder Quality Score", N: int(founder + 0.5)},
		app.Count{Label: "Avg Raising-Now Score", N: int(raising + 0.5)},
		app.Count{Label: "High-quality founders (30+)", N: high},
		app.Count{Label: "Skipped (no CEO+email)", N: res.SkippedNoContact},
		app.Count{Label: "Skipped (in Affinity)", N: res.SkippedAffinity},
		app.Count{Label: "Failed", N: res.Failed},
	)
}

var Cmd = &cobra.Command{
	Use: "discover",

	Short: "Finds net-new early stage startups in Harmonic and writes the best ranked to the spreadsheet.",

	Long: `Profiles:

  top       pre-seed and seed startups with 5+ highlights ranked by raise signals
  founders  pre-seed and seed startups with 8+ highlights ranked by raise
            signals and founder track record, one company per name`,

	Example: `
  outsourcing discover
  outsourcing discover --profile founders --limit 50 --dryrun`,

	Run: func(cmd *cobra.Command, args []string) {
		profile, err := scoring.LookupProfile(viper.GetString("discover.profile"))
		if err != nil {
			app.Exit(cmd, err)
		}

		a, err := app.Load(cmd, config.HarmonicAPIKey, config.AffinityAPIKey, config.AffinityListID, config.SpreadsheetID, config.CredentialsFile)
		if err != nil {
			app.Exit(cmd, err)
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		sheet, err := a.Sheet(ctx)
		if err != nil {
			app.Exit(cmd, err)
		}

		rule := strings.Repeat("=", 60)
		cmd.Printf("%s\nDiscover startups: %s\n%s\n\n", rule, profile.Description, rule)

		d := &Discoverer{
			Harmonic: a.Harmonic,
			Affinity: a.Affinity,
			Profile:  profile,
			ListID:   a.Env.AffinityListID,
			ListName: a.Env.Affinity.TargetList(),
			Limit:    viper.GetInt("discover.limit"),
			Out:      out,
		}

		res, err := d.Run(ctx)
		if err != nil {
			app.Exit(cmd, err)
		}

		if viper.GetBool("discover.dryrun") {
			app.Table(out, []string{"company", "contact", "email", "score"}, previewRows(res.Picks))
		} else {
			cmd.Printf("\nWriting to spreadsheet...\n")
			if err := leads.WriteTable(ctx, sheet, Table(profile, res.Picks)); err != nil {
				app.Exit(cmd, err)
			}
		}

		PrintSummary(out, profile, res)
		cmd.Printf("\nSpreadsheet: %s\n", sheet.URL())
	},
}

func previewRows(picks []*Pick) [][]string {
	rows := make([][]string, len(picks))
	for i, p := range picks {
		rows[i] = []string{p.Company.Name, p.CEOName, p.Email, fmt.Sprintf("%.0f", p.Total)}
	}
	return rows
}

func init() {
	flags := Cmd.Flags()
	flags.String("profile", "top", "Discovery profile: top or founders.")
	flags.Int("limit", 100, "Number of companies to keep.")
	flags.Bool("dryrun", false, "Prints the picks instead of writing the spreadsheet.")
	viper.BindPFlag("discover.profile", flags.Lookup("profile"))
	viper.BindPFlag("discover.limit", flags.Lookup("limit"))
	viper.BindPFlag("discover.dryrun", flags.Lookup("dryrun"))
}
