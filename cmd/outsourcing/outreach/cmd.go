package outreach

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/clients/lemlist"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

var Cmd = &cobra.Command{
	Use: "add-to-lemlist",

	Short: "Adds the leads in the spreadsheet to the Lemlist campaign.",

	Example: `
  outsourcing add-to-lemlist
  outsourcing add-to-lemlist --dryrun
  outsourcing add-to-lemlist --csv lemlist_leads.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		csvPath := viper.GetString("outreach.csv")
		dryRun := viper.GetBool("outreach.dryrun")

		required := []string{config.LemlistAPIKey, config.LemlistCampaignID}
		if csvPath == "" {
			required = append(required, config.SpreadsheetID, config.CredentialsFile)
		}

		a, err := app.Load(cmd, required...)
		if err != nil {
			app.Exit(cmd, err)
		}

		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		var all leads.Leads

		if csvPath != "" {
			all, err = leads.ReadFile(csvPath)
		} else {
			fmt.Fprintln(w, "Reading spreadsheet...")
			all, err = readSheet(ctx, a)
		}
		if err != nil {
			app.Exit(cmd, err)
		}

		var l Lemlist = a.Lemlist
		if dryRun {
			l = nil
		}

		Run(ctx, w, l, a.Env.LemlistCampaignID, all)
	},
}

func readSheet(ctx context.Context, a *app.App) (leads.Leads, error) {
	sheet, err := a.Sheet(ctx)
	if err != nil {
		return nil, err
	}

	t, err := leads.ReadTable(ctx, sheet)
	if err != nil {
		return nil, err
	}

	all := make(leads.Leads, t.Len())
	for i := range all {
		all[i] = t.Lead(i)
	}

	return all, nil
}

// Lemlist is the part of the Lemlist API the command uses.
type Lemlist interface {
	AddLead(ctx context.Context, campaignID string, lead lemlist.Lead) (lemlist.Outcome, error)
}

// Stats counts the outcome of a run.
type Stats struct {
	Empty         int
	NoEmail       []string
	Added         int
	AlreadyExists int
	Failed        int
}

// Select drops rows without a company name and rows without an email.
func Select(all leads.Leads, stats *Stats) leads.Leads {
	var out leads.Leads

	for _, l := range all {
		switch {
		case strings.TrimSpace(l.CompanyName) == "":
			stats.Empty++
		case !l.HasEmail():
			stats.NoEmail = append(stats.NoEmail, l.CompanyName)
		default:
			out = append(out, l)
		}
	}

	return out
}

// Run adds every selectable lead to the campaign. A nil client only prints
// the leads that would be added.
func Run(ctx context.Context, w io.Writer, l Lemlist, campaignID string, all leads.Leads) *Stats {
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(w, "%s\nAdding leads to Lemlist campaign %s\n%s\n", rule, campaignID, rule)

	stats := &Stats{}
	selected := Select(all, stats)

	fmt.Fprintf(w, "  Total rows: %d\n", len(all))
	fmt.Fprintf(w, "  Cleared (empty): %d\n", stats.Empty)
	fmt.Fprintf(w, "  Skipped (no email): %d\n", len(stats.NoEmail))
	for _, name := range stats.NoEmail {
		fmt.Fprintf(w, "    - %s\n", name)
	}
	fmt.Fprintf(w, "  Leads to add: %d\n", len(selected))

	if l == nil {
		fmt.Fprintln(w, "\nDry run, nothing was added:")
		for _, x := range selected {
			fmt.Fprintf(w, "  %s <%s> at %s\n", x.FirstName, x.Email, x.CompanyName)
		}
		return stats
	}

	fmt.Fprintf(w, "\nAdding %d leads to Lemlist...\n", len(selected))

	for i, x := range selected {
		outcome, err := l.AddLead(ctx, campaignID, lemlist.Lead{
			Email:       x.Email,
			FirstName:   x.FirstName,
			CompanyName: x.CompanyName,
		})

		name := fmt.Sprintf("%s (%s)", x.CompanyName, x.Email)

		switch {
		case err != nil:
			stats.Failed++
			log.Error().Err(err).Str("company", x.CompanyName).Msg("adding lead failed")
			app.Progress(w, i+1, len(selected), name, app.Fail("Failed ("+match.Truncate(err.Error(), 80)+")"))
		case outcome == lemlist.AlreadyExists:
			stats.AlreadyExists++
			app.Progress(w, i+1, len(selected), name, app.Warn("Already exists"))
		default:
			stats.Added++
			app.Progress(w, i+1, len(selected), name, app.Bold("Added"))
		}
	}

	app.Summary(w, "DONE",
		app.Count{Label: "Added", N: stats.Added},
		app.Count{Label: "Already existed", N: stats.AlreadyExists},
		app.Count{Label: "Failed", N: stats.Failed},
	)

	return stats
}

func init() {
	flags := Cmd.Flags()

	flags.Bool("dryrun", false, "Prints the leads that would be added without calling Lemlist.")
	flags.String("csv", "", "Reads leads from a CSV file instead of the spreadsheet.")

	viper.BindPFlag("outreach.dryrun", flags.Lookup("dryrun"))
	viper.BindPFlag("outreach.csv", flags.Lookup("csv"))
}
