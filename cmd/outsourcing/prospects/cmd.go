package prospects

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/contacts"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

var Cmd = &cobra.Command{
	Use: "prospects",

	Short: "Writes a leads file with the CEO or founder of every company in the Harmonic watchlist.",

	Example: `
  outsourcing prospects
  outsourcing prospects --out leads/watchlist.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.Load(cmd, config.HarmonicAPIKey, config.WatchlistURN)
		if err != nil {
			app.Exit(cmd, err)
		}

		path := viper.GetString("prospects.out")

		if err := run(cmd.Context(), cmd.OutOrStdout(), a.Harmonic, a.Env.WatchlistURN, path); err != nil {
			app.Exit(cmd, err)
		}
	},
}

// Harmonic is the part of the Harmonic API the command uses.
type Harmonic interface {
	WatchlistCompanyURNs(ctx context.Context, watchlistURN string) ([]string, error)
	Companies(ctx context.Context, urns []string) ([]*harmonic.Company, error)
	Persons(ctx context.Context, urns []string) (map[string]*harmonic.Person, error)
}

// Build returns one lead per watchlist company, in watchlist order.
func Build(ctx context.Context, w io.Writer, h Harmonic, watchlistURN string) (leads.Leads, error) {
	urns, err := h.WatchlistCompanyURNs(ctx, watchlistURN)
	if err != nil {
		return nil, fmt.Errorf("reading watchlist: %w", err)
	}
	fmt.Fprintf(w, "Found %d company URNs in watchlist\n", len(urns))

	companies, err := h.Companies(ctx, urns)
	if err != nil {
		return nil, fmt.Errorf("fetching companies: %w", err)
	}
	fmt.Fprintf(w, "Fetched %d company records\n", len(companies))

	byURN := make(map[string]*harmonic.Company, len(companies))
	for _, c := range companies {
		if urn := c.URN(); urn != "" {
			byURN[urn] = c
		}
	}

	candidates := make(map[string][]contacts.Candidate, len(urns))

	var personURNs []string
	seen := make(map[string]bool)

	for _, urn := range urns {
		c, ok := byURN[urn]
		if !ok {
			log.Warn().Str("urn", urn).Msg("company missing from batch response")
			continue
		}

		candidates[urn] = contacts.Candidates(c)

		for _, cand := range candidates[urn] {
			if !seen[cand.URN] {
				seen[cand.URN] = true
				personURNs = append(personURNs, cand.URN)
			}
		}
	}
	fmt.Fprintf(w, "Found %d total person URNs to fetch\n", len(personURNs))

	people := map[string]*harmonic.Person{}
	if len(personURNs) > 0 {
		if people, err = h.Persons(ctx, personURNs); err != nil {
			return nil, fmt.Errorf("fetching persons: %w", err)
		}
	}
	fmt.Fprintf(w, "Fetched %d person records\n", len(people))

	out := make(leads.Leads, 0, len(urns))

	for _, urn := range urns {
		c, ok := byURN[urn]
		if !ok {
			c = &harmonic.Company{}
		}

		choice := contacts.ChooseLead(c, candidates[urn], people)

		out = append(out, &leads.Lead{
			CompanyName: match.CleanCompanyName(c.Name),
			FirstName:   choice.FirstName,
			Email:       choice.Email,
			CompanyURN:  urn,
			CEOName:     choice.Name,
		})
	}

	return out, nil
}

func run(ctx context.Context, w io.Writer, h Harmonic, watchlistURN, path string) error {
	out, err := Build(ctx, w, h, watchlistURN)
	if err != nil {
		return err
	}

	if err := leads.WriteFile(path, out); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s with %d rows\n", path, len(out))

	if missing := len(out.WithoutEmail()); missing > 0 {
		fmt.Fprintf(w, "%s %d leads have no email; run find-emails to look them up\n", app.Warn("Note:"), missing)
	}

	return nil
}

func init() {
	flags := Cmd.Flags()

	flags.String("out", "lemlist_leads.csv", "Path of the leads file to write.")

	viper.BindPFlag("prospects.out", flags.Lookup("out"))
}
