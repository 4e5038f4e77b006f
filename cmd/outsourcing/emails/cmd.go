package emails

import (
	"context"
	"fmt"
	"io"
	"strings"

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
	Use: "find-emails",

	Short: "Looks up contact emails for leads that have none.",

	Example: `
  outsourcing find-emails
  outsourcing find-emails --in leads/watchlist.csv --write`,

	Run: func(cmd *cobra.Command, args []string) {
		a, err := app.Load(cmd, config.HarmonicAPIKey)
		if err != nil {
			app.Exit(cmd, err)
		}

		path := viper.GetString("emails.in")
		write := viper.GetBool("emails.write")

		if err := run(cmd.Context(), cmd.OutOrStdout(), a.Harmonic, path, write); err != nil {
			app.Exit(cmd, err)
		}
	},
}

// Harmonic is the part of the Harmonic API the command uses.
type Harmonic interface {
	Company(ctx context.Context, urn string) (*harmonic.Company, error)
	Person(ctx context.Context, urn string) (*harmonic.Person, error)
}

// Result is the outcome of the lookup for one lead.
type Result struct {
	Lead      *leads.Lead
	Domain    string
	BestEmail string
	BestName  string
	All       []string
}

var rule = strings.Repeat("=", 80)

// lookup collects the emails of a company's current people.
func lookup(ctx context.Context, w io.Writer, h Harmonic, l *leads.Lead) *Result {
	fmt.Fprintf(w, "\n%s\n  CEO: %s\n", l.CompanyName, l.CEOName)

	c, err := h.Company(ctx, l.CompanyURN)
	if err != nil {
		log.Warn().Err(err).Str("company", l.CompanyName).Msg("company lookup failed")
		c = &harmonic.Company{}
	}

	companyEmail := contacts.CompanyEmail(c)
	domain := c.Domain()

	fmt.Fprintf(w, "  Website: %s\n  Domain: %s\n  Contact email: %s\n", c.Website.URL, domain, companyEmail)

	var found []contacts.Found

	for i := range c.People {
		pos := &c.People[i]

		urn := pos.URN()
		if urn == "" || !pos.IsCurrentPosition {
			continue
		}

		p, err := h.Person(ctx, urn)
		if err != nil {
			log.Warn().Err(err).Str("person", urn).Msg("person lookup failed")
			continue
		}

		for _, e := range p.Emails {
			if addr := strings.TrimSpace(string(e)); addr != "" {
				found = append(found, contacts.Found{Name: p.DisplayName(), Title: pos.Title, Email: addr})
			}
		}
	}

	if len(found) > 0 {
		fmt.Fprintln(w, "  People with emails:")
		for _, f := range found {
			fmt.Fprintf(w, "    - %s (%s): %s\n", f.Name, f.Title, f.Email)
		}
	} else {
		fmt.Fprintln(w, "  No people with emails found")
	}

	r := &Result{Lead: l, Domain: domain}
	r.BestEmail, r.BestName = contacts.BestEmail(companyEmail, l.CEOName, found)

	for _, f := range found {
		r.All = append(r.All, f.Email)
	}

	return r
}

// Find looks up every lead without an email.
func Find(ctx context.Context, w io.Writer, h Harmonic, all leads.Leads) []*Result {
	missing := all.WithoutEmail()

	fmt.Fprintf(w, "Found %d companies without emails\n\n%s\n", len(missing), rule)

	results := make([]*Result, 0, len(missing))
	for _, l := range missing {
		results = append(results, lookup(ctx, w, h, l))
	}

	return results
}

// Report prints the summary of a lookup and returns the number of leads an
// email was found for.
func Report(w io.Writer, results []*Result) int {
	fmt.Fprintf(w, "\n%s\n\nSUMMARY - Companies without emails:\n%s\n", rule, rule)

	var found int

	for _, r := range results {
		if r.BestEmail != "" {
			found++
			fmt.Fprintf(w, "%s %s (%s)\n   -> %s: %s\n", app.Bold("✓"), r.Lead.CompanyName, r.Domain, r.BestName, r.BestEmail)
		} else {
			fmt.Fprintf(w, "%s %s (%s)\n   -> CEO: %s - NO EMAIL FOUND\n", app.Fail("✗"), r.Lead.CompanyName, r.Domain, r.Lead.CEOName)
		}

		if len(r.All) > 0 {
			fmt.Fprintf(w, "   All emails: %s\n", strings.Join(r.All, ", "))
		}
	}

	fmt.Fprintf(w, "\n%s\nFound emails for %d/%d companies\nStill missing: %d\n", rule, found, len(results), len(results)-found)

	return found
}

func run(ctx context.Context, w io.Writer, h Harmonic, path string, write bool) error {
	all, err := leads.ReadFile(path)
	if err != nil {
		return err
	}

	results := Find(ctx, w, h, all)

	if Report(w, results) == 0 || !write {
		return nil
	}

	for _, r := range results {
		if r.BestEmail == "" {
			continue
		}

		r.Lead.Email = r.BestEmail
		if r.BestName != "" && r.BestName != r.Lead.CEOName {
			r.Lead.CEOName = r.BestName
			r.Lead.FirstName = match.FirstName(r.BestName)
		}
	}

	if err := leads.WriteFile(path, all); err != nil {
		return err
	}

	fmt.Fprintf(w, "Updated %s\n", path)

	return nil
}

func init() {
	flags := Cmd.Flags()

	flags.String("in", "lemlist_leads.csv", "Path of the leads file to read.")
	flags.Bool("write", false, "Saves the emails that were found back to the leads file.")

	viper.BindPFlag("emails.in", flags.Lookup("in"))
	viper.BindPFlag("emails.write", flags.Lookup("write"))
}
