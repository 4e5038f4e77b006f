package crm

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog/log"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/leads"
)

// Flagged is a company found on one or more flag lists.
type Flagged struct {
	Company string
	Lists   []string
}

// CheckLists reports the companies of the sheet that are on any of the
// configured flag lists, such as accelerator batches.
func (c *Checker) CheckLists(ctx context.Context, t *leads.Table) []Flagged {
	flags := mapset.NewThreadUnsafeSet[int64](c.Settings.FlagLists...)

	c.printf("Cross-checking %d companies against %d flag lists in Affinity...\n\n", t.Len(), flags.Cardinality())

	var flagged []Flagged

	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, "companyName")
		if name == "" {
			continue
		}

		org, err := c.find(ctx, name, rowDomain(t, i))
		if err == nil && org != nil {
			org, err = c.detail(ctx, org)
		}

		switch {
		case err != nil:
			log.Error().Err(err).Str("company", name).Msg("affinity lookup failed")
			app.Progress(c.Out, i+1, t.Len(), name, app.Fail("failed"))
			continue
		case org == nil:
			app.Progress(c.Out, i+1, t.Len(), name, "not in affinity")
			continue
		}

		var found []string
		for _, e := range org.ListEntries {
			if flags.Contains(e.ListID) {
				found = append(found, c.Settings.ListName(e.ListID))
			}
		}

		if len(found) == 0 {
			app.Progress(c.Out, i+1, t.Len(), name, app.Bold("clean"))
			continue
		}

		app.Progress(c.Out, i+1, t.Len(), name, app.Warn(strings.Join(found, "  ")))
		flagged = append(flagged, Flagged{Company: name, Lists: found})
	}

	rule := strings.Repeat("=", 60)
	c.printf("\n%s\n", rule)

	if len(flagged) == 0 {
		c.printf("No flagged companies found. All clean.\n%s\n", rule)
		return nil
	}

	c.printf("FOUND %d companies on flag lists:\n", len(flagged))

	rows := make([][]string, len(flagged))
	for i, f := range flagged {
		rows[i] = []string{f.Company, strings.Join(f.Lists, ", ")}
	}
	app.Table(c.Out, []string{"company", "lists"}, rows)

	return flagged
}
