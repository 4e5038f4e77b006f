package crm

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

// AddStats counts the outcome of adding companies to the sourcing list.
type AddStats struct {
	Added   int
	Already int
	Created int
	Failed  int
}

// AddAll puts every company of the table on the sourcing list, creating
// organizations that Affinity does not know yet. With dryRun nothing is
// created or added.
func (c *Checker) AddAll(ctx context.Context, t *leads.Table, dryRun bool) *AddStats {
	stats := &AddStats{}

	c.printf("Processing %d companies...\n\n", t.Len())

	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, "companyName")
		if name == "" {
			continue
		}

		status := c.add(ctx, name, rowDomain(t, i), dryRun, stats)
		app.Progress(c.Out, i+1, t.Len(), name, status)
	}

	app.Summary(c.Out, "DONE",
		app.Count{Label: "Added to " + c.Settings.TargetList(), N: stats.Added},
		app.Count{Label: "Already on list", N: stats.Already},
		app.Count{Label: "New orgs created", N: stats.Created},
		app.Count{Label: "Failed", N: stats.Failed},
	)

	return stats
}

func (c *Checker) add(ctx context.Context, name, domain string, dryRun bool, stats *AddStats) string {
	org, err := c.find(ctx, name, domain)
	if err != nil {
		stats.Failed++
		log.Error().Err(err).Str("company", name).Msg("organization search failed")
		return app.Fail("FAIL (search)")
	}

	var prefix []string

	if org == nil {
		if dryRun {
			stats.Created++
			return app.Warn("would create and add")
		}

		if org, err = c.Affinity.CreateOrganization(ctx, name, domain); err != nil {
			stats.Failed++
			log.Error().Err(err).Str("company", name).Msg("creating organization failed")
			return app.Fail("FAIL (create org: " + match.Truncate(err.Error(), 60) + ")")
		}

		stats.Created++
		prefix = append(prefix, "(new org)")
	}

	detail, err := c.detail(ctx, org)
	if err != nil {
		stats.Failed++
		log.Error().Err(err).Int64("org", org.ID).Msg("fetching organization failed")
		return app.Fail("FAIL (lookup)")
	}

	if _, ok := detail.Entry(c.Settings.TargetListID); ok {
		stats.Already++
		return strings.Join(append(prefix, "already on list"), " ")
	}

	if dryRun {
		stats.Added++
		return app.Warn("would add")
	}

	if _, err := c.Affinity.AddToList(ctx, c.Settings.TargetListID, org.ID); err != nil {
		stats.Failed++
		log.Error().Err(err).Int64("org", org.ID).Msg("adding list entry failed")
		return app.Fail("FAIL (add to list)")
	}

	stats.Added++
	return strings.Join(append(prefix, app.Bold("ADDED")), " ")
}
