package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

// RecheckStats counts the relationships found by Recheck.
type RecheckStats struct {
	Total    int
	Found    int
	OnList   int
	HasNotes int
	Clean    int
	Failed   int
}

// lists names every list the organization is on, the sourcing list first.
func (c *Checker) lists(r *Relationship) []string {
	var out []string
	if r.OnList {
		out = append(out, c.Settings.TargetList())
	}
	return append(out, r.Others...)
}

// Recheck reports the Affinity relationship of every company in the sheet
// without changing anything.
func (c *Checker) Recheck(ctx context.Context, t *leads.Table) *RecheckStats {
	stats := &RecheckStats{Total: t.Len()}

	c.printf("\nChecking %d companies against Affinity...\n\n", t.Len())

	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, "companyName")
		if name == "" {
			continue
		}

		org, err := c.find(ctx, name, rowDomain(t, i))
		if err != nil {
			stats.Failed++
			log.Error().Err(err).Str("company", name).Msg("organization search failed")
			app.Progress(c.Out, i+1, t.Len(), name, app.Fail("Failed"))
			continue
		}

		if org == nil {
			stats.Clean++
			app.Progress(c.Out, i+1, t.Len(), name, app.Fail("✗ Not found"))
			continue
		}

		stats.Found++

		r, err := c.relationship(ctx, org, 50)
		if err != nil {
			stats.Failed++
			log.Error().Err(err).Int64("org", org.ID).Msg("affinity lookup failed")
			app.Progress(c.Out, i+1, t.Len(), name, app.Fail("Failed"))
			continue
		}

		if r.OnList {
			stats.OnList++
		}
		if len(r.Notes) > 0 {
			stats.HasNotes++
		}

		status := c.relationshipStatus(r)
		if lists := c.lists(r); len(lists) > 0 {
			status += " Lists: " + strings.Join(lists, ", ")
		}

		app.Progress(c.Out, i+1, t.Len(), name, status)
	}

	frac := func(n int) string { return fmt.Sprintf("%d/%d", n, stats.Total) }

	c.printf("\n%s\nAFFINITY CHECK COMPLETE - %d companies\n%s\n", strings.Repeat("=", 60), stats.Total, strings.Repeat("=", 60))
	c.printf("  Found in Affinity:         %s\n", frac(stats.Found))
	c.printf("  On %-23s %s\n", c.Settings.TargetList()+":", frac(stats.OnList))
	c.printf("  Have activity notes:       %s\n", frac(stats.HasNotes))
	c.printf("  Net new (not in Affinity): %s\n", frac(stats.Clean))

	return stats
}

// Activity prints the list memberships and recent notes of every company in
// the sheet and returns the companies already on the sourcing list.
func (c *Checker) Activity(ctx context.Context, t *leads.Table) []string {
	var (
		names, domains []string
		onList         []string
	)

	for i := 0; i < t.Len(); i++ {
		if name := t.Get(i, "companyName"); name != "" {
			names = append(names, name)
			domains = append(domains, rowDomain(t, i))
		}
	}

	rule := strings.Repeat("=", 80)

	c.printf("Checking %d companies in Affinity...\n\n%s\n", len(names), rule)

	for i, name := range names {
		c.printf("\n[%d/%d] %s (%s)\n%s\n", i+1, len(names), name, domains[i], strings.Repeat("-", 60))

		org, err := c.find(ctx, name, domains[i])
		if err != nil {
			log.Error().Err(err).Str("company", name).Msg("organization search failed")
			c.printf("  %s\n", app.Fail("LOOKUP FAILED"))
			continue
		}

		if org == nil {
			c.printf("  NOT IN AFFINITY - completely new\n")
			continue
		}

		c.printf("  Found: %s (ID: %d)\n", org.Name, org.ID)

		r, err := c.relationship(ctx, org, 20)
		if err != nil {
			log.Error().Err(err).Int64("org", org.ID).Msg("affinity lookup failed")
			c.printf("  %s\n", app.Fail("LOOKUP FAILED"))
			continue
		}

		if r.OnList {
			c.printf("  %s\n", app.Bold("*** ON "+strings.ToUpper(c.Settings.TargetList())+" ***"))
		}
		for _, other := range r.Others {
			c.printf("  On another Affinity list (%s)\n", other)
		}
		if !r.OnList && len(r.Others) == 0 {
			c.printf("  Not on any lists\n")
		}

		if len(r.Notes) == 0 {
			c.printf("  No activity/notes\n")
		} else {
			c.printf("  ACTIVITY FEED: %d item(s)\n", len(r.Notes))

			for j, n := range r.Notes {
				if j == 8 {
					break
				}

				kind := n.Type.String()
				if kind == "" {
					kind = "note"
				}

				c.printf("    [%s] %s by %s\n", n.Date(), kind, n.Creator.FullName())

				if content := match.Truncate(match.StripHTML(n.Body()), 200); content != "" {
					c.printf("      %s\n", content)
				}
			}
		}

		if r.OnList {
			onList = append(onList, name)
			c.printf("  %s\n", app.Warn(">>> ALREADY ON "+strings.ToUpper(c.Settings.TargetList())+" - REMOVE FROM OUTREACH <<<"))
		}
	}

	c.printf("\n%s\nDONE\n", rule)

	return onList
}
