package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/leads"
)

// Columns maintained by Check.
const (
	InAffinityCol        = "In Affinity"
	ListNameCol          = "Affinity List Name"
	OrgIDCol             = "Affinity Org ID"
	ContactedCol         = "Contacted"
	ContactedEvidenceCol = "Contacted Evidence"
	LastCheckedCol       = "Last Checked"
)

// CheckStats counts the outcome of Check.
type CheckStats struct {
	Rows      int
	OnList    int
	Contacted int
}

// Check annotates every row of the sheet in place with its sourcing list
// membership. Existing columns are kept and the status columns are added
// when missing. Rows whose lookup fails keep their previous values.
func (c *Checker) Check(ctx context.Context, t *leads.Table) (*CheckStats, error) {
	if t.Col("companyName") < 0 {
		return nil, fmt.Errorf("'companyName' column not found")
	}

	for _, col := range []string{InAffinityCol, ListNameCol, OrgIDCol, ContactedCol, ContactedEvidenceCol, LastCheckedCol} {
		t.EnsureColumn(col)
	}

	c.printf("\nChecking %d companies against Affinity '%s'...\n", t.Len(), c.Settings.TargetList())

	stats := &CheckStats{Rows: t.Len()}

	for i := 0; i < t.Len(); i++ {
		name := t.Get(i, "companyName")

		set := func(in, list, id, contacted, evidence string) {
			t.Set(i, InAffinityCol, in)
			t.Set(i, ListNameCol, list)
			t.Set(i, OrgIDCol, id)
			t.Set(i, ContactedCol, contacted)
			t.Set(i, ContactedEvidenceCol, evidence)
		}

		org, err := c.find(ctx, name, rowDomain(t, i))

		var (
			entry    *affinity.ListEntry
			progress string
		)

		if err == nil && org != nil {
			entry, err = c.entry(ctx, org)
		}

		switch {
		case err != nil:
			log.Error().Err(err).Str("company", name).Msg("affinity lookup failed")
			progress = app.Fail("Failed")
		case org == nil:
			set("No", "", "", "Unknown", "Not found in Affinity")
			progress = app.Fail("Not found")
		case entry != nil:
			set("Yes", c.Settings.TargetList(), affinity.Itoa(org.ID), "Check list", "See Responded? field in Affinity")
			progress = app.Bold(fmt.Sprintf("In '%s'", c.Settings.TargetList()))
			stats.OnList++
		default:
			set("No", "", affinity.Itoa(org.ID), "Not tracked", "Exists in Affinity, not on any list")
			progress = app.Warn("In Affinity DB, not on list")
		}

		if err == nil {
			t.Set(i, LastCheckedCol, c.timestamp())
		}

		if strings.EqualFold(t.Get(i, ContactedCol), "yes") {
			stats.Contacted++
		}

		app.Progress(c.Out, i+1, t.Len(), name, progress)
	}

	return stats, nil
}
