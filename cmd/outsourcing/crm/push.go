package crm

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

// PushHeader returns the columns written by Push.
func (c *Checker) PushHeader() []string {
	return []string{
		"companyName", "firstName", "email", "ceoName", "domain",
		"On " + c.Settings.TargetList(), "Affinity Status", "Contacted?", "Responded?",
		"Comments", "Last Checked",
	}
}

const noInteractions = "No interactions recorded"

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Push builds the outreach sheet from a leads file: every lead with its
// sourcing list status and the latest interactions.
func (c *Checker) Push(ctx context.Context, all leads.Leads) *leads.Table {
	t := &leads.Table{Header: c.PushHeader()}

	c.printf("\nProcessing %d companies...\n", len(all))

	var onList int

	for i, l := range all {
		domain := match.EmailDomain(l.Email)

		var (
			on                           bool
			status, contacted, responded string
			progress                     string
		)

		note := noInteractions

		org, err := c.find(ctx, l.CompanyName, domain)

		switch {
		case err != nil:
			log.Error().Err(err).Str("company", l.CompanyName).Msg("organization search failed")
			progress = app.Fail("Failed")
		case org == nil:
			progress = app.Fail("Not found")
		default:
			entry, err := c.entry(ctx, org)
			if err != nil {
				log.Error().Err(err).Int64("org", org.ID).Msg("fetching organization failed")
				progress = app.Fail("Failed")
				break
			}

			if entry == nil {
				progress = app.Warn("Not on list")
				break
			}

			on = true
			onList++
			progress = app.Bold(fmt.Sprintf("In '%s'", c.Settings.TargetList()))

			status, contacted, responded = c.namedValues(ctx, entry.ID)
			note = c.recentInteractions(ctx, org.ID)
		}

		app.Progress(c.Out, i+1, len(all), l.CompanyName, progress)

		t.Append([]string{
			l.CompanyName, l.FirstName, l.Email, l.CEOName, domain,
			yesNo(on), status, contacted, responded,
			note, c.timestamp(),
		})
	}

	c.printf("\nOn '%s': %d/%d\n", c.Settings.TargetList(), onList, len(all))

	return t
}

// entry returns the organization's sourcing list entry, or nil.
func (c *Checker) entry(ctx context.Context, org *affinity.Organization) (*affinity.ListEntry, error) {
	d, err := c.detail(ctx, org)
	if err != nil {
		return nil, err
	}
	if e, ok := d.Entry(c.Settings.TargetListID); ok {
		return e, nil
	}
	return nil, nil
}

// fieldNames returns the names of the sourcing list fields, fetched once.
func (c *Checker) fieldNames(ctx context.Context) (map[int64]string, error) {
	if c.fields != nil {
		return c.fields, nil
	}

	fields, err := c.Affinity.Fields(ctx, c.Settings.TargetListID)
	if err != nil {
		return nil, err
	}

	c.fields = make(map[int64]string, len(fields))
	for _, f := range fields {
		c.fields[f.ID] = strings.ToLower(f.Name)
	}

	return c.fields, nil
}

// namedValues reads the status, contacted and responded fields by name.
func (c *Checker) namedValues(ctx context.Context, entryID int64) (status, contacted, responded string) {
	names, err := c.fieldNames(ctx)
	if err != nil {
		log.Warn().Err(err).Int64("list", c.Settings.TargetListID).Msg("reading list fields failed")
		return
	}

	values, err := c.Affinity.FieldValues(ctx, entryID)
	if err != nil {
		log.Warn().Err(err).Int64("entry", entryID).Msg("reading field values failed")
		return
	}

	for _, fv := range values {
		name := names[fv.FieldID]

		switch {
		case strings.Contains(name, "status"):
			status = fv.Value.Text()
		case strings.Contains(name, "contacted") && strings.Contains(name, "?"):
			contacted = yesNo(fv.Value.Truthy())
		case strings.Contains(name, "responded"):
			responded = yesNo(fv.Value.Truthy())
		}
	}

	return
}

// recentInteractions summarizes the five latest interactions.
func (c *Checker) recentInteractions(ctx context.Context, orgID int64) string {
	items, err := c.Affinity.Interactions(ctx, orgID, 50)
	if err != nil {
		log.Warn().Err(err).Int64("org", orgID).Msg("reading interactions failed")
		return noInteractions
	}

	if len(items) > 5 {
		items = items[:5]
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s %s: %s", it.Day(), it.Type, match.Truncate(it.Subject, 50)))
	}

	if len(parts) == 0 {
		return noInteractions
	}

	return strings.Join(parts, " | ")
}

// AnalyzeHeader returns the columns written by Analyze.
func (c *Checker) AnalyzeHeader() []string {
	return []string{
		"companyName", "firstName", "email", "ceoName", "domain",
		"Found in Affinity", "Affinity Org ID",
		"On " + c.Settings.TargetList(), "Status", "Responded?", "Outreach History",
		"Other Affinity Lists",
		"Total Notes", "Latest Note Date", "Latest Note Preview",
		"All Activity Dates",
		"Activity Timeline",
		"Relationship Summary", "Last Checked",
	}
}

// AnalyzeStats counts the relationships found by Analyze.
type AnalyzeStats struct {
	Total     int
	Found     int
	OnList    int
	Passed    int
	Responded int
	HasNotes  int
}

// notResponded are responded values that do not count as a response.
var notResponded = map[string]bool{"": true, "no": true, "not contacted": true, "new": true}

// Relationship is everything Affinity knows about one company.
type Relationship struct {
	Org    *affinity.Organization
	OnList bool
	Values EntryValues
	Others []string
	Notes  []affinity.Note
}

// Summary describes the relationship in one line.
func (r *Relationship) Summary(listName string) string {
	if r.Org == nil {
		return "No prior relationship"
	}

	var parts []string

	if r.OnList {
		parts = append(parts, "On "+listName)
		if r.Values.Status != "" {
			parts = append(parts, "Status: "+r.Values.Status)
		}
		if r.Values.Responded != "" {
			parts = append(parts, "Responded: "+r.Values.Responded)
		}
		if r.Values.Outreach != "" {
			parts = append(parts, "Outreach: "+r.Values.Outreach)
		}
	}

	if len(r.Others) > 0 {
		parts = append(parts, "Also on: "+strings.Join(r.Others, ", "))
	}

	if len(r.Notes) > 0 {
		parts = append(parts, fmt.Sprintf("%d notes (latest: %s)", len(r.Notes), r.Notes[0].Date()))
	}

	if len(parts) == 0 {
		return "In Affinity DB, no tracked activity"
	}

	return strings.Join(parts, " | ")
}

// relationship gathers the lists, sourcing fields and notes of an
// organization. Notes are sorted newest first.
func (c *Checker) relationship(ctx context.Context, org *affinity.Organization, pageSize int) (*Relationship, error) {
	r := &Relationship{Org: org}

	d, err := c.detail(ctx, org)
	if err != nil {
		return nil, err
	}

	var sourcing *affinity.ListEntry

	for i := range d.ListEntries {
		e := &d.ListEntries[i]
		if e.ListID == c.Settings.TargetListID {
			r.OnList = true
			sourcing = e
			continue
		}
		r.Others = append(r.Others, c.Settings.ListName(e.ListID))
	}

	if sourcing != nil {
		if r.Values, err = c.entryValues(ctx, sourcing.ID); err != nil {
			return nil, err
		}
	}

	if r.Notes, err = c.Affinity.Notes(ctx, org.ID, pageSize); err != nil {
		return nil, err
	}

	sort.SliceStable(r.Notes, func(i, j int) bool {
		return r.Notes[i].CreatedAt > r.Notes[j].CreatedAt
	})

	return r, nil
}

// Analyze builds the relationship sheet from a leads file, including each
// company's activity timeline.
func (c *Checker) Analyze(ctx context.Context, all leads.Leads) (*leads.Table, *AnalyzeStats) {
	t := &leads.Table{Header: c.AnalyzeHeader()}
	stats := &AnalyzeStats{Total: len(all)}

	c.printf("\nAnalyzing %d companies with activity timeline...\n", len(all))

	for i, l := range all {
		domain := match.EmailDomain(l.Email)

		r := &Relationship{}
		progress := app.Fail("Not found")

		org, err := c.find(ctx, l.CompanyName, domain)
		if err == nil && org != nil {
			r, err = c.relationship(ctx, org, 50)
		}

		if err != nil {
			log.Error().Err(err).Str("company", l.CompanyName).Msg("affinity lookup failed")
			progress = app.Fail("Failed")
			r = &Relationship{}
		}

		row := []string{
			l.CompanyName, l.FirstName, l.Email, l.CEOName, domain,
			"No", "",
			"No", "", "", "",
			"",
			"0", "", "",
			"",
			"",
			r.Summary(c.Settings.TargetList()), c.timestamp(),
		}

		if r.Org != nil {
			stats.Found++

			row[5], row[6] = "Yes", strconv.FormatInt(r.Org.ID, 10)
			row[7] = yesNo(r.OnList)
			row[8], row[9], row[10] = r.Values.Status, r.Values.Responded, r.Values.Outreach
			row[11] = strings.Join(r.Others, ", ")
			row[12] = strconv.Itoa(len(r.Notes))

			if r.OnList {
				stats.OnList++
			}
			if strings.EqualFold(r.Values.Status, "passed") {
				stats.Passed++
			}
			if !notResponded[strings.ToLower(r.Values.Responded)] {
				stats.Responded++
			}

			if len(r.Notes) > 0 {
				stats.HasNotes++

				row[13] = r.Notes[0].Date()
				row[14] = match.Truncate(r.Notes[0].Body(), 150)

				var dates, timeline []string
				for j, n := range r.Notes {
					if n.CreatedAt != "" {
						dates = append(dates, n.Date())
					}
					if j < 10 {
						timeline = append(timeline, fmt.Sprintf("[%s] %s", n.Date(), match.Truncate(n.Body(), 120)))
					}
				}

				row[15] = strings.Join(dates, ", ")
				row[16] = strings.Join(timeline, " || ")
			}

			progress = c.relationshipStatus(r)
		}

		app.Progress(c.Out, i+1, len(all), l.CompanyName, progress)

		t.Append(row)
	}

	return t, stats
}

func (c *Checker) relationshipStatus(r *Relationship) string {
	icon := app.Warn("⊘")
	if r.OnList {
		icon = app.Bold("✓")
	}

	var status string
	if r.Values.Status != "" {
		status = " [" + r.Values.Status + "]"
	}

	notes := "no notes"
	if len(r.Notes) > 0 {
		notes = fmt.Sprintf("%d notes", len(r.Notes))
	}

	return fmt.Sprintf("%s%s %s", icon, status, notes)
}

// PrintAnalyzeSummary prints the counts of an analysis.
func (c *Checker) PrintAnalyzeSummary(stats *AnalyzeStats) {
	app.Summary(c.Out, fmt.Sprintf("ANALYSIS COMPLETE - %d companies", stats.Total),
		app.Count{Label: "Found in Affinity", N: stats.Found},
		app.Count{Label: "On " + c.Settings.TargetList(), N: stats.OnList},
		app.Count{Label: "Status = Passed", N: stats.Passed},
		app.Count{Label: "Have responded", N: stats.Responded},
		app.Count{Label: "Have activity notes", N: stats.HasNotes},
		app.Count{Label: "Net new (not in Affinity)", N: stats.Total - stats.Found},
	)
}
