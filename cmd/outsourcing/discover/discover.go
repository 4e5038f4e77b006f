// Package discover searches Harmonic for early stage companies, ranks them
// and keeps the ones the team has never been in touch with.
package discover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/contacts"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
	"github.com/tuvana1/outsourcing/scoring"
)

const searchPageSize = 200

// Harmonic is the part of the Harmonic API discovery uses.
type Harmonic interface {
	SearchAll(ctx context.Context, filters []harmonic.Filter, max, pageSize int) ([]string, error)
	Companies(ctx context.Context, urns []string) ([]*harmonic.Company, error)
	Persons(ctx context.Context, urns []string) (map[string]*harmonic.Person, error)
}

// Affinity is the part of the Affinity API discovery uses.
type Affinity interface {
	FindOrganization(ctx context.Context, name, domain string) (*affinity.Organization, error)
	PriorContact(ctx context.Context, orgID, targetList int64, targetName string) (bool, string, error)
}

// Pick is a ranked company with the person to contact.
type Pick struct {
	*scoring.Scored

	CEOName   string
	FirstName string
	Email     string
	CEOTitle  string
	Domain    string
}

// Result is the outcome of a discovery run.
type Result struct {
	Picks []*Pick

	Searched   int
	Fetched    int
	Candidates int
	Excluded   map[string]int

	SkippedNoContact int
	SkippedAffinity  int
	Failed           int
}

// Discoverer runs one profile end to end.
type Discoverer struct {
	Harmonic Harmonic
	Affinity Affinity
	Profile  *scoring.Profile

	// ListID and ListName identify the sourcing list.
	ListID   int64
	ListName string

	// Limit is the number of companies to keep.
	Limit int

	Out io.Writer
	Now func() time.Time
}

func (d *Discoverer) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.Out, format, args...)
}

func (d *Discoverer) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Run searches, filters, scores and checks companies until Limit picks are
// collected or the ranked candidates run out.
func (d *Discoverer) Run(ctx context.Context) (*Result, error) {
	p := d.Profile
	res := &Result{}

	d.printf("[1/4] Searching Harmonic (%s)...\n", p.Description)

	urns, err := d.Harmonic.SearchAll(ctx, p.Filters(), p.MaxURNs, searchPageSize)
	if err != nil {
		return nil, err
	}
	if len(urns) > p.MaxURNs {
		urns = urns[:p.MaxURNs]
	}
	res.Searched = len(urns)
	d.printf("  Total URNs: %d\n", len(urns))

	d.printf("\n[2/4] Fetching company details...\n")

	companies, err := d.Harmonic.Companies(ctx, urns)
	if err != nil {
		return nil, err
	}
	res.Fetched = len(companies)
	d.printf("  Got %d company records\n", len(companies))

	d.printf("\n[3/4] Filtering and scoring...\n")

	scored, excluded := p.Filter(companies, d.now())
	res.Excluded = excluded
	res.Candidates = len(scored)

	d.printf("  Excluded - country: %d, industry: %d, nonprofit: %d, consumer: %d, not startup: %d\n",
		excluded["country"], excluded["industry"], excluded["nonprofit"], excluded["consumer"], excluded["not startup"])
	d.printf("  Remaining candidates: %d\n", len(scored))

	if len(scored) > p.TopN {
		scored = scored[:p.TopN]
	}

	d.printf("\n[4/4] Getting CEO info and checking Affinity (top %d candidates)...\n", len(scored))

	candidates := make(map[string][]contacts.Candidate, len(scored))

	var personURNs []string
	seenPersons := mapset.NewThreadUnsafeSet[string]()

	for _, s := range scored {
		cands := contacts.TitleCandidates(s.Company)
		candidates[s.Company.URN()] = cands

		for _, c := range cands {
			if seenPersons.Add(c.URN) {
				personURNs = append(personURNs, c.URN)
			}
		}
	}

	d.printf("  Fetching %d person records...\n", len(personURNs))

	people := map[string]*harmonic.Person{}
	if len(personURNs) > 0 {
		if people, err = d.Harmonic.Persons(ctx, personURNs); err != nil {
			return nil, err
		}
	}

	seenNames := mapset.NewThreadUnsafeSet[string]()

	for _, s := range scored {
		if len(res.Picks) >= d.Limit {
			break
		}

		c := s.Company

		if p.DedupeNames && !seenNames.Add(match.NormalizeName(c.Name)) {
			continue
		}

		pick := contactPick(s, candidates[c.URN()], people)
		if pick == nil {
			res.SkippedNoContact++
			continue
		}

		status, keep := d.check(ctx, pick, res)

		app.Progress(d.Out, len(res.Picks)+1, d.Limit, fmt.Sprintf("%s (score=%.0f)", c.Name, s.Total), status)

		if keep {
			res.Picks = append(res.Picks, pick)
		}
	}

	d.printf("\n  Skipped (no CEO+email): %d\n", res.SkippedNoContact)
	d.printf("  Skipped (already in Affinity): %d\n", res.SkippedAffinity)
	d.printf("  Final list: %d\n", len(res.Picks))

	return res, nil
}

// contactPick returns the first candidate with both a name and an email.
func contactPick(s *scoring.Scored, cands []contacts.Candidate, people map[string]*harmonic.Person) *Pick {
	for _, cand := range cands {
		person, ok := people[cand.URN]
		if !ok {
			continue
		}

		email := contacts.PersonEmail(person)
		name := person.DisplayName()

		if email != "" && name != "" {
			return &Pick{
				Scored:    s,
				CEOName:   name,
				FirstName: match.FirstName(name),
				Email:     email,
				CEOTitle:  cand.Title,
				Domain:    s.Company.Domain(),
			}
		}
	}
	return nil
}

// check looks for a prior relationship in Affinity. Companies that cannot
// be checked are skipped.
func (d *Discoverer) check(ctx context.Context, pick *Pick, res *Result) (string, bool) {
	c := pick.Company

	org, err := d.Affinity.FindOrganization(ctx, c.Name, pick.Domain)
	switch {
	case errors.Is(err, affinity.ErrNotFound):
		return app.Bold("✓ Not in Affinity"), true
	case err != nil:
		res.Failed++
		log.Error().Err(err).Str("company", c.Name).Msg("organization search failed")
		return app.Fail("FAIL (search)"), false
	}

	prior, reason, err := d.Affinity.PriorContact(ctx, org.ID, d.ListID, d.ListName)
	if err != nil {
		res.Failed++
		log.Error().Err(err).Int64("org", org.ID).Msg("checking prior contact failed")
		return app.Fail("FAIL (lookup)"), false
	}

	if prior {
		res.SkippedAffinity++
		return app.Warn("SKIP (" + reason + ")"), false
	}

	return app.Bold("✓ No interactions"), true
}

// Header returns the sheet columns of the profile.
func Header(p *scoring.Profile) []string {
	if p.FounderQuality {
		return []string{
			"companyName", "firstName", "email", "ceoName", "ceoTitle", "domain",
			"Total Score", "Raising Score", "Founder Score", "Founder Signals",
			"Stage", "Funding Total", "Headcount",
			"HC Growth (6mo)", "Web Traffic", "WT Growth (6mo)",
			"LinkedIn", "LI Growth (6mo)",
			"Country", "City", "Customer Type",
			"Tags", "Founded", "Description",
		}
	}

	return []string{
		"companyName", "firstName", "email", "ceoName", "domain",
		"Raise Score", "Stage", "Funding Total", "Headcount",
		"Headcount Growth (6mo)", "Web Traffic", "Web Traffic Growth (6mo)",
		"LinkedIn Followers", "LinkedIn Growth (6mo)",
		"Country", "City", "Customer Type",
		"Tags", "Highlights", "Founded",
		"Description",
	}
}

func number(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%+.0f%%", v)
}

func headcountGrowth(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.0f", v)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func funding(v float64) string {
	if v == 0 {
		return "No funding"
	}
	return "$" + humanize.Comma(int64(v+0.5))
}

func founded(fd harmonic.FoundingDate) string {
	switch {
	case fd.Year == 0:
		return ""
	case fd.Month == 0:
		return strconv.Itoa(fd.Year)
	}
	return fmt.Sprintf("%d/%d", fd.Month, fd.Year)
}

func firstN(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func description(s string) string {
	r := []rune(s)
	if len(r) > 200 {
		r = r[:200]
	}
	return string(r)
}

// Row returns the sheet row of a pick under the profile.
func Row(p *scoring.Profile, pick *Pick) []string {
	c := pick.Company
	tm := &c.Traction

	tags := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = t.DisplayValue
	}

	highlights := make([]string, len(c.Highlights))
	for i, h := range c.Highlights {
		highlights[i] = h.Category
	}

	webTraffic := tm.WebTraffic.Latest
	if webTraffic == 0 {
		webTraffic = c.WebTraffic.Value
	}

	traction := []string{
		c.Stage, funding(c.Funding.FundingTotal), number(c.HeadcountValue()),
		headcountGrowth(tm.CorrectedHeadcount.Ago180.Change),
		number(webTraffic), percent(tm.WebTraffic.Ago180.PercentChange),
		number(tm.LinkedinFollowers.Latest), percent(tm.LinkedinFollowers.Ago180.PercentChange),
		c.Location.Country, c.Location.City, c.CustomerType,
		firstN(tags, 5),
	}

	if p.FounderQuality {
		row := []string{
			c.Name, pick.FirstName, pick.Email, pick.CEOName, pick.CEOTitle, pick.Domain,
			fmt.Sprintf("%.0f", pick.Total), fmt.Sprintf("%.0f", pick.Raising), fmt.Sprintf("%.0f", pick.Founder),
			strings.Join(pick.FounderSignals, ", "),
		}
		row = append(row, traction...)
		return append(row, founded(c.FoundingDate), description(c.Description))
	}

	row := []string{
		c.Name, pick.FirstName, pick.Email, pick.CEOName, pick.Domain,
		fmt.Sprintf("%.0f", pick.Total),
	}
	row = append(row, traction...)
	return append(row, firstN(highlights, 5), founded(c.FoundingDate), description(c.Description))
}

// Table returns the picks as a sheet.
func Table(p *scoring.Profile, picks []*Pick) *leads.Table {
	t := &leads.Table{Header: Header(p)}
	for _, pick := range picks {
		t.Append(Row(p, pick))
	}
	return t
}
