package discover

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvana1/outsourcing/clients/affinity/affinitytest"
	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/clients/harmonic/harmonictest"
	"github.com/tuvana1/outsourcing/scoring"
)

func company(id, name, website string, growth float64, people ...harmonic.Position) *harmonic.Company {
	c := &harmonic.Company{
		EntityURN:   "urn:harmonic:company:" + id,
		Name:        name,
		Website:     harmonic.Website{URL: website},
		CompanyType: "STARTUP",
		People:      people,
	}
	c.Traction.CorrectedHeadcount.Ago180.Change = growth
	return c
}

func ceo(id, title string) harmonic.Position {
	return harmonic.Position{Person: "urn:harmonic:person:" + id, Title: title, IsCurrentPosition: true}
}

func person(id, name, email string) *harmonic.Person {
	p := &harmonic.Person{EntityURN: "urn:harmonic:person:" + id, FullName: name}
	if email != "" {
		p.Contact.Emails = []harmonic.Email{harmonic.Email(email)}
	}
	return p
}

type fixture struct {
	harmonic *harmonictest.Server
	affinity *affinitytest.Server
}

func newFixture(t *testing.T) *fixture {
	h := harmonictest.NewServer(t)

	china := company("2", "Beijing Labs", "https://beijinglabs.cn", 9, ceo("20", "CEO"))
	china.Location.Country = "China"

	for _, c := range []*harmonic.Company{
		company("1", "Acme", "https://www.acme.com/about", 5, ceo("10", "CEO & Co-Founder")),
		china,
		company("3", "NoMail", "https://nomail.io", 2, ceo("30", "CEO")),
		company("4", "Known", "https://known.io", 4, ceo("40", "Chief Executive Officer")),
		company("5", "Fresh", "https://fresh.dev", 3, ceo("50", "Co-Founder")),
	} {
		h.AddCompany(c)
		h.SearchResults = append(h.SearchResults, c.EntityURN)
	}

	h.AddPerson(person("10", "Ada Lovelace", "ada@acme.com"))
	h.AddPerson(person("20", "Li Wei", "li@beijinglabs.cn"))
	h.AddPerson(person("30", "Nora Mail", ""))
	h.AddPerson(person("40", "Ken Own", "ken@known.io"))
	h.AddPerson(person("50", "Fran Esh", "fran@fresh.dev"))

	a := affinitytest.NewServer(t)

	known := a.AddOrg("Known", "known.io")
	a.AddNote(known.ID, "2024-11-01T00:00:00Z", "intro call")

	a.AddOrg("Fresh", "fresh.dev")

	return &fixture{harmonic: h, affinity: a}
}

func (f *fixture) discoverer(t *testing.T, profile string, limit int, out *bytes.Buffer) *Discoverer {
	p, err := scoring.LookupProfile(profile)
	require.NoError(t, err)

	return &Discoverer{
		Harmonic: f.harmonic.Client(t),
		Affinity: f.affinity.Client(t),
		Profile:  p,
		ListID:   21233,
		ListName: "1a Sourcing List",
		Limit:    limit,
		Out:      out,
		Now: func() time.Time {
			return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		},
	}
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	out := &bytes.Buffer{}

	res, err := f.discoverer(t, "top", 10, out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Searched)
	assert.Equal(t, 5, res.Fetched)
	assert.Equal(t, 4, res.Candidates)
	assert.Equal(t, 1, res.Excluded["country"])
	assert.Equal(t, 1, res.SkippedNoContact)
	assert.Equal(t, 1, res.SkippedAffinity)
	assert.Equal(t, 0, res.Failed)

	require.Len(t, res.Picks, 2)

	acme := res.Picks[0]
	assert.Equal(t, "Acme", acme.Company.Name)
	assert.Equal(t, "Ada Lovelace", acme.CEOName)
	assert.Equal(t, "Ada", acme.FirstName)
	assert.Equal(t, "ada@acme.com", acme.Email)
	assert.Equal(t, "acme.com", acme.Domain)
	assert.Equal(t, "CEO & Co-Founder", acme.CEOTitle)

	assert.Equal(t, "Fresh", res.Picks[1].Company.Name)

	require.NotEmpty(t, f.harmonic.Searches)
	assert.Len(t, f.harmonic.Searches[0], 3)

	assert.Contains(t, out.String(), "Acme (score=25)... ✓ Not in Affinity")
	assert.Contains(t, out.String(), "Known (score=20)... SKIP (1 notes)")
	assert.Contains(t, out.String(), "Fresh (score=15)... ✓ No interactions")
}

func TestRunMatchesFoundersByTitle(t *testing.T) {
	f := newFixture(t)

	roles := company("6", "Roles", "https://roles.dev", 2, harmonic.Position{
		Person:            "urn:harmonic:person:60",
		Title:             "Engineer",
		RoleType:          "FOUNDER",
		IsCurrentPosition: true,
	})
	f.harmonic.AddCompany(roles)
	f.harmonic.SearchResults = append(f.harmonic.SearchResults, roles.EntityURN)
	f.harmonic.AddPerson(person("60", "Rob Oles", "rob@roles.dev"))

	res, err := f.discoverer(t, "top", 10, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.SkippedNoContact)
	for _, p := range res.Picks {
		assert.NotEqual(t, "Roles", p.Company.Name)
	}
}

func TestRunLimit(t *testing.T) {
	f := newFixture(t)

	res, err := f.discoverer(t, "top", 1, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Picks, 1)
	assert.Equal(t, 0, res.SkippedAffinity)
}

func TestTable(t *testing.T) {
	f := newFixture(t)

	res, err := f.discoverer(t, "top", 10, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	top, _ := scoring.LookupProfile("top")
	tbl := Table(top, res.Picks)

	assert.Len(t, tbl.Header, 21)
	require.Equal(t, 2, tbl.Len())
	assert.Len(t, tbl.Rows[0], 21)
	assert.Equal(t, "Acme", tbl.Get(0, "companyName"))
	assert.Equal(t, "25", tbl.Get(0, "Raise Score"))
	assert.Equal(t, "No funding", tbl.Get(0, "Funding Total"))
	assert.Equal(t, "+5", tbl.Get(0, "Headcount Growth (6mo)"))

	founders, _ := scoring.LookupProfile("founders")
	tbl = Table(founders, res.Picks)

	assert.Len(t, tbl.Header, 24)
	assert.Len(t, tbl.Rows[0], 24)
	assert.Equal(t, "CEO & Co-Founder", tbl.Get(0, "ceoTitle"))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,234,567", funding(1234567))
	assert.Equal(t, "No funding", funding(0))
	assert.Equal(t, "+12%", percent(12.4))
	assert.Equal(t, "-3%", percent(-3))
	assert.Equal(t, "", percent(0))
	assert.Equal(t, "0", headcountGrowth(0))
	assert.Equal(t, "-2", headcountGrowth(-2))
	assert.Equal(t, "3/2024", founded(harmonic.FoundingDate{Year: 2024, Month: 3}))
	assert.Equal(t, "2023", founded(harmonic.FoundingDate{Year: 2023}))
	assert.Equal(t, "", founded(harmonic.FoundingDate{}))
	assert.Equal(t, "a, b", firstN([]string{"a", "b", "c"}, 2))
}

func TestPrintSummary(t *testing.T) {
	founders, _ := scoring.LookupProfile("founders")

	res := &Result{Picks: []*Pick{
		{Scored: &scoring.Scored{Score: scoring.Score{Total: 60, Raising: 20, Founder: 40}}},
		{Scored: &scoring.Scored{Score: scoring.Score{Total: 30, Raising: 10, Founder: 20}}},
	}}

	out := &bytes.Buffer{}
	PrintSummary(out, founders, res)

	assert.Contains(t, out.String(), "DONE! 2 startups - high-quality founders raising now")
	assert.Contains(t, out.String(), "Avg Founder Quality Score:   30")
	assert.Contains(t, out.String(), "High-quality founders (30+): 1")
}
