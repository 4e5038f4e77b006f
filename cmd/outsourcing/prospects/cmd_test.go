package prospects

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/clients/harmonic/harmonictest"
	"github.com/tuvana1/outsourcing/leads"
)

func newServer(t *testing.T) *harmonictest.Server {
	s := harmonictest.NewServer(t)

	s.Watchlists["urn:harmonic:watchlist:w1"] = []string{
		"urn:harmonic:company:1",
		"urn:harmonic:company:2",
		"urn:harmonic:company:3",
	}

	s.AddCompany(&harmonic.Company{
		EntityURN: "urn:harmonic:company:1",
		Name:      "Acme (YC W24)",
		People: []harmonic.Position{
			{Person: "urn:harmonic:person:10", Title: "Co-Founder & CTO", IsCurrentPosition: true},
			{Person: "urn:harmonic:person:11", Title: "CEO", IsCurrentPosition: true},
			{Person: "urn:harmonic:person:12", Title: "CEO", IsCurrentPosition: false},
		},
	})
	s.AddPerson(&harmonic.Person{EntityURN: "urn:harmonic:person:10", FullName: "Tom Builder", Contact: harmonic.Contact{PrimaryEmail: "tom@acme.com"}})
	s.AddPerson(&harmonic.Person{EntityURN: "urn:harmonic:person:11", FullName: "Ada Boss"})

	s.AddCompany(&harmonic.Company{
		EntityURN: "urn:harmonic:company:2",
		Name:      "Widgets",
		Contact:   harmonic.Contact{ExecEmails: []harmonic.Email{"sales@widgets.io", "hello@widgets.io"}},
		People: []harmonic.Position{
			{Person: "urn:harmonic:person:20", Title: "Founder", IsCurrentPosition: true},
		},
	})
	s.AddPerson(&harmonic.Person{EntityURN: "urn:harmonic:person:20", FullName: "Wendy Widget"})

	s.AddCompany(&harmonic.Company{EntityURN: "urn:harmonic:company:3", Name: "Nobody Inc"})

	return s
}

func TestBuild(t *testing.T) {
	s := newServer(t)

	var buf bytes.Buffer
	out, err := Build(context.Background(), &buf, s.Client(t), "urn:harmonic:watchlist:w1")
	require.NoError(t, err)

	assert.Equal(t, leads.Leads{
		{CompanyName: "Acme", FirstName: "Tom", Email: "tom@acme.com", CompanyURN: "urn:harmonic:company:1", CEOName: "Tom Builder"},
		{CompanyName: "Widgets", FirstName: "Wendy", Email: "hello@widgets.io", CompanyURN: "urn:harmonic:company:2", CEOName: "Wendy Widget"},
		{CompanyName: "Nobody Inc", CompanyURN: "urn:harmonic:company:3"},
	}, out)

	assert.Contains(t, buf.String(), "Found 3 company URNs in watchlist")
	assert.Contains(t, buf.String(), "Found 3 total person URNs to fetch")
}

func TestRunWritesFile(t *testing.T) {
	s := newServer(t)
	path := filepath.Join(t.TempDir(), "leads.csv")

	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), &buf, s.Client(t), "urn:harmonic:watchlist:w1", path))

	out, err := leads.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Acme", out[0].CompanyName)
	assert.Contains(t, buf.String(), "with 3 rows")
	assert.Contains(t, buf.String(), "1 leads have no email")
}
