package contacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tuvana1/outsourcing/clients/harmonic"
)

func TestCandidates(t *testing.T) {
	c := &harmonic.Company{
		People: []harmonic.Position{
			{Person: "urn:p:1", Title: "Co-Founder", IsCurrentPosition: true},
			{Person: "urn:p:2", Title: "Former CEO", IsCurrentPosition: false},
			{PersonURN: "urn:p:3", Title: "CEO & Co-founder", IsCurrentPosition: true},
			{EntityURN: "urn:p:4", Title: "Engineer", RoleType: "founder", IsCurrentPosition: true},
			{Title: "Chief Executive Officer", IsCurrentPosition: true},
			{Person: "urn:p:5", Title: "Head of Sales", IsCurrentPosition: true},
		},
	}

	assert.Equal(t, []Candidate{
		{URN: "urn:p:3", Title: "CEO & Co-founder", Priority: PriorityCEO},
		{URN: "urn:p:1", Title: "Co-Founder", Priority: PriorityFounder},
		{URN: "urn:p:4", Title: "Engineer", Priority: PriorityFounder},
	}, Candidates(c))

	assert.Equal(t, []Candidate{
		{URN: "urn:p:3", Title: "CEO & Co-founder", Priority: PriorityCEO},
		{URN: "urn:p:1", Title: "Co-Founder", Priority: PriorityFounder},
	}, TitleCandidates(c))
}

func TestFallbackEmail(t *testing.T) {
	tests := map[string]struct {
		contact  harmonic.Contact
		expected string
	}{
		"primary": {
			harmonic.Contact{PrimaryEmail: " hi@acme.com ", ExecEmails: []harmonic.Email{"ceo@acme.com"}},
			"hi@acme.com",
		},
		"prefix order": {
			harmonic.Contact{ExecEmails: []harmonic.Email{"jane@acme.com", "info@acme.com", "Hello@acme.com"}},
			"Hello@acme.com",
		},
		"first exec": {
			harmonic.Contact{ExecEmails: []harmonic.Email{"", "jane@acme.com", "jane@acme.com"}},
			"jane@acme.com",
		},
		"none": {harmonic.Contact{}, ""},
	}

	for name, tt := range tests {
		c := &harmonic.Company{Contact: tt.contact}
		assert.Equal(t, tt.expected, FallbackEmail(c), name)
	}
}

func TestChooseLead(t *testing.T) {
	c := &harmonic.Company{Contact: harmonic.Contact{PrimaryEmail: "team@acme.com"}}

	people := map[string]*harmonic.Person{
		"a": {FullName: "Ann Ames"},
		"b": {Name: "Bob", Contact: harmonic.Contact{Emails: []harmonic.Email{"bob@acme.com"}}},
	}

	cands := []Candidate{{URN: "a"}, {URN: "b"}}
	assert.Equal(t, Choice{Name: "Bob", FirstName: "Bob", Email: "bob@acme.com"}, ChooseLead(c, cands, people))

	cands = []Candidate{{URN: "a"}}
	assert.Equal(t, Choice{Name: "Ann Ames", FirstName: "Ann", Email: "team@acme.com"}, ChooseLead(c, cands, people))

	assert.Equal(t, Choice{Email: "team@acme.com"}, ChooseLead(c, nil, people))

	// A candidate whose record was not returned contributes no name.
	assert.Equal(t, Choice{Email: "team@acme.com"}, ChooseLead(c, []Candidate{{URN: "zz"}}, people))
}

func TestCompanyEmail(t *testing.T) {
	assert.Equal(t, "a@x.io", CompanyEmail(&harmonic.Company{Contact: harmonic.Contact{Email: "a@x.io"}, Email: "b@x.io"}))
	assert.Equal(t, "b@x.io", CompanyEmail(&harmonic.Company{Email: "b@x.io"}))
}

func TestBestEmail(t *testing.T) {
	found := []Found{
		{Name: "Eng", Title: "CTO", Email: "eng@x.io"},
		{Name: "Boss", Title: "Founder", Email: "boss@x.io"},
	}

	email, name := BestEmail("hello@x.io", "Ceo Name", found)
	assert.Equal(t, "boss@x.io", email)
	assert.Equal(t, "Boss", name)

	email, name = BestEmail("hello@x.io", "Ceo Name", found[:1])
	assert.Equal(t, "hello@x.io", email)
	assert.Equal(t, "Ceo Name", name)

	email, name = BestEmail("", "Ceo Name", found[:1])
	assert.Equal(t, "eng@x.io", email)
	assert.Equal(t, "Eng", name)

	email, _ = BestEmail("", "", nil)
	assert.Equal(t, "", email)
}
