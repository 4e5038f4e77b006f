// Package contacts picks the person and email address to reach at a company.
package contacts

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/match"
)

// Candidate priorities.
const (
	PriorityCEO     = 1
	PriorityFounder = 2
)

// fallbackPrefixes are the company mailbox prefixes tried in order.
var fallbackPrefixes = []string{"ceo@", "founder@", "hello@", "team@", "info@", "contact@"}

// Candidate is a person worth contacting at a company.
type Candidate struct {
	URN      string
	Title    string
	Priority int
}

// IsCEOTitle reports whether a job title names the chief executive.
func IsCEOTitle(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "ceo") || strings.Contains(t, "chief executive")
}

// IsFounderTitle reports whether a job title names a founder.
func IsFounderTitle(title string) bool {
	return strings.Contains(strings.ToLower(title), "founder")
}

// IsFounder reports whether a position is held by a founder, by title or
// by role.
func IsFounder(p *harmonic.Position) bool {
	return IsFounderTitle(p.Title) || strings.ToUpper(p.RoleType) == "FOUNDER"
}

// Candidates lists the current CEOs of a company followed by its current
// founders. A person appears once, at the highest priority.
func Candidates(c *harmonic.Company) []Candidate {
	return candidates(c, IsFounder)
}

// TitleCandidates is Candidates with founders recognized by title alone.
func TitleCandidates(c *harmonic.Company) []Candidate {
	return candidates(c, func(p *harmonic.Position) bool {
		return IsFounderTitle(p.Title)
	})
}

func candidates(c *harmonic.Company, founder func(*harmonic.Position) bool) []Candidate {
	var out []Candidate

	seen := mapset.NewThreadUnsafeSet[string]()

	add := func(p *harmonic.Position, priority int) {
		urn := p.URN()
		if urn == "" || !seen.Add(urn) {
			return
		}
		out = append(out, Candidate{URN: urn, Title: p.Title, Priority: priority})
	}

	for i := range c.People {
		if p := &c.People[i]; p.IsCurrentPosition && IsCEOTitle(p.Title) {
			add(p, PriorityCEO)
		}
	}

	for i := range c.People {
		if p := &c.People[i]; p.IsCurrentPosition && founder(p) {
			add(p, PriorityFounder)
		}
	}

	return out
}

// PersonEmail returns a person's primary email, else the first listed one.
func PersonEmail(p *harmonic.Person) string {
	if p == nil {
		return ""
	}

	if e := strings.TrimSpace(p.Contact.PrimaryEmail); e != "" {
		return e
	}

	if len(p.Contact.Emails) > 0 {
		return strings.TrimSpace(string(p.Contact.Emails[0]))
	}

	return ""
}

// FallbackEmail returns a company level address: the primary contact email,
// else the exec email with the most generic useful prefix, else the first
// exec email.
func FallbackEmail(c *harmonic.Company) string {
	if e := strings.TrimSpace(c.Contact.PrimaryEmail); e != "" {
		return e
	}

	var execs []string

	seen := mapset.NewThreadUnsafeSet[string]()
	for _, e := range c.Contact.ExecEmails {
		s := strings.TrimSpace(string(e))
		if s != "" && seen.Add(s) {
			execs = append(execs, s)
		}
	}

	for _, prefix := range fallbackPrefixes {
		for _, e := range execs {
			if strings.HasPrefix(strings.ToLower(e), prefix) {
				return e
			}
		}
	}

	if len(execs) > 0 {
		return execs[0]
	}

	return ""
}

// Choice is the contact picked for a company.
type Choice struct {
	Name      string
	FirstName string
	Email     string
}

// ChooseLead returns the first candidate with an email. When none has one,
// the first candidate's name is paired with the company fallback email.
func ChooseLead(c *harmonic.Company, candidates []Candidate, people map[string]*harmonic.Person) Choice {
	fallback := FallbackEmail(c)

	var (
		chosen *harmonic.Person
		email  string
	)

	for _, cand := range candidates {
		p := people[cand.URN]
		if e := PersonEmail(p); e != "" {
			chosen, email = p, e
			break
		}
	}

	if chosen == nil && len(candidates) > 0 {
		chosen = people[candidates[0].URN]
	}

	var choice Choice
	if chosen != nil {
		choice.Name = chosen.DisplayName()
		choice.FirstName = match.FirstName(choice.Name)
	}

	choice.Email = email
	if choice.Email == "" {
		choice.Email = fallback
	}

	return choice
}

// CompanyEmail returns the contact address a company lists for itself.
func CompanyEmail(c *harmonic.Company) string {
	if e := strings.TrimSpace(string(c.Contact.Email)); e != "" {
		return e
	}
	return strings.TrimSpace(string(c.Email))
}

// Found is a person email discovered at a company.
type Found struct {
	Name  string
	Title string
	Email string
}

// BestEmail picks the address to use for a company missing one: a CEO or
// founder email, else the company address, else the first person found.
func BestEmail(companyEmail, ceoName string, found []Found) (email, name string) {
	email, name = companyEmail, ceoName

	for _, f := range found {
		t := strings.ToLower(f.Title)
		if strings.Contains(t, "ceo") || strings.Contains(t, "founder") || strings.Contains(t, "chief executive") {
			return f.Email, f.Name
		}
	}

	if email == "" && len(found) > 0 {
		return found[0].Email, found[0].Name
	}

	return email, name
}
