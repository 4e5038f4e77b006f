package scoring

import (
	"fmt"
	"time"

	"github.com/tuvana1/outsourcing/clients/harmonic"
)

// Profile configures one discovery run: which companies to search for,
// which to drop and how to rank the rest.
type Profile struct {
	Name        string
	Description string

	MinHighlights int
	MaxURNs       int
	TopN          int

	// DedupeNames drops companies whose normalized name was already kept.
	DedupeNames bool

	// FounderQuality adds FounderScore to the total.
	FounderQuality bool

	Exclusions []*Condition
}

var profiles = map[string]*Profile{
	"top": {
		Name:          "top",
		Description:   "early stage startups about to raise",
		MinHighlights: 5,
		MaxURNs:       1000,
		TopN:          500,
		Exclusions: Exclusions(
			[]string{"robotics"},
			[]string{"crisis center", "rape crisis"},
		),
	},
	"founders": {
		Name:           "founders",
		Description:    "high quality founders raising now",
		MinHighlights:  8,
		MaxURNs:        1500,
		TopN:           600,
		DedupeNames:    true,
		FounderQuality: true,
		Exclusions:     Exclusions(nil, nil),
	},
}

// ProfileNames lists the available profiles.
func ProfileNames() []string {
	return []string{"top", "founders"}
}

// LookupProfile returns the named profile.
func LookupProfile(name string) (*Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q, expected one of %v", name, ProfileNames())
	}
	return p, nil
}

// Filters returns the company search filters of the profile.
func (p *Profile) Filters() []harmonic.Filter {
	return []harmonic.Filter{
		{Field: "company_funding_stage", Comparator: "anyOf", FilterValue: []string{"PRE_SEED", "SEED"}},
		{Field: "company_and_employee_highlight_count", Comparator: "greaterThanOrEquals", FilterValue: p.MinHighlights},
		{Field: "company_headcount_real_change_180d_ago", Comparator: "greaterThanOrEquals", FilterValue: 1},
	}
}

// Score rates a company under the profile.
func (p *Profile) Score(c *harmonic.Company, now time.Time) Score {
	if !p.FounderQuality {
		raise := RaiseScore(c, now)
		return Score{Total: raise, Raising: raise}
	}

	raising := RaisingScore(c, now)
	founder, signals := FounderScore(c)

	return Score{
		Total:          raising + founder,
		Raising:        raising,
		Founder:        founder,
		FounderSignals: signals,
	}
}

// Filter drops excluded companies, scores the rest and ranks them. The
// returned counts are keyed by exclusion condition name.
func (p *Profile) Filter(companies []*harmonic.Company, now time.Time) ([]*Scored, map[string]int) {
	excluded := make(map[string]int)

	var out []*Scored

	for _, c := range companies {
		if cond, ok := Excluded(c, p.Exclusions); ok {
			excluded[cond.Name]++
			continue
		}

		out = append(out, &Scored{Company: c, Score: p.Score(c, now)})
	}

	Rank(out)

	return out, excluded
}
