// Package scoring filters and ranks early stage companies by how likely
// they are to raise soon and by the track record of their founders.
package scoring

import (
	"strings"

	"github.com/tuvana1/outsourcing/clients/harmonic"
)

type Condition struct {
	Name string
	Test func(c *harmonic.Company) bool
}

var excludedCountries = []string{"china", "russia", "ukraine", "india"}

var baseExcludedTags = []string{
	"hardware", "biotech", "biotechnology", "pharmaceutical", "medical devices",
	"semiconductors", "chip design", "electronics manufacturing",
	"3d printing", "manufacturing", "clean energy", "solar", "battery",
	"cannabis", "marijuana", "nonprofit", "non-profit", "charity",
	"government", "public sector",
}

var baseNonprofitNames = []string{
	"foundation", "council", "association", "institute", "society",
	"charity", "nonprofit", "non-profit", "ngo", "ministry",
	"committee", "coalition", "alliance", "federation", "bureau",
	"center for", "centre for",
}

var (
	consumerKeywords = []string{"consumer", "social media", "gaming", "entertainment", "fashion", "food delivery", "dating", "music", "sports"}
	b2bKeywords      = []string{"saas", "enterprise", "business", "b2b", "infrastructure", "devtools", "developer", "api", "platform", "fintech"}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func tagTexts(c *harmonic.Company) []string {
	out := make([]string, len(c.Tags))
	for i, t := range c.Tags {
		out[i] = strings.ToLower(t.DisplayValue)
	}
	return out
}

var isExcludedCountry = &Condition{
	Name: "country",
	Test: func(c *harmonic.Company) bool {
		country := strings.ToLower(strings.TrimSpace(c.Location.Country))
		for _, x := range excludedCountries {
			if country == x {
				return true
			}
		}
		return false
	},
}

func isExcludedIndustry(keywords []string) *Condition {
	return &Condition{
		Name: "industry",
		Test: func(c *harmonic.Company) bool {
			for _, t := range tagTexts(c) {
				if containsAny(t, keywords) {
					return true
				}
			}
			return false
		},
	}
}

func isNonprofit(nameKeywords []string) *Condition {
	return &Condition{
		Name: "nonprofit",
		Test: func(c *harmonic.Company) bool {
			if containsAny(strings.ToLower(c.Name), nameKeywords) {
				return true
			}

			switch strings.ToLower(c.CompanyType) {
			case "nonprofit", "government", "non_profit":
				return true
			}

			return containsAny(strings.ToLower(c.Description), []string{"non-profit", "nonprofit", "501(c)"})
		},
	}
}

// A company is pure consumer when it sells to consumers only and none of
// its tags hint at a business customer.
var isPureConsumer = &Condition{
	Name: "consumer",
	Test: func(c *harmonic.Company) bool {
		ct := strings.ToLower(c.CustomerType)
		if strings.Contains(ct, "b2b") {
			return false
		}

		var consumer, b2b int
		for _, t := range tagTexts(c) {
			if containsAny(t, consumerKeywords) {
				consumer++
			}
			if containsAny(t, b2bKeywords) {
				b2b++
			}
		}

		return consumer > 0 && b2b == 0 && strings.Contains(ct, "b2c")
	},
}

var isNotStartup = &Condition{
	Name: "not startup",
	Test: func(c *harmonic.Company) bool {
		return c.CompanyType != "" && strings.ToUpper(c.CompanyType) != "STARTUP"
	},
}

// Exclusions returns the conditions that drop a company, in the order they
// are checked.
func Exclusions(extraTags, extraNames []string) []*Condition {
	tags := append(append([]string(nil), baseExcludedTags...), extraTags...)
	names := append(append([]string(nil), baseNonprofitNames...), extraNames...)

	return []*Condition{
		isExcludedCountry,
		isExcludedIndustry(tags),
		isNonprofit(names),
		isPureConsumer,
		isNotStartup,
	}
}

// Excluded returns the first condition the company meets.
func Excluded(c *harmonic.Company, conds []*Condition) (*Condition, bool) {
	for _, cond := range conds {
		if cond.Test(c) {
			return cond, true
		}
	}
	return nil, false
}
