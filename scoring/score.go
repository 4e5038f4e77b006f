package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/tuvana1/outsourcing/clients/harmonic"
)

// FounderHighlightScores weighs team highlight categories.
var FounderHighlightScores = map[string]float64{
	"Prior Exit":                            25,
	"Prior VC Backed Founder":               20,
	"YC Backed Founder":                     20,
	"Seasoned Founder":                      18,
	"Top University":                        12,
	"Top Company Alum":                      10,
	"Major Tech Company Experience":         8,
	"Deep Technical Background":             10,
	"Top AI Experience":                     12,
	"Elite Industry Experience":             8,
	"Major Research Institution Experience": 8,
	"Seasoned Executive":                    8,
	"Seasoned Operator":                     6,
	"$50M+ Club":                            20,
	"$45M Club":                             18,
	"$40M Club":                             16,
	"$35M Club":                             14,
	"$20M Club":                             12,
	"$15M Club":                             10,
	"$10M Club":                             8,
	"$5M Club":                              5,
}

// Score is the ranking of one company.
type Score struct {
	Total   float64
	Raising float64
	Founder float64

	// FounderSignals are the highlight categories that added to Founder,
	// in the order they were found.
	FounderSignals []string
}

// Scored pairs a company with its score.
type Scored struct {
	Company *harmonic.Company
	Score
}

// Rank sorts by total score, highest first, keeping input order on ties.
func Rank(items []*Scored) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Total > items[j].Total
	})
}

func capped(v, factor, max float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Min(v*factor, max)
}

var emergenceLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// daysSinceEmergence returns whole days since the company left stealth.
func daysSinceEmergence(c *harmonic.Company, now time.Time) (int, bool) {
	if c.StealthEmergenceDate == "" {
		return 0, false
	}

	for _, layout := range emergenceLayouts {
		t, err := time.Parse(layout, c.StealthEmergenceDate)
		if err == nil {
			return int(math.Floor(now.Sub(t).Hours() / 24)), true
		}
	}

	return 0, false
}

// fundingNeed scores a team that is growing without capital.
func fundingNeed(c *harmonic.Company, lowFunding float64) float64 {
	var score float64

	headcount := c.HeadcountValue()
	if headcount == 0 {
		headcount = 1
	}

	funding := c.Funding.FundingTotal

	if headcount > 3 && funding < 2_000_000 {
		score += lowFunding
	}
	if funding == 0 && headcount > 2 {
		score += 15
	}

	return score
}

func foundingRecency(c *harmonic.Company) float64 {
	switch year := c.FoundingDate.Year; {
	case year >= 2024:
		return 10
	case year >= 2023:
		return 5
	}
	return 0
}

// growth scores six month web traffic and LinkedIn follower growth.
func growth(c *harmonic.Company) float64 {
	var score float64

	if pct := c.Traction.WebTraffic.Ago180.PercentChange; pct > 0 {
		score += math.Min(pct/10, 20)
	}
	if pct := c.Traction.LinkedinFollowers.Ago180.PercentChange; pct > 0 {
		score += math.Min(pct/5, 15)
	}

	return score
}

// RaiseScore rates how likely a company is to raise soon from traction,
// stealth emergence, funding need and age.
func RaiseScore(c *harmonic.Company, now time.Time) float64 {
	hc := &c.Traction.CorrectedHeadcount

	score := capped(hc.Ago180.Change, 5, 25) + capped(hc.Ago90.Change, 8, 25)
	score += growth(c)
	score += math.Min(float64(len(c.Highlights))*3, 15)

	if days, ok := daysSinceEmergence(c, now); ok {
		switch {
		case days < 90:
			score += 20
		case days < 180:
			score += 15
		case days < 365:
			score += 10
		}
	}

	score += fundingNeed(c, 10)
	score += foundingRecency(c)

	return score
}

// RaisingScore rates how likely a company is raising right now. Recent
// hiring and a fresh stealth emergence weigh more than in RaiseScore.
func RaisingScore(c *harmonic.Company, now time.Time) float64 {
	hc := &c.Traction.CorrectedHeadcount

	score := capped(hc.Ago90.Change, 8, 25) + capped(hc.Ago180.Change, 4, 15)
	score += growth(c)

	if days, ok := daysSinceEmergence(c, now); ok {
		switch {
		case days < 60:
			score += 25
		case days < 120:
			score += 20
		case days < 180:
			score += 15
		case days < 365:
			score += 8
		}
	}

	score += fundingNeed(c, 12)
	score += math.Min(float64(len(c.Highlights))*2, 10)
	score += foundingRecency(c)

	return score
}

// FounderScore sums the weights of the team's highlight categories, each
// category counted once. Employee highlights are read before company ones.
func FounderScore(c *harmonic.Company) (float64, []string) {
	var (
		score   float64
		signals []string
	)

	seen := make(map[string]bool)

	all := append(append([]harmonic.Highlight(nil), c.EmployeeHighlights...), c.Highlights...)

	for _, h := range all {
		if seen[h.Category] {
			continue
		}

		if w := FounderHighlightScores[h.Category]; w > 0 {
			seen[h.Category] = true
			signals = append(signals, h.Category)
			score += w
		}
	}

	return score, signals
}
