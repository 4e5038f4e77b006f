package harmonic

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/tuvana1/outsourcing/match"
)

// Company is the subset of a Harmonic company record the commands use.
type Company struct {
	EntityURN            string       `json:"entity_urn"`
	CompanyURN           string       `json:"company_urn"`
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	Website              Website      `json:"website"`
	Email                Email        `json:"email"`
	Contact              Contact      `json:"contact"`
	People               []Position   `json:"people"`
	Location             Location     `json:"location"`
	Tags                 []Tag        `json:"tags"`
	Highlights           []Highlight  `json:"highlights"`
	EmployeeHighlights   []Highlight  `json:"employee_highlights"`
	CustomerType         string       `json:"customer_type"`
	CompanyType          string       `json:"company_type"`
	Stage                string       `json:"stage"`
	Funding              Funding      `json:"funding"`
	Headcount            Metric       `json:"headcount"`
	CorrectedHeadcount   Metric       `json:"corrected_headcount"`
	WebTraffic           Metric       `json:"web_traffic"`
	Traction             Traction     `json:"traction_metrics"`
	StealthEmergenceDate string       `json:"stealth_emergence_date"`
	FoundingDate         FoundingDate `json:"founding_date"`
}

// URN returns the company's identifier.
func (c *Company) URN() string {
	if c.EntityURN != "" {
		return c.EntityURN
	}
	return c.CompanyURN
}

// HeadcountValue returns the reported headcount, preferring the raw value.
func (c *Company) HeadcountValue() float64 {
	if c.Headcount.Value != 0 {
		return c.Headcount.Value
	}
	return c.CorrectedHeadcount.Value
}

// Domain returns the website host.
func (c *Company) Domain() string {
	return match.WebsiteDomain(c.Website.URL)
}

// Contact holds the email addresses attached to a company or person.
type Contact struct {
	PrimaryEmail string  `json:"primary_email"`
	Email        Email   `json:"email"`
	Emails       []Email `json:"emails"`
	ExecEmails   []Email `json:"exec_emails"`
}

// Position is an employment record of a company's people list.
type Position struct {
	Person            string `json:"person"`
	PersonURN         string `json:"person_urn"`
	EntityURN         string `json:"entity_urn"`
	Title             string `json:"title"`
	RoleType          string `json:"role_type"`
	IsCurrentPosition bool   `json:"is_current_position"`
}

// URN returns the person identifier of the position.
func (p *Position) URN() string {
	switch {
	case p.Person != "":
		return p.Person
	case p.PersonURN != "":
		return p.PersonURN
	}
	return p.EntityURN
}

// Person is the subset of a Harmonic person record the commands use.
type Person struct {
	EntityURN string  `json:"entity_urn"`
	PersonURN string  `json:"person_urn"`
	URNField  string  `json:"urn"`
	FullName  string  `json:"full_name"`
	Name      string  `json:"name"`
	Contact   Contact `json:"contact"`
	Emails    []Email `json:"emails"`
}

// URN returns the person's identifier.
func (p *Person) URN() string {
	switch {
	case p.EntityURN != "":
		return p.EntityURN
	case p.PersonURN != "":
		return p.PersonURN
	}
	return p.URNField
}

// DisplayName returns the full name, falling back to the short name.
func (p *Person) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Name
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type Tag struct {
	DisplayValue string `json:"display_value"`
}

type Highlight struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

type Funding struct {
	FundingTotal float64 `json:"funding_total"`
	FundingStage string  `json:"funding_stage"`
}

type FoundingDate struct {
	Date  string `json:"date"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

// Traction holds the time series Harmonic tracks per company.
type Traction struct {
	CorrectedHeadcount Series `json:"corrected_headcount"`
	WebTraffic         Series `json:"web_traffic"`
	LinkedinFollowers  Series `json:"linkedin_follower_count"`
}

// Series is one traction metric with its historical comparisons.
type Series struct {
	Latest float64 `json:"latest_metric_value"`
	Ago90  Change  `json:"90d_ago"`
	Ago180 Change  `json:"180d_ago"`
}

type Change struct {
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

// Metric is a number that Harmonic reports either bare or as an object
// with a latest_metric_value.
type Metric struct {
	Value float64
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '{':
		var obj struct {
			Latest *float64 `json:"latest_metric_value"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.Latest != nil {
			m.Value = *obj.Latest
		}
		return nil
	}

	// Anything else, such as a quoted placeholder, reads as zero.
	json.Unmarshal(b, &m.Value)
	return nil
}

func (m Metric) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Value)
}

// Website is a URL that Harmonic reports either bare or as {"url": ...}.
type Website struct {
	URL string
}

func (w *Website) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		w.URL = s
		return nil
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}

	w.URL = obj.URL
	return nil
}

func (w Website) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.URL)
}

// Email is an address reported either bare or as {"email": ...}.
type Email string

func (e *Email) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = Email(strings.TrimSpace(s))
		return nil
	}

	var obj struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}

	*e = Email(strings.TrimSpace(obj.Email))
	return nil
}
