package leads

import (
	"fmt"
	"strings"
)

// FileHeaderFields are the header fields of a leads file.
var FileHeaderFields = []string{
	"companyName",
	"firstName",
	"email",
	"companyUrn",
	"ceoName",
}

// FileHeader stores the column position for each field. Absent optional
// columns are -1.
type FileHeader struct {
	CompanyName int
	FirstName   int
	Email       int
	CompanyURN  int
	CEOName     int
}

// columnKey normalizes a column name for comparison.
func columnKey(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.Replace(col, " ", "", -1)
	return strings.Replace(col, "_", "", -1)
}

// ParseFileHeader indexes the position of each known field. Unknown columns
// are ignored; companyName is required.
func ParseFileHeader(row []string) (*FileHeader, error) {
	h := FileHeader{
		CompanyName: -1,
		FirstName:   -1,
		Email:       -1,
		CompanyURN:  -1,
		CEOName:     -1,
	}

	for i, col := range row {
		switch columnKey(col) {
		case "companyname":
			h.CompanyName = i
		case "firstname":
			h.FirstName = i
		case "email":
			h.Email = i
		case "companyurn":
			h.CompanyURN = i
		case "ceoname":
			h.CEOName = i
		}
	}

	if h.CompanyName < 0 {
		return nil, fmt.Errorf("leads header has no companyName column: %v", row)
	}

	return &h, nil
}

// Lead is a company and its contact, destined for outreach.
type Lead struct {
	CompanyName string
	FirstName   string
	Email       string
	CompanyURN  string
	CEOName     string
}

func (l *Lead) Row() []string {
	return []string{
		l.CompanyName,
		l.FirstName,
		l.Email,
		l.CompanyURN,
		l.CEOName,
	}
}

// HasEmail reports whether the lead can be contacted.
func (l *Lead) HasEmail() bool {
	return strings.TrimSpace(l.Email) != ""
}

// Leads is a set of leads sortable by company name.
type Leads []*Lead

func (l Leads) Less(i, j int) bool {
	return strings.ToLower(l[i].CompanyName) < strings.ToLower(l[j].CompanyName)
}

func (l Leads) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

func (l Leads) Len() int {
	return len(l)
}

// WithoutEmail returns the leads that have no email address.
func (l Leads) WithoutEmail() Leads {
	var out Leads
	for _, x := range l {
		if !x.HasEmail() {
			out = append(out, x)
		}
	}
	return out
}
