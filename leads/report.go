package leads

import (
	"io"
	"sort"
	"strings"
	"sync"
	"text/template"
)

var (
	tmpl *template.Template

	reportTemplate = `{{with $R := .}}# {{.Title}}

{{range .Sections}}## {{.Name}} ({{len .Entries}})

{{range .Entries}}- [ ] {{$R.Incr}}. **{{.Company}}**{{if .Contact}}: {{.Contact}}{{end}}{{if .Email}} <{{.Email}}>{{end}}{{if .Note}} ({{.Note}}){{end}}
{{end}}
{{end}}{{end}}`
)

func init() {
	tmpl = template.Must(template.New("leads").Parse(reportTemplate))
}

// Unassigned names the section of rows with an empty group value.
const Unassigned = "Unassigned"

// ReportEntry is one line of the report.
type ReportEntry struct {
	Company string
	Contact string
	Email   string
	Note    string
}

// ReportSection groups entries that share a value of the group column.
type ReportSection struct {
	Name    string
	Entries []*ReportEntry
}

// MarkdownReport renders a table as a markdown checklist grouped by the
// value of one column.
type MarkdownReport struct {
	Title   string
	Table   *Table
	GroupBy string

	// NoteColumn is appended to each entry in parentheses when set.
	NoteColumn string

	seq int
	mux sync.Mutex
}

// NewMarkdownReport initializes a report.
func NewMarkdownReport(title string, t *Table, groupBy string) *MarkdownReport {
	return &MarkdownReport{
		Title:   title,
		Table:   t,
		GroupBy: groupBy,
	}
}

// Incr returns the next entry number.
func (r *MarkdownReport) Incr() int {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.seq++
	return r.seq
}

// Sections splits the rows by the group column. Sections are sorted by
// name with Unassigned last; entries are sorted by company.
func (r *MarkdownReport) Sections() []*ReportSection {
	groups := make(map[string]*ReportSection)

	var names []string

	for i := range r.Table.Rows {
		company := r.Table.Get(i, "companyName")
		if company == "" {
			continue
		}

		key := Unassigned
		if r.GroupBy != "" {
			if v := r.Table.Get(i, r.GroupBy); v != "" {
				key = v
			}
		}

		g, ok := groups[key]
		if !ok {
			g = &ReportSection{Name: key}
			groups[key] = g
			names = append(names, key)
		}

		e := &ReportEntry{
			Company: company,
			Contact: r.Table.Get(i, "ceoName"),
			Email:   r.Table.Get(i, "email"),
		}
		if e.Contact == "" {
			e.Contact = r.Table.Get(i, "firstName")
		}
		if r.NoteColumn != "" {
			e.Note = r.Table.Get(i, r.NoteColumn)
		}

		g.Entries = append(g.Entries, e)
	}

	sort.Slice(names, func(i, j int) bool {
		if names[i] == Unassigned || names[j] == Unassigned {
			return names[j] == Unassigned && names[i] != Unassigned
		}
		return names[i] < names[j]
	})

	out := make([]*ReportSection, len(names))
	for i, name := range names {
		g := groups[name]
		sort.SliceStable(g.Entries, func(a, b int) bool {
			return strings.ToLower(g.Entries[a].Company) < strings.ToLower(g.Entries[b].Company)
		})
		out[i] = g
	}

	return out
}

// Render renders the report to the io.Writer.
func (r *MarkdownReport) Render(w io.Writer) error {
	r.seq = 0
	return tmpl.Execute(w, r)
}
