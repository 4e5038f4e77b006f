package leads

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuvana1/outsourcing/leads/leadstest"
)

func TestParseFileHeader(t *testing.T) {
	head, err := ParseFileHeader([]string{"Company Name", "notes", "EMAIL", "first_name"})
	require.NoError(t, err)

	assert.Equal(t, 0, head.CompanyName)
	assert.Equal(t, 2, head.Email)
	assert.Equal(t, 3, head.FirstName)
	assert.Equal(t, -1, head.CompanyURN)
	assert.Equal(t, -1, head.CEOName)

	_, err = ParseFileHeader([]string{"email"})
	assert.Error(t, err)
}

func TestReaderCarriageReturns(t *testing.T) {
	in := "companyName,firstName,email\rAcme,Ada,ada@acme.com\r\nSolo,,\r"

	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)

	all, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, &Lead{CompanyName: "Acme", FirstName: "Ada", Email: "ada@acme.com"}, all[0])
	assert.False(t, all[1].HasEmail())
	assert.Len(t, all.WithoutEmail(), 1)
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")

	in := Leads{
		{CompanyName: "Zed", FirstName: "Zoe", Email: "zoe@zed.io", CompanyURN: "urn:harmonic:company:2", CEOName: "Zoe Z"},
		{CompanyName: "acme", CompanyURN: "urn:harmonic:company:1"},
	}

	require.NoError(t, WriteFile(path, in))

	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	sort.Sort(out)
	assert.Equal(t, "acme", out[0].CompanyName)
}

func TestReadTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte("companyName,In Affinity,Notes\r\nAcme,Yes,\"met, twice\"\r\nZed,No\r\n"), 0644))

	tbl, err := ReadTableFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"companyName", "In Affinity", "Notes"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "met, twice", tbl.Get(0, "notes"))
	assert.Equal(t, "No", tbl.Get(1, "in_affinity"))
	assert.Equal(t, "", tbl.Get(1, "Notes"))
}

func TestWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Flush())
	assert.Equal(t, "companyName,firstName,email,companyUrn,ceoName\n", buf.String())
}

func TestTable(t *testing.T) {
	tbl := NewTable([][]string{
		{"companyName", "email", "In Affinity"},
		{"Acme", "ada@acme.com"},
		{"Solo"},
	})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 2, tbl.Col("in_affinity"))
	assert.Equal(t, -1, tbl.Col("missing"))
	assert.Equal(t, "", tbl.Get(1, "email"))
	assert.Equal(t, "", tbl.Get(7, "email"))
	assert.Equal(t, "ada@acme.com", tbl.Lead(0).Email)

	tbl.Set(1, "Last Checked", "now")
	assert.Equal(t, 3, tbl.Col("Last Checked"))

	assert.Equal(t, [][]string{
		{"companyName", "email", "In Affinity", "Last Checked"},
		{"Acme", "ada@acme.com", "", ""},
		{"Solo", "", "", "now"},
	}, tbl.Values())
}

func TestReadWriteTable(t *testing.T) {
	ctx := context.Background()

	_, err := ReadTable(ctx, leadstest.NewMemorySheet())
	assert.Error(t, err)

	sheet := leadstest.NewMemorySheet([]string{"companyName"}, []string{"Acme"}, []string{"Old"})

	tbl, err := ReadTable(ctx, sheet)
	require.NoError(t, err)

	tbl.Rows = tbl.Rows[:1]
	tbl.Set(0, "Status", "New")

	require.NoError(t, WriteTable(ctx, sheet, tbl))
	assert.Equal(t, [][]string{{"companyName", "Status"}, {"Acme", "New"}}, sheet.Rows)
}

func TestMarkdownReport(t *testing.T) {
	tbl := NewTable([][]string{
		{"companyName", "ceoName", "email", "Affinity Status"},
		{"Beta", "Bo Li", "bo@beta.io", "Passed"},
		{"alpha", "", "", ""},
		{"", "ghost", "", "Passed"},
		{"Acme", "Ada Ng", "ada@acme.com", "Passed"},
	})

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownReport("Pipeline", tbl, "Affinity Status").Render(&buf))

	expected := `# Pipeline

## Passed (2)

- [ ] 1. **Acme**: Ada Ng <ada@acme.com>
- [ ] 2. **Beta**: Bo Li <bo@beta.io>

## Unassigned (1)

- [ ] 3. **alpha**

`
	assert.Equal(t, expected, buf.String())
}
