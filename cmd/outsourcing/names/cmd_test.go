package names

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvana1/outsourcing/leads/leadstest"
)

func testSheet() *leadstest.MemorySheet {
	return leadstest.NewMemorySheet(
		[]string{"companyName", "email"},
		[]string{"Acme (YC W24)", "a@acme.com"},
		[]string{"Widgets", "w@widgets.io"},
		[]string{"  "},
		[]string{"Rocket™, Inc.", ""},
	)
}

func TestPlan(t *testing.T) {
	values, err := testSheet().Values(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Update{
		{Row: 2, Old: "Acme (YC W24)", New: "Acme"},
		{Row: 5, Old: "Rocket™, Inc.", New: "Rocket"},
	}, Plan(values))
}

func TestRun(t *testing.T) {
	sheet := testSheet()
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), out, sheet, false))

	assert.Equal(t, []string{"Acme", "Widgets", "  ", "Rocket"}, sheet.Column("companyName"))
	assert.Equal(t, 2, sheet.Writes)
	assert.Contains(t, out.String(), `Row 2: "Acme (YC W24)" -> "Acme"`)
	assert.Contains(t, out.String(), "Updated 2 company names")

	out.Reset()
	require.NoError(t, run(context.Background(), out, sheet, false))
	assert.Contains(t, out.String(), "All company names are already clean")
}

func TestRunDryRun(t *testing.T) {
	sheet := testSheet()
	out := &bytes.Buffer{}

	require.NoError(t, run(context.Background(), out, sheet, true))

	assert.Equal(t, 0, sheet.Writes)
	assert.Equal(t, "Acme (YC W24)", sheet.Rows[1][0])
}
