package raising

import (
	"bytes"
	"context"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuvana1/outsourcing/clients/affinity/affinitytest"
)

const (
	listID      = 21233
	statusField = 175381
	respondedID = 175387
	high        = 2573467
	later       = 153028
)

func TestFinderRun(t *testing.T) {
	srv := affinitytest.NewServer(t)

	zeta := srv.AddOrg("Zeta", "zeta.io")
	e := srv.AddEntry(zeta.ID, listID)
	srv.SetValue(e.ID, statusField, `{"id": 153028, "text": "Raising Later"}`)
	srv.SetValue(e.ID, respondedID, `"Yes"`)
	srv.AddNote(zeta.ID, "2025-01-02T00:00:00Z", "first call")
	srv.AddNote(zeta.ID, "2025-03-04T00:00:00Z", "follow up\nin Q3")

	alpha := srv.AddOrg("Alpha", "alpha.com")
	e = srv.AddEntry(alpha.ID, listID)
	srv.SetValue(e.ID, statusField, `{"id": 2573467, "text": "Raising Later (High)"}`)

	passed := srv.AddOrg("Passed Co", "passed.co")
	e = srv.AddEntry(passed.ID, listID)
	srv.SetValue(e.ID, statusField, `{"id": 1, "text": "Passed"}`)

	other := srv.AddOrg("Elsewhere", "elsewhere.com")
	e = srv.AddEntry(other.ID, 99)
	srv.SetValue(e.ID, statusField, `{"id": 153028, "text": "Raising Later"}`)

	srv.AddEntry(srv.AddOrg("Blank", "").ID, listID)

	out := &bytes.Buffer{}

	f := &Finder{
		Affinity:       srv.Client(t),
		StatusField:    statusField,
		RespondedField: respondedID,
		Options:        mapset.NewSet[int64](high, later),
		Workers:        3,
		Out:            out,
	}

	companies, err := f.Run(context.Background(), listID)
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, "Alpha", companies[0].Name)
	assert.True(t, companies[0].High())
	assert.Equal(t, 0, companies[0].TotalNotes)

	assert.Equal(t, []string{
		"Zeta", "zeta.io", "Raising Later", "Yes", "",
		"2", "2025-03-04", "follow up in Q3",
	}, companies[1].Row())
	assert.False(t, companies[1].High())

	assert.Contains(t, out.String(), "Total: 4 entries")
	assert.Contains(t, out.String(), "FOUND: Zeta (Raising Later)")

	tbl := Table(companies)
	assert.Equal(t, Header, tbl.Header)
	assert.Equal(t, 2, tbl.Len())
}
