package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeSheets struct {
	updates map[string][][]interface{}
	cleared []string
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix = "/v4/spreadsheets/sheet-1"

	switch {
	case r.URL.Path == prefix:
		fmt.Fprint(w, `{"spreadsheetId": "sheet-1", "sheets": [{"properties": {"title": "Bob's Leads"}}, {"properties": {"title": "Other"}}]}`)

	case strings.HasSuffix(r.URL.Path, ":clear"):
		f.cleared = append(f.cleared, strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix+"/values/"), ":clear"))
		fmt.Fprint(w, `{}`)

	case strings.HasPrefix(r.URL.Path, prefix+"/values/") && r.Method == http.MethodGet:
		fmt.Fprint(w, `{"values": [["companyName", "email"], ["Acme", "ada@acme.com"], ["Solo"]]}`)

	case strings.HasPrefix(r.URL.Path, prefix+"/values/") && r.Method == http.MethodPut:
		var vr struct {
			Values [][]interface{} `json:"values"`
		}
		json.NewDecoder(r.Body).Decode(&vr)
		f.updates[strings.TrimPrefix(r.URL.Path, prefix+"/values/")+"?"+r.URL.Query().Get("valueInputOption")] = vr.Values
		fmt.Fprint(w, `{}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func openFake(t *testing.T) (*Worksheet, *fakeSheets) {
	fake := &fakeSheets{updates: map[string][][]interface{}{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	w, err := Open(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return w, fake
}

func TestOpenResolvesFirstSheet(t *testing.T) {
	w, _ := openFake(t)
	assert.Equal(t, "Bob's Leads", w.Title())
	assert.Equal(t, "'Bob''s Leads'!A2", w.a1("A2"))
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/sheet-1", w.URL())
}

func TestValues(t *testing.T) {
	w, _ := openFake(t)

	rows, err := w.Values(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"companyName", "email"}, {"Acme", "ada@acme.com"}, {"Solo"}}, rows)
}

func TestClearAndUpdate(t *testing.T) {
	w, fake := openFake(t)
	ctx := context.Background()

	require.NoError(t, w.Clear(ctx))
	assert.Equal(t, []string{"'Bob''s Leads'"}, fake.cleared)

	require.NoError(t, w.Update(ctx, "A1", [][]string{{"companyName"}, {"=1+1"}}))
	assert.Equal(t, [][]interface{}{{"companyName"}, {"=1+1"}}, fake.updates["'Bob''s Leads'!A1?RAW"])
}
