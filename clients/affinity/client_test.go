package affinity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuvana1/outsourcing/clients/transport"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New("a-key", transport.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestFindOrganization(t *testing.T) {
	var terms []string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, pass, _ := r.BasicAuth()
		assert.Equal(t, "a-key", pass)
		assert.Equal(t, "/organizations", r.URL.Path)

		term := r.URL.Query().Get("term")
		terms = append(terms, term)

		switch term {
		case "acme.com":
			// Substring hits must not count as a domain match.
			fmt.Fprint(w, `{"organizations": [{"id": 1, "name": "Acme Old", "domain": "acme.com.au"}]}`)
		case "Acme, Inc.":
			fmt.Fprint(w, `[{"id": 2, "name": "Acme Labs"}, {"id": 3, "name": "ACME Inc"}]`)
		case "widgets.io":
			fmt.Fprint(w, `{"organizations": [{"id": 4, "name": "Widgets", "domain": "Widgets.io"}]}`)
		default:
			fmt.Fprint(w, `{"organizations": []}`)
		}
	})

	ctx := context.Background()

	org, err := c.FindOrganization(ctx, "Acme, Inc.", "acme.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), org.ID)
	assert.Equal(t, []string{"acme.com", "Acme, Inc."}, terms)

	org, err = c.FindOrganization(ctx, "Other Name", "widgets.io")
	require.NoError(t, err)
	assert.Equal(t, int64(4), org.ID)

	_, err = c.FindOrganization(ctx, "Nobody", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndAddToList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))

		switch r.URL.Path {
		case "/organizations":
			assert.Equal(t, "Acme", in["name"])
			assert.Equal(t, "acme.com", in["domain"])
			fmt.Fprint(w, `{"id": 10, "name": "Acme"}`)
		case "/lists/21/list-entries":
			assert.Equal(t, float64(10), in["entity_id"])
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id": 99, "list_id": 21, "entity_id": 10}`)
		}
	})

	ctx := context.Background()

	org, err := c.CreateOrganization(ctx, "Acme", "acme.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), org.ID)

	entry, err := c.AddToList(ctx, 21, org.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(99), entry.ID)
}

func TestListEntriesPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "500", r.URL.Query().Get("page_size"))

		switch r.URL.Query().Get("page_token") {
		case "":
			fmt.Fprint(w, `{"list_entries": [{"id": 1}, {"id": 2}], "next_page_token": "p2"}`)
		case "p2":
			fmt.Fprint(w, `{"list_entries": [{"id": 3, "entity": {"name": "Acme"}}], "next_page_token": null}`)
		}
	})

	entries, err := c.ListEntries(context.Background(), 21)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Acme", entries[2].Entity.Name)
}

func TestPriorContact(t *testing.T) {
	orgs := map[string]string{
		"/organizations/1": `{"id": 1, "list_entries": [{"id": 5, "list_id": 21}]}`,
		"/organizations/2": `{"id": 2, "list_entries": []}`,
		"/organizations/3": `{"id": 3, "list_entries": [{"id": 6, "list_id": 99}]}`,
		"/organizations/4": `{"id": 4}`,
	}

	notes := map[string]string{
		"2": `{"notes": [{"id": 1}, {"id": 2}]}`,
		"3": `{"notes": []}`,
		"4": `[]`,
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/notes" {
			assert.Equal(t, "5", r.URL.Query().Get("page_size"))
			fmt.Fprint(w, notes[r.URL.Query().Get("organization_id")])
			return
		}

		body, ok := orgs[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	})

	tests := []struct {
		id     int64
		has    bool
		reason string
	}{
		{1, true, "On Sourcing"},
		{2, true, "2 notes"},
		{3, true, "On other Affinity list"},
		{4, false, ""},
		{5, false, ""},
	}

	for _, tt := range tests {
		has, reason, err := c.PriorContact(context.Background(), tt.id, 21, "Sourcing")
		require.NoError(t, err)
		assert.Equal(t, tt.has, has, "org %d", tt.id)
		assert.Equal(t, tt.reason, reason, "org %d", tt.id)
	}
}

func TestFieldValuesAndValue(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "77", r.URL.Query().Get("list_entry_id"))
		fmt.Fprint(w, `[
			{"field_id": 1, "value": {"id": 153028, "text": "Raising Later"}},
			{"field_id": 2, "value": "Yes"},
			{"field_id": 3, "value": 4},
			{"field_id": 4, "value": null},
			{"field_id": 5, "value": false}
		]`)
	})

	values, err := c.FieldValues(context.Background(), 77)
	require.NoError(t, err)
	require.Len(t, values, 5)

	assert.Equal(t, "Raising Later", values[0].Value.Text())
	assert.Equal(t, int64(153028), values[0].Value.OptionID())
	assert.Equal(t, "Yes", values[1].Value.Text())
	assert.Equal(t, "4", values[2].Value.Text())
	assert.Equal(t, "", values[3].Value.Text())

	assert.True(t, values[1].Value.Truthy())
	assert.False(t, values[3].Value.Truthy())
	assert.False(t, values[4].Value.Truthy())
}

func TestFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fields", r.URL.Path)
		assert.Equal(t, "21233", r.URL.Query().Get("list_id"))
		fmt.Fprint(w, `[{"id": 175381, "name": "Status", "list_id": 21233}, {"id": 9, "name": "Contacted?", "list_id": null}]`)
	})

	fields, err := c.Fields(context.Background(), 21233)
	require.NoError(t, err)

	assert.Equal(t, []Field{
		{ID: 175381, Name: "Status", ListID: 21233},
		{ID: 9, Name: "Contacted?"},
	}, fields)
}

func TestNotesAndInteractions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notes":
			fmt.Fprint(w, `[{"id": 1, "type": 0, "content": "<p>Intro</p>", "created_at": "2024-05-01T10:00:00Z", "creator": {"first_name": "Jo", "last_name": "Lee"}}]`)
		case "/interactions":
			fmt.Fprint(w, `{"interactions": [{"type": "email", "date": "2024-06-02T08:00:00Z", "subject": "Hello"}]}`)
		}
	})

	ctx := context.Background()

	notes, err := c.Notes(ctx, 1, 50)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "0", notes[0].Type.String())
	assert.Equal(t, "2024-05-01", notes[0].Date())
	assert.Equal(t, "Jo Lee", notes[0].Creator.FullName())

	interactions, err := c.Interactions(ctx, 1, 50)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, "2024-06-02", interactions[0].Day())
	assert.Equal(t, "email", interactions[0].Type.String())
}
