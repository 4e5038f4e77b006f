package lemlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuvana1/outsourcing/clients/transport"
)

func TestAddLead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, pass, _ := r.BasicAuth()
		assert.Equal(t, "l-key", pass)

		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Ada", in["firstName"])
		assert.Equal(t, "Acme", in["companyName"])
		assert.NotContains(t, in, "Email")

		switch r.URL.Path {
		case "/api/campaigns/cam_1/leads/ada@acme.com":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"_id":"lea_1"}`))
		case "/api/campaigns/cam_1/leads/dup@acme.com":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`Lead already in the campaign`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`invalid email`))
		}
	}))
	defer srv.Close()

	c, err := New("l-key", transport.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	ctx := context.Background()
	lead := Lead{FirstName: "Ada", CompanyName: "Acme"}

	lead.Email = "ada@acme.com"
	out, err := c.AddLead(ctx, "cam_1", lead)
	require.NoError(t, err)
	assert.Equal(t, Added, out)

	lead.Email = "dup@acme.com"
	out, err = c.AddLead(ctx, "cam_1", lead)
	require.NoError(t, err)
	assert.Equal(t, AlreadyExists, out)
	assert.Equal(t, "already exists", out.String())

	lead.Email = "bad"
	_, err = c.AddLead(ctx, "cam_1", lead)
	assert.Equal(t, http.StatusBadRequest, transport.StatusCode(err))
}
