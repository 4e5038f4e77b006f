// Package lemlisttest runs an in-memory Lemlist API for tests.
package lemlisttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tuvana1/outsourcing/clients/lemlist"
	"github.com/tuvana1/outsourcing/clients/transport"
)

// Server records the leads added to each campaign.
type Server struct {
	mu sync.Mutex

	// Leads maps campaign id to email to lead.
	Leads map[string]map[string]lemlist.Lead

	// Reject maps an email to the status code returned for it.
	Reject map[string]int

	srv *httptest.Server
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		Leads:  make(map[string]map[string]lemlist.Lead),
		Reject: make(map[string]int),
	}

	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)

	return s
}

// Client returns an API client for the server.
func (s *Server) Client(t testing.TB) *lemlist.Client {
	c, err := lemlist.New("test-key", transport.Config{BaseURL: s.srv.URL, HTTPClient: s.srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// Campaign returns the leads of a campaign.
func (s *Server) Campaign(id string) map[string]lemlist.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Leads[id]
}

// Add places a lead in a campaign.
func (s *Server) Add(campaignID string, lead lemlist.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(campaignID, lead)
}

func (s *Server) add(campaignID string, lead lemlist.Lead) {
	if s.Leads[campaignID] == nil {
		s.Leads[campaignID] = make(map[string]lemlist.Lead)
	}
	s.Leads[campaignID][lead.Email] = lead
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	// /api/campaigns/{id}/leads/{email}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if r.Method != http.MethodPost || len(parts) != 5 || parts[1] != "campaigns" || parts[3] != "leads" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	campaign, email := parts[2], parts[4]

	if code, ok := s.Reject[email]; ok {
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"error": "rejected"})
		return
	}

	if _, ok := s.Leads[campaign][email]; ok {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Lead already in the campaign"})
		return
	}

	var lead lemlist.Lead
	json.NewDecoder(r.Body).Decode(&lead)
	lead.Email = email

	s.add(campaign, lead)

	json.NewEncoder(w).Encode(map[string]string{"_id": "lea_" + email})
}
