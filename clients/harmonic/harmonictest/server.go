// Package harmonictest runs an in-memory Harmonic API for tests.
package harmonictest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/clients/transport"
)

// Server serves watchlists, companies, persons and company search from
// memory. Companies and persons are keyed by the last segment of their URN.
type Server struct {
	mu sync.Mutex

	Watchlists map[string][]string
	Companies  map[string]*harmonic.Company
	Persons    map[string]*harmonic.Person

	// SearchResults are returned by company search in order.
	SearchResults []string

	// Searches records the filters of every search request.
	Searches [][]harmonic.Filter

	srv *httptest.Server
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		Watchlists: make(map[string][]string),
		Companies:  make(map[string]*harmonic.Company),
		Persons:    make(map[string]*harmonic.Person),
	}

	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)

	return s
}

// Client returns an API client for the server.
func (s *Server) Client(t testing.TB) *harmonic.Client {
	c, err := harmonic.New("test-key", transport.Config{BaseURL: s.srv.URL, HTTPClient: s.srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func key(urn string) string {
	return urn[strings.LastIndex(urn, ":")+1:]
}

// AddCompany stores a company under its URN.
func (s *Server) AddCompany(c *harmonic.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Companies[key(c.URN())] = c
}

// AddPerson stores a person under its URN.
func (s *Server) AddPerson(p *harmonic.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Persons[key(p.URN())] = p
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Header.Get("apikey") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing apikey"})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 4 && parts[0] == "watchlists" && parts[3] == "entries":
		var entries []map[string]string
		for _, urn := range s.Watchlists[parts[2]] {
			entries = append(entries, map[string]string{"company_urn": urn})
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"entries":   entries,
			"page_info": map[string]bool{"has_next": false},
		})

	case r.URL.Path == "/companies/batchGet", r.URL.Path == "/persons/batchGet":
		var in struct {
			URNs []string `json:"urns"`
		}
		json.NewDecoder(r.Body).Decode(&in)

		results := []interface{}{}
		for _, urn := range in.URNs {
			if parts[0] == "companies" {
				if c, ok := s.Companies[key(urn)]; ok {
					results = append(results, c)
				}
				continue
			}
			if p, ok := s.Persons[key(urn)]; ok {
				results = append(results, p)
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})

	case len(parts) == 2 && parts[0] == "companies":
		if c, ok := s.Companies[parts[1]]; ok {
			writeJSON(w, http.StatusOK, c)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})

	case len(parts) == 2 && parts[0] == "persons":
		if p, ok := s.Persons[parts[1]]; ok {
			writeJSON(w, http.StatusOK, p)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})

	case r.URL.Path == "/search/companies":
		var in struct {
			Query struct {
				FilterGroup struct {
					Filters []harmonic.Filter `json:"filters"`
				} `json:"filter_group"`
				Pagination struct {
					PageSize int `json:"page_size"`
					Start    int `json:"start"`
				} `json:"pagination"`
			} `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&in)

		s.Searches = append(s.Searches, in.Query.FilterGroup.Filters)

		start, size := in.Query.Pagination.Start, in.Query.Pagination.PageSize

		page := []string{}
		if start < len(s.SearchResults) {
			end := start + size
			if end > len(s.SearchResults) {
				end = len(s.SearchResults)
			}
			page = s.SearchResults[start:end]
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"results": page,
			"count":   len(s.SearchResults),
		})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no route"})
	}
}
