// Package affinitytest runs an in-memory Affinity API for tests.
package affinitytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/clients/transport"
	"github.com/tuvana1/outsourcing/match"
)

// Server serves organizations, lists, field values, notes and
// interactions from memory.
type Server struct {
	mu sync.Mutex

	Orgs         map[int64]*affinity.Organization
	Notes        map[int64][]affinity.Note
	Interactions map[int64][]affinity.Interaction
	Fields       []affinity.Field
	Values       map[int64][]affinity.FieldValue

	// FailCreate makes organization creation fail with HTTP 500.
	FailCreate bool

	// Requests counts calls per path.
	Requests map[string]int

	order  []int64
	nextID int64
	srv    *httptest.Server
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		Orgs:         make(map[int64]*affinity.Organization),
		Notes:        make(map[int64][]affinity.Note),
		Interactions: make(map[int64][]affinity.Interaction),
		Values:       make(map[int64][]affinity.FieldValue),
		Requests:     make(map[string]int),
		nextID:       1000,
	}

	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)

	return s
}

// Client returns an API client for the server.
func (s *Server) Client(t testing.TB) *affinity.Client {
	c, err := affinity.New("test-key", transport.Config{BaseURL: s.srv.URL, HTTPClient: s.srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddOrg stores an organization.
func (s *Server) AddOrg(name, domain string) *affinity.Organization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addOrg(name, domain)
}

func (s *Server) addOrg(name, domain string) *affinity.Organization {
	org := &affinity.Organization{ID: s.id(), Name: name, Domain: domain}
	s.Orgs[org.ID] = org
	s.order = append(s.order, org.ID)
	return org
}

// AddEntry places an organization on a list.
func (s *Server) AddEntry(orgID, listID int64) *affinity.ListEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEntry(orgID, listID)
}

func (s *Server) addEntry(orgID, listID int64) *affinity.ListEntry {
	org := s.Orgs[orgID]
	org.ListEntries = append(org.ListEntries, affinity.ListEntry{
		ID:        s.id(),
		ListID:    listID,
		EntityID:  orgID,
		CreatedAt: "2024-01-01T00:00:00Z",
	})
	return &org.ListEntries[len(org.ListEntries)-1]
}

// SetValue sets a field value of a list entry from JSON.
func (s *Server) SetValue(entryID, fieldID int64, js string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Values[entryID] = append(s.Values[entryID], affinity.FieldValue{
		ID:          s.id(),
		FieldID:     fieldID,
		ListEntryID: entryID,
		Value:       affinity.RawValue(js),
	})
}

// AddNote attaches a note to an organization.
func (s *Server) AddNote(orgID int64, createdAt, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Notes[orgID] = append(s.Notes[orgID], affinity.Note{
		ID:        s.id(),
		Content:   content,
		CreatedAt: createdAt,
	})
}

// OnList reports whether an organization is on a list.
func (s *Server) OnList(orgID, listID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.Orgs[orgID]
	if !ok {
		return false
	}
	_, ok = org.Entry(listID)
	return ok
}

// FindByName returns the stored organization with the exact name.
func (s *Server) FindByName(name string) *affinity.Organization {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if s.Orgs[id].Name == name {
			return s.Orgs[id]
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return id
}

func limit(r *http.Request, n int) int {
	size, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || size <= 0 || size > n {
		return n
	}
	return size
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests[r.URL.Path]++

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.URL.Path == "/organizations" && r.Method == http.MethodGet:
		term := r.URL.Query().Get("term")
		name := match.NormalizeName(term)

		var out []affinity.Organization
		for _, id := range s.order {
			org := s.Orgs[id]
			byName := name != "" && strings.Contains(match.NormalizeName(org.Name), name)
			if byName || strings.Contains(strings.ToLower(org.Domain), strings.ToLower(term)) {
				o := *org
				o.ListEntries = nil
				out = append(out, o)
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"organizations": out})

	case r.URL.Path == "/organizations" && r.Method == http.MethodPost:
		if s.FailCreate {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "unavailable"})
			return
		}

		var in struct {
			Name   string `json:"name"`
			Domain string `json:"domain"`
		}
		json.NewDecoder(r.Body).Decode(&in)

		writeJSON(w, http.StatusOK, s.addOrg(in.Name, in.Domain))

	case len(parts) == 2 && parts[0] == "organizations":
		id, _ := strconv.ParseInt(parts[1], 10, 64)
		org, ok := s.Orgs[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, org)

	case len(parts) == 3 && parts[0] == "lists" && parts[2] == "list-entries":
		listID, _ := strconv.ParseInt(parts[1], 10, 64)

		if r.Method == http.MethodPost {
			var in struct {
				EntityID int64 `json:"entity_id"`
			}
			json.NewDecoder(r.Body).Decode(&in)

			if _, ok := s.Orgs[in.EntityID]; !ok {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown entity"})
				return
			}

			writeJSON(w, http.StatusCreated, s.addEntry(in.EntityID, listID))
			return
		}

		var entries []affinity.ListEntry
		for _, id := range s.order {
			org := s.Orgs[id]
			if e, ok := org.Entry(listID); ok {
				entry := *e
				entity := *org
				entity.ListEntries = nil
				entry.Entity = &entity
				entries = append(entries, entry)
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"list_entries": entries, "next_page_token": nil})

	case r.URL.Path == "/fields":
		listID := queryID(r, "list_id")

		var out []affinity.Field
		for _, f := range s.Fields {
			if f.ListID == 0 || f.ListID == listID {
				out = append(out, f)
			}
		}
		writeJSON(w, http.StatusOK, out)

	case r.URL.Path == "/field-values":
		values := s.Values[queryID(r, "list_entry_id")]
		if values == nil {
			values = []affinity.FieldValue{}
		}
		writeJSON(w, http.StatusOK, values)

	case r.URL.Path == "/notes":
		notes := s.Notes[queryID(r, "organization_id")]
		writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes[:limit(r, len(notes))]})

	case r.URL.Path == "/interactions":
		items := s.Interactions[queryID(r, "organization_id")]
		writeJSON(w, http.StatusOK, map[string]interface{}{"interactions": items[:limit(r, len(items))]})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no route"})
	}
}
