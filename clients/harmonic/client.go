// Package harmonic is a client for the Harmonic company and people data API.
package harmonic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tuvana1/outsourcing/clients/transport"
)

const (
	DefaultBaseURL = "https://api.harmonic.ai"

	// BatchSize is the number of URNs sent per batchGet request.
	BatchSize = 50

	watchlistPageSize = 1000
)

// Client calls the Harmonic API.
type Client struct {
	http *transport.Client
}

// New returns a client that authenticates with the apikey header.
func New(apiKey string, cfg transport.Config) (*Client, error) {
	cfg.Service = "harmonic"
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.Auth = transport.HeaderAuth("apikey", apiKey)

	tc, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{http: tc}, nil
}

// WatchlistCompanyURNs returns the company URNs saved in a watchlist,
// following the cursor until the last page. Duplicates are dropped and the
// watchlist order is kept.
func (c *Client) WatchlistCompanyURNs(ctx context.Context, watchlistURN string) ([]string, error) {
	path := "/watchlists/companies/" + watchlistURN + "/entries"
	query := url.Values{
		"size": {strconv.Itoa(watchlistPageSize)},
		"page": {"0"},
	}

	seen := mapset.NewThreadUnsafeSet[string]()

	var urns []string

	for {
		resp, err := c.http.Do(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		page := gjson.ParseBytes(resp.Body)

		var found []string

		if edges := page.Get("edges"); edges.Exists() {
			for _, e := range edges.Array() {
				found = append(found, e.Get("node.company.entity_urn").String())
			}
		} else {
			for _, e := range page.Get("entries").Array() {
				found = append(found, transport.String(e, "company_urn", "companyUrn"))
			}
		}

		for _, urn := range found {
			if urn != "" && seen.Add(urn) {
				urns = append(urns, urn)
			}
		}

		next := page.Get("page_info.next").String()
		if !page.Get("page_info.has_next").Bool() || next == "" {
			break
		}

		query = url.Values{
			"size":   {strconv.Itoa(watchlistPageSize)},
			"cursor": {next},
		}
	}

	log.Debug().Int("companies", len(urns)).Str("watchlist", watchlistURN).Msg("read watchlist")

	return urns, nil
}

// Companies fetches company records in batches.
func (c *Client) Companies(ctx context.Context, urns []string) ([]*Company, error) {
	var out []*Company

	for _, chunk := range chunks(urns, BatchSize) {
		resp, err := c.http.Do(ctx, http.MethodPost, "/companies/batchGet", nil, map[string][]string{"urns": chunk})
		if err != nil {
			return nil, err
		}

		var batch []*Company
		if err := transport.DecodeList(resp.Body, &batch, "results", "companies"); err != nil {
			return nil, fmt.Errorf("decoding companies: %w", err)
		}

		out = append(out, batch...)
	}

	return out, nil
}

// Persons fetches person records in batches, keyed by URN.
func (c *Client) Persons(ctx context.Context, urns []string) (map[string]*Person, error) {
	out := make(map[string]*Person, len(urns))

	for _, chunk := range chunks(urns, BatchSize) {
		resp, err := c.http.Do(ctx, http.MethodPost, "/persons/batchGet", nil, map[string][]string{"urns": chunk})
		if err != nil {
			return nil, err
		}

		var batch []*Person
		if err := transport.DecodeList(resp.Body, &batch, "results", "people"); err != nil {
			return nil, fmt.Errorf("decoding persons: %w", err)
		}

		for _, p := range batch {
			if urn := p.URN(); urn != "" {
				out[urn] = p
			}
		}
	}

	return out, nil
}

// Company fetches a single company by URN.
func (c *Client) Company(ctx context.Context, urn string) (*Company, error) {
	var co Company
	if err := c.http.Get(ctx, "/companies/"+lastSegment(urn), nil, &co); err != nil {
		return nil, err
	}
	return &co, nil
}

// Person fetches a single person by URN.
func (c *Client) Person(ctx context.Context, urn string) (*Person, error) {
	var p Person
	if err := c.http.Get(ctx, "/persons/"+lastSegment(urn), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Filter is one clause of a company search.
type Filter struct {
	Field       string      `json:"field"`
	Comparator  string      `json:"comparator"`
	FilterValue interface{} `json:"filter_value"`
}

// SearchPage is one page of company search results.
type SearchPage struct {
	URNs  []string
	Count int
}

// SearchCompanies runs a company search joined with "and", sorted by
// relevance, and returns one page of URNs.
func (c *Client) SearchCompanies(ctx context.Context, filters []Filter, start, size int) (*SearchPage, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"filter_group": map[string]interface{}{
				"join_operator": "and",
				"filters":       filters,
			},
			"pagination": map[string]int{
				"page_size": size,
				"start":     start,
			},
		},
		"sort": map[string]interface{}{
			"field":      "relevance_score",
			"descending": true,
		},
	}

	resp, err := c.http.Do(ctx, http.MethodPost, "/search/companies", nil, body)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(resp.Body)

	page := &SearchPage{Count: int(res.Get("count").Int())}

	for _, r := range res.Get("results").Array() {
		// Results are URNs, or objects carrying one.
		if r.IsObject() {
			page.URNs = append(page.URNs, transport.String(r, "entity_urn", "urn"))
			continue
		}
		page.URNs = append(page.URNs, r.String())
	}

	return page, nil
}

// SearchAll pages through a company search until max URNs are collected or
// the results run out.
func (c *Client) SearchAll(ctx context.Context, filters []Filter, max, pageSize int) ([]string, error) {
	var urns []string

	for len(urns) < max {
		page, err := c.SearchCompanies(ctx, filters, len(urns), pageSize)
		if err != nil {
			return nil, err
		}

		if len(page.URNs) == 0 {
			break
		}

		urns = append(urns, page.URNs...)

		log.Info().Int("fetched", len(urns)).Int("available", page.Count).Msg("searching companies")
	}

	return urns, nil
}

func lastSegment(urn string) string {
	return urn[strings.LastIndex(urn, ":")+1:]
}

func chunks(items []string, n int) [][]string {
	var out [][]string
	for n < len(items) {
		items, out = items[n:], append(out, items[:n:n])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
