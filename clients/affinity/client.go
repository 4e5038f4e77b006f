// Package affinity is a client for the Affinity CRM v1 API.
package affinity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tuvana1/outsourcing/clients/transport"
	"github.com/tuvana1/outsourcing/match"
)

const (
	DefaultBaseURL = "https://api.affinity.co"

	searchPageSize    = 10
	listEntryPageSize = 500
)

// ErrNotFound is returned when no organization matches exactly.
var ErrNotFound = errors.New("organization not found")

// Client calls the Affinity API.
type Client struct {
	http *transport.Client
}

// New returns a client authenticating with the API key as basic auth
// password.
func New(apiKey string, cfg transport.Config) (*Client, error) {
	cfg.Service = "affinity"
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.Auth = transport.BasicAuth("", apiKey)

	tc, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{http: tc}, nil
}

func (c *Client) getList(ctx context.Context, path string, query url.Values, out interface{}, keys ...string) error {
	resp, err := c.http.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return transport.DecodeList(resp.Body, out, keys...)
}

// SearchOrganizations runs a term search over organization names and domains.
func (c *Client) SearchOrganizations(ctx context.Context, term string) ([]Organization, error) {
	var orgs []Organization

	query := url.Values{
		"term":      {term},
		"page_size": {strconv.Itoa(searchPageSize)},
	}

	if err := c.getList(ctx, "/organizations", query, &orgs, "organizations"); err != nil {
		return nil, err
	}

	return orgs, nil
}

// FindByDomain returns the organization whose domain equals domain.
func (c *Client) FindByDomain(ctx context.Context, domain string) (*Organization, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, ErrNotFound
	}

	orgs, err := c.SearchOrganizations(ctx, domain)
	if err != nil {
		return nil, err
	}

	for i := range orgs {
		if match.SameDomain(orgs[i].Domain, domain) {
			return &orgs[i], nil
		}
	}

	return nil, ErrNotFound
}

// FindByName returns the organization whose normalized name equals the
// normalized name. There is no fuzzy fallback.
func (c *Client) FindByName(ctx context.Context, name string) (*Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNotFound
	}

	orgs, err := c.SearchOrganizations(ctx, name)
	if err != nil {
		return nil, err
	}

	for i := range orgs {
		if match.SameName(orgs[i].Name, name) {
			return &orgs[i], nil
		}
	}

	return nil, ErrNotFound
}

// FindOrganization matches by domain first, then by name.
func (c *Client) FindOrganization(ctx context.Context, name, domain string) (*Organization, error) {
	org, err := c.FindByDomain(ctx, domain)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return org, err
	}
	return c.FindByName(ctx, name)
}

// Organization fetches an organization with its list entries.
func (c *Client) Organization(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	if err := c.http.Get(ctx, "/organizations/"+Itoa(id), nil, &org); err != nil {
		if transport.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// CreateOrganization creates a global organization.
func (c *Client) CreateOrganization(ctx context.Context, name, domain string) (*Organization, error) {
	body := map[string]string{"name": name}
	if domain != "" {
		body["domain"] = domain
	}

	var org Organization
	if err := c.http.Post(ctx, "/organizations", body, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// AddToList adds an entity to a list.
func (c *Client) AddToList(ctx context.Context, listID, entityID int64) (*ListEntry, error) {
	var entry ListEntry
	err := c.http.Post(ctx, "/lists/"+Itoa(listID)+"/list-entries", map[string]int64{"entity_id": entityID}, &entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns every entry of a list, following page tokens.
func (c *Client) ListEntries(ctx context.Context, listID int64) ([]ListEntry, error) {
	var (
		all   []ListEntry
		token string
	)

	for {
		query := url.Values{"page_size": {strconv.Itoa(listEntryPageSize)}}
		if token != "" {
			query.Set("page_token", token)
		}

		resp, err := c.http.Do(ctx, http.MethodGet, "/lists/"+Itoa(listID)+"/list-entries", query, nil)
		if err != nil {
			return nil, err
		}

		var page []ListEntry
		if err := transport.DecodeList(resp.Body, &page, "list_entries"); err != nil {
			return nil, fmt.Errorf("decoding list entries: %w", err)
		}
		all = append(all, page...)

		token = gjson.GetBytes(resp.Body, "next_page_token").String()
		if token == "" {
			break
		}

		log.Debug().Int("entries", len(all)).Int64("list", listID).Msg("paging list entries")
	}

	return all, nil
}

// Fields returns the fields defined on a list.
func (c *Client) Fields(ctx context.Context, listID int64) ([]Field, error) {
	var fields []Field
	if err := c.getList(ctx, "/fields", url.Values{"list_id": {Itoa(listID)}}, &fields, "fields"); err != nil {
		return nil, err
	}
	return fields, nil
}

// FieldValues returns the values of a list entry.
func (c *Client) FieldValues(ctx context.Context, listEntryID int64) ([]FieldValue, error) {
	var values []FieldValue
	if err := c.getList(ctx, "/field-values", url.Values{"list_entry_id": {Itoa(listEntryID)}}, &values, "field_values"); err != nil {
		return nil, err
	}
	return values, nil
}

// Notes returns up to pageSize notes of an organization.
func (c *Client) Notes(ctx context.Context, orgID int64, pageSize int) ([]Note, error) {
	var notes []Note

	query := url.Values{
		"organization_id": {Itoa(orgID)},
		"page_size":       {strconv.Itoa(pageSize)},
	}

	if err := c.getList(ctx, "/notes", query, &notes, "notes"); err != nil {
		return nil, err
	}
	return notes, nil
}

// Interactions returns up to pageSize interactions of an organization.
func (c *Client) Interactions(ctx context.Context, orgID int64, pageSize int) ([]Interaction, error) {
	var out []Interaction

	query := url.Values{
		"organization_id": {Itoa(orgID)},
		"page_size":       {strconv.Itoa(pageSize)},
	}

	if err := c.getList(ctx, "/interactions", query, &out, "interactions", "emails"); err != nil {
		return nil, err
	}
	return out, nil
}

// PriorContact reports whether the organization already has a relationship
// with the team: an entry on the target list, notes, or an entry on any
// other list. The reason describes which one.
func (c *Client) PriorContact(ctx context.Context, orgID, targetList int64, targetName string) (bool, string, error) {
	org, err := c.Organization(ctx, orgID)
	if errors.Is(err, ErrNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}

	if _, ok := org.Entry(targetList); ok {
		return true, "On " + targetName, nil
	}

	notes, err := c.Notes(ctx, orgID, 5)
	if err != nil {
		return false, "", err
	}

	if len(notes) > 0 {
		return true, fmt.Sprintf("%d notes", len(notes)), nil
	}

	if len(org.ListEntries) > 0 {
		return true, "On other Affinity list", nil
	}

	return false, "", nil
}
