// Package lemlist adds leads to Lemlist outreach campaigns.
package lemlist

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tuvana1/outsourcing/clients/transport"
)

const DefaultBaseURL = "https://api.lemlist.com"

// Outcome is the result of adding a lead.
type Outcome int

const (
	Added Outcome = iota
	AlreadyExists
)

func (o Outcome) String() string {
	if o == AlreadyExists {
		return "already exists"
	}
	return "added"
}

// Lead is a campaign recipient.
type Lead struct {
	Email       string `json:"-"`
	FirstName   string `json:"firstName"`
	CompanyName string `json:"companyName"`
}

// Client calls the Lemlist API.
type Client struct {
	http *transport.Client
}

// New returns a client authenticating with the API key as basic auth
// password.
func New(apiKey string, cfg transport.Config) (*Client, error) {
	cfg.Service = "lemlist"
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

// AddLead adds a lead to a campaign. A lead that is already in the
// campaign is reported as AlreadyExists rather than as an error.
func (c *Client) AddLead(ctx context.Context, campaignID string, lead Lead) (Outcome, error) {
	path := "/api/campaigns/" + url.PathEscape(campaignID) + "/leads/" + url.PathEscape(lead.Email)

	_, err := c.http.Do(ctx, http.MethodPost, path, nil, lead)
	if transport.StatusCode(err) == http.StatusConflict {
		return AlreadyExists, nil
	}
	if err != nil {
		return 0, err
	}

	return Added, nil
}
