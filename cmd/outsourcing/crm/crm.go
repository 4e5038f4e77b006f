// Package crm holds the commands that reconcile the spreadsheet and lead
// files with Affinity.
package crm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

// Affinity is the part of the Affinity API the commands use.
type Affinity interface {
	FindOrganization(ctx context.Context, name, domain string) (*affinity.Organization, error)
	Organization(ctx context.Context, id int64) (*affinity.Organization, error)
	CreateOrganization(ctx context.Context, name, domain string) (*affinity.Organization, error)
	AddToList(ctx context.Context, listID, entityID int64) (*affinity.ListEntry, error)
	Fields(ctx context.Context, listID int64) ([]affinity.Field, error)
	FieldValues(ctx context.Context, listEntryID int64) ([]affinity.FieldValue, error)
	Notes(ctx context.Context, orgID int64, pageSize int) ([]affinity.Note, error)
	Interactions(ctx context.Context, orgID int64, pageSize int) ([]affinity.Interaction, error)
}

// Checker runs the Affinity lookups of the commands and prints progress.
type Checker struct {
	Affinity Affinity
	Settings config.Affinity
	Out      io.Writer
	Now      func() time.Time

	// fields maps sourcing list field ids to lowercased names.
	fields map[int64]string
}

func (c *Checker) timestamp() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().Format("2006-01-02 15:04:05")
}

func (c *Checker) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// find matches an organization by domain, then by name. A company that is
// not in Affinity returns nil without error.
func (c *Checker) find(ctx context.Context, name, domain string) (*affinity.Organization, error) {
	org, err := c.Affinity.FindOrganization(ctx, name, domain)
	if errors.Is(err, affinity.ErrNotFound) {
		return nil, nil
	}
	return org, err
}

// detail fetches an organization with its list entries. A deleted
// organization yields the search result without entries.
func (c *Checker) detail(ctx context.Context, org *affinity.Organization) (*affinity.Organization, error) {
	d, err := c.Affinity.Organization(ctx, org.ID)
	if errors.Is(err, affinity.ErrNotFound) {
		return org, nil
	}
	return d, err
}

// EntryValues are the sourcing list fields of an entry.
type EntryValues struct {
	Status    string
	Responded string
	Outreach  string
}

func (c *Checker) entryValues(ctx context.Context, entryID int64) (EntryValues, error) {
	var ev EntryValues

	values, err := c.Affinity.FieldValues(ctx, entryID)
	if err != nil {
		return ev, err
	}

	for _, fv := range values {
		switch fv.FieldID {
		case c.Settings.StatusField:
			ev.Status = fv.Value.Text()
		case c.Settings.RespondedField:
			ev.Responded = fv.Value.Text()
		case c.Settings.OutreachField:
			ev.Outreach = fv.Value.Text()
		}
	}

	return ev, nil
}

// rowDomain returns the domain column of a row, else the domain of its
// email address.
func rowDomain(t *leads.Table, row int) string {
	if d := strings.ToLower(t.Get(row, "domain")); d != "" {
		return d
	}
	return match.EmailDomain(t.Get(row, "email"))
}
