// Package raising finds the sourcing list companies whose status marks them
// as raising later.
package raising

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/match"
)

// Affinity is the part of the Affinity API the scan uses.
type Affinity interface {
	ListEntries(ctx context.Context, listID int64) ([]affinity.ListEntry, error)
	FieldValues(ctx context.Context, listEntryID int64) ([]affinity.FieldValue, error)
	Notes(ctx context.Context, orgID int64, pageSize int) ([]affinity.Note, error)
}

// Company is a list entry with a raising later status.
type Company struct {
	EntryID int64
	OrgID   int64

	Name      string
	Domain    string
	Status    string
	Responded string
	Outreach  string

	TotalNotes        int
	LatestNoteDate    string
	LatestNotePreview string
}

// Header is the first row of the written sheet.
var Header = []string{
	"companyName", "domain", "Status", "Responded?", "Outreach History",
	"Total Notes", "Latest Note Date", "Latest Note Preview",
}

// Row returns the sheet row of the company.
func (c *Company) Row() []string {
	return []string{
		c.Name, c.Domain, c.Status, c.Responded, c.Outreach,
		strconv.Itoa(c.TotalNotes), c.LatestNoteDate, c.LatestNotePreview,
	}
}

// High reports whether the status is the high priority option.
func (c *Company) High() bool {
	return strings.Contains(c.Status, "High")
}

// Finder scans a list for raising later entries.
type Finder struct {
	Affinity Affinity

	StatusField    int64
	RespondedField int64
	OutreachField  int64

	// Options are the status option ids that mean raising later.
	Options mapset.Set[int64]

	// Workers bounds the concurrent field value requests.
	Workers int

	Out io.Writer
	mu  sync.Mutex
}

func (f *Finder) printf(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.Out, format, args...)
}

// check reads the field values of an entry. Entries without a raising later
// status return nil.
func (f *Finder) check(ctx context.Context, e affinity.ListEntry) (*Company, error) {
	values, err := f.Affinity.FieldValues(ctx, e.ID)
	if err != nil {
		return nil, err
	}

	c := &Company{EntryID: e.ID, OrgID: e.EntityID}
	if e.Entity != nil {
		c.Name = e.Entity.Name
		c.Domain = e.Entity.Domain
	}

	var raising bool

	for _, fv := range values {
		switch fv.FieldID {
		case f.StatusField:
			if id := fv.Value.OptionID(); id != 0 {
				c.Status = fv.Value.Text()
				raising = f.Options.Contains(id)
			}
		case f.RespondedField:
			c.Responded = fv.Value.Text()
		case f.OutreachField:
			c.Outreach = fv.Value.Text()
		}
	}

	if !raising {
		return nil, nil
	}

	return c, nil
}

// Scan checks the status of every entry concurrently and returns the
// raising later companies sorted by name. Entries whose field values cannot
// be read are logged and skipped.
func (f *Finder) Scan(ctx context.Context, entries []affinity.ListEntry) ([]*Company, error) {
	workers := f.Workers
	if workers <= 0 {
		workers = 1
	}

	f.printf("\nChecking status field (%d concurrent workers)...\n", workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu      sync.Mutex
		found   []*Company
		checked int
	)

	for _, e := range entries {
		e := e
		g.Go(func() error {
			c, err := f.check(ctx, e)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				log.Warn().Err(err).Int64("entry", e.ID).Msg("reading field values failed")
			}

			mu.Lock()
			defer mu.Unlock()

			checked++
			if c != nil {
				found = append(found, c)
				f.printf("  FOUND: %s (%s)\n", c.Name, c.Status)
			}
			if checked%500 == 0 {
				f.printf("  Checked %d/%d, found %d so far...\n", checked, len(entries), len(found))
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool {
		return strings.ToLower(found[i].Name) < strings.ToLower(found[j].Name)
	})

	f.printf("\n  Checked: %d\n  Found: %d 'Raising Later' companies\n", checked, len(found))

	return found, nil
}

// AddNotes fills in the note counts and the latest note of each company.
func (f *Finder) AddNotes(ctx context.Context, companies []*Company) {
	for i, c := range companies {
		notes, err := f.Affinity.Notes(ctx, c.OrgID, 50)
		if err != nil {
			log.Warn().Err(err).Int64("org", c.OrgID).Msg("reading notes failed")
			f.printf("  [%d/%d] %s... failed\n", i+1, len(companies), c.Name)
			continue
		}

		c.TotalNotes = len(notes)

		if len(notes) > 0 {
			sort.SliceStable(notes, func(a, b int) bool {
				return notes[a].CreatedAt > notes[b].CreatedAt
			})

			c.LatestNoteDate = notes[0].Date()
			c.LatestNotePreview = match.Truncate(notes[0].Body(), 200)
		}

		f.printf("  [%d/%d] %s... %d notes\n", i+1, len(companies), c.Name, c.TotalNotes)
	}
}

// Table returns the companies as a sheet.
func Table(companies []*Company) *leads.Table {
	t := &leads.Table{Header: Header}
	for _, c := range companies {
		t.Append(c.Row())
	}
	return t
}
