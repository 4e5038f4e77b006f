// Package sheets reads and writes the first worksheet of a Google
// spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Worksheet is the first sheet of a spreadsheet.
type Worksheet struct {
	svc           *sheets.Service
	spreadsheetID string
	title         string
}

// Open connects to the spreadsheet and resolves its first sheet.
func Open(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Worksheet, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	doc, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", spreadsheetID, err)
	}

	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}

	w := &Worksheet{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		title:         doc.Sheets[0].Properties.Title,
	}

	log.Debug().Str("spreadsheet", spreadsheetID).Str("sheet", w.title).Msg("opened worksheet")

	return w, nil
}

// Title returns the sheet name.
func (w *Worksheet) Title() string {
	return w.title
}

// URL returns the browser link of the spreadsheet.
func (w *Worksheet) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + w.spreadsheetID
}

// a1 qualifies a cell reference with the quoted sheet name.
func (w *Worksheet) a1(cell string) string {
	name := "'" + strings.ReplaceAll(w.title, "'", "''") + "'"
	if cell == "" {
		return name
	}
	return name + "!" + cell
}

// Values returns every non-empty row of the sheet as text.
func (w *Worksheet) Values(ctx context.Context) ([][]string, error) {
	resp, err := w.svc.Spreadsheets.Values.Get(w.spreadsheetID, w.a1("")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", w.title, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprint(v)
		}
	}

	return rows, nil
}

// Clear empties the sheet.
func (w *Worksheet) Clear(ctx context.Context) error {
	_, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, w.a1(""), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheet %q: %w", w.title, err)
	}
	return nil
}

// Update writes rows starting at cell, e.g. "A1". Values are stored as
// entered, without formula or number parsing.
func (w *Worksheet) Update(ctx context.Context, cell string, rows [][]string) error {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, v := range row {
			values[i][j] = v
		}
	}

	vr := &sheets.ValueRange{Values: values}

	_, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, w.a1(cell), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()

	if err != nil {
		return fmt.Errorf("writing sheet %q at %s: %w", w.title, cell, err)
	}

	return nil
}
