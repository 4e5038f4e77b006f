// Package leadstest provides an in-memory spreadsheet for tests.
package leadstest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MemorySheet is a leads.Sheet backed by a slice of rows.
type MemorySheet struct {
	mu     sync.Mutex
	Rows   [][]string
	Writes int

	// Err, when set, is returned by every call.
	Err error
}

// NewMemorySheet returns a sheet holding a copy of rows.
func NewMemorySheet(rows ...[]string) *MemorySheet {
	s := &MemorySheet{}
	for _, r := range rows {
		s.Rows = append(s.Rows, append([]string(nil), r...))
	}
	return s
}

func (s *MemorySheet) Values(context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	out := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (s *MemorySheet) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	s.Rows = nil
	return nil
}

// Update writes rows at an A1 cell such as "A1" or "C2".
func (s *MemorySheet) Update(_ context.Context, cell string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	col, row, err := parseCell(cell)
	if err != nil {
		return err
	}

	for i, values := range rows {
		r := row + i
		for len(s.Rows) <= r {
			s.Rows = append(s.Rows, nil)
		}
		for j, v := range values {
			c := col + j
			for len(s.Rows[r]) <= c {
				s.Rows[r] = append(s.Rows[r], "")
			}
			s.Rows[r][c] = v
		}
	}

	s.Writes++
	return nil
}

func (s *MemorySheet) URL() string {
	return "https://docs.google.com/spreadsheets/d/test"
}

// Column returns the values of the named column below the header.
func (s *MemorySheet) Column(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.Rows) == 0 {
		return nil
	}

	col := -1
	for i, h := range s.Rows[0] {
		if h == name {
			col = i
		}
	}

	var out []string
	for _, r := range s.Rows[1:] {
		if col >= 0 && col < len(r) {
			out = append(out, r[col])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// parseCell converts an A1 reference into zero-based column and row.
func parseCell(ref string) (int, int, error) {
	ref = strings.ToUpper(ref)

	i := 0
	col := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}

	row, err := strconv.Atoi(ref[i:])
	if err != nil || col == 0 || row == 0 {
		return 0, 0, fmt.Errorf("invalid cell %q", ref)
	}

	return col - 1, row - 1, nil
}
