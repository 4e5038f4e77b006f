// Package leads reads and writes lead files and spreadsheet tables.
package leads

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// UniversalReader wraps an io.Reader to replace carriage returns with newlines.
// This is used with the csv.Reader so it can properly delimit lines.
type UniversalReader struct {
	r io.Reader
}

func (r *UniversalReader) Read(buf []byte) (int, error) {
	n, err := r.r.Read(buf)

	for i := 0; i < n; i++ {
		if buf[i] == '\r' {
			buf[i] = '\n'
		}
	}

	return n, err
}

// NewUniversalReader wraps r.
func NewUniversalReader(r io.Reader) *UniversalReader {
	return &UniversalReader{r: r}
}

// Reader reads leads exposing a header with mapped positions
// to the field.
type Reader struct {
	head *FileHeader
	csv  *csv.Reader
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Read reads and parses a lead from the underlying reader.
func (r *Reader) Read() (*Lead, error) {
	row, err := r.csv.Read()
	if err != nil {
		return nil, err
	}

	return &Lead{
		CompanyName: cell(row, r.head.CompanyName),
		FirstName:   cell(row, r.head.FirstName),
		Email:       cell(row, r.head.Email),
		CompanyURN:  cell(row, r.head.CompanyURN),
		CEOName:     cell(row, r.head.CEOName),
	}, nil
}

// ReadAll reads all leads from the reader.
func (r *Reader) ReadAll() (Leads, error) {
	var leads Leads

	for {
		l, err := r.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		leads = append(leads, l)
	}

	return leads, nil
}

// NewReader initializes a new leads reader.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(NewUniversalReader(r))

	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	// Read the header.
	row, err := cr.Read()
	if err != nil {
		return nil, err
	}

	head, err := ParseFileHeader(row)
	if err != nil {
		return nil, err
	}

	return &Reader{
		head: head,
		csv:  cr,
	}, nil
}

// ReadFile reads every lead in a CSV file.
func ReadFile(path string) (Leads, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, err
	}

	return r.ReadAll()
}

// Writer writes leads to a file.
type Writer struct {
	csv  *csv.Writer
	head bool
}

// Write writes a lead to the underlying writer.
func (w *Writer) Write(l *Lead) error {
	if !w.head {
		if err := w.csv.Write(FileHeaderFields); err != nil {
			return err
		}

		w.head = true
	}

	return w.csv.Write(l.Row())
}

// WriteAll writes all leads in a slice.
func (w *Writer) WriteAll(leads Leads) error {
	for _, l := range leads {
		if err := w.Write(l); err != nil {
			return err
		}
	}

	return nil
}

// Flush flushes the written leads to the underlying writer.
func (w *Writer) Flush() error {
	// An empty file still gets a header.
	if !w.head {
		if err := w.csv.Write(FileHeaderFields); err != nil {
			return err
		}
		w.head = true
	}

	w.csv.Flush()
	return w.csv.Error()
}

// NewWriter initializes a new writer for leads.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		csv: csv.NewWriter(w),
	}
}

// WriteFile replaces the file at path with the leads.
func WriteFile(path string, leads Leads) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := NewWriter(f)

	if err := w.WriteAll(leads); err != nil {
		f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ReadTableFile reads a CSV file into a table, keeping every column.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(NewUniversalReader(f))

	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var values [][]string

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		values = append(values, row)
	}

	return NewTable(values), nil
}
