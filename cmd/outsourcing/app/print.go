package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Status markers for progress lines.
var (
	Bold = color.New(color.Bold, color.FgGreen).SprintFunc()
	Warn = color.New(color.FgYellow).SprintFunc()
	Fail = color.New(color.FgRed).SprintFunc()
)

// Count is a labelled number in a run summary.
type Count struct {
	Label string
	N     int
}

// Progress prints a "[i/n] name... status" line.
func Progress(w io.Writer, i, n int, name, status string) {
	fmt.Fprintf(w, "[%d/%d] %s... %s\n", i, n, name, status)
}

// Summary prints a titled block of counts.
func Summary(w io.Writer, title string, counts ...Count) {
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)

	width := 0
	for _, c := range counts {
		if len(c.Label) > width {
			width = len(c.Label)
		}
	}

	for _, c := range counts {
		fmt.Fprintf(w, "  %-*s %d\n", width+1, c.Label+":", c.N)
	}
}

// Table renders rows under a header.
func Table(w io.Writer, header []string, rows [][]string) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.AppendBulk(rows)
	tw.Render()
}
