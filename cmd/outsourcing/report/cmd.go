// Package report renders the spreadsheet or a lead file as a markdown
// checklist.
package report

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
)

// Options control the rendered report.
type Options struct {
	Title   string
	GroupBy string
	Note    string
}

// Render writes the table as a markdown checklist.
func Render(w io.Writer, t *leads.Table, opts Options) error {
	r := leads.NewMarkdownReport(opts.Title, t, opts.GroupBy)
	r.NoteColumn = opts.Note
	return r.Render(w)
}

var Cmd = &cobra.Command{
	Use: "report",

	Short: "Prints the spreadsheet, or a CSV file, as a markdown checklist grouped by a column.",

	Example: `
  outsourcing report --group-by "Affinity Status" --note Comments
  outsourcing report --csv lemlist_leads.csv --out outreach.md`,

	Run: func(cmd *cobra.Command, args []string) {
		var (
			t   *leads.Table
			err error
		)

		if path := viper.GetString("report.csv"); path != "" {
			t, err = leads.ReadTableFile(path)
		} else {
			var a *app.App
			if a, err = app.Load(cmd, config.SpreadsheetID, config.CredentialsFile); err != nil {
				app.Exit(cmd, err)
			}

			var sheet leads.Sheet
			if sheet, err = a.Sheet(cmd.Context()); err != nil {
				app.Exit(cmd, err)
			}

			t, err = leads.ReadTable(cmd.Context(), sheet)
		}

		if err != nil {
			app.Exit(cmd, err)
		}

		opts := Options{
			Title:   viper.GetString("report.title"),
			GroupBy: viper.GetString("report.group-by"),
			Note:    viper.GetString("report.note"),
		}

		if path := viper.GetString("report.out"); path != "" {
			err = RenderFile(path, t, opts)
		} else {
			err = Render(cmd.OutOrStdout(), t, opts)
		}

		if err != nil {
			app.Exit(cmd, err)
		}
	},
}

// RenderFile replaces the file at path with the report.
func RenderFile(path string, t *leads.Table, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Render(f, t, opts); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func init() {
	flags := Cmd.Flags()
	flags.String("csv", "", "Reads a CSV file instead of the spreadsheet.")
	flags.String("out", "", "Writes the report to a file instead of stdout.")
	flags.String("title", "Outreach", "Title of the report.")
	flags.String("group-by", "Affinity Status", "Column whose values become sections.")
	flags.String("note", "", "Column appended to each entry.")
	viper.BindPFlag("report.csv", flags.Lookup("csv"))
	viper.BindPFlag("report.out", flags.Lookup("out"))
	viper.BindPFlag("report.title", flags.Lookup("title"))
	viper.BindPFlag("report.group-by", flags.Lookup("group-by"))
	viper.BindPFlag("report.note", flags.Lookup("note"))
}
