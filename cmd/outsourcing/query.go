package main

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
)

var queryCmd = &cobra.Command{
	Use: "query ( - | <sql> ) [<path>...]",

	Short: "Executes a SQL query against lead files and the spreadsheet.",

	Long: `Every lead file is loaded into the "leads" table with the columns
companyname, firstname, email, companyurn, ceoname and file. With --sheet the
spreadsheet is loaded into the "sheet" table, one column per header cell
in lower case with spaces replaced by underscores.`,

	Example: `
Inline:

  $ outsourcing query "select companyname, email from leads where email is null" lemlist_leads.csv

Use - to read from stdin:

  $ outsourcing query --sheet -
  select "in_affinity", count(*) from sheet group by 1
  ^D
`,

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			cmd.Usage()
			return
		}

		stmt := args[0]

		// Read the SQL from stdin
		if stmt == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				app.Exit(cmd, err)
			}
			stmt = string(b)
		}

		db, err := newDatabase()
		if err != nil {
			app.Exit(cmd, err)
		}
		defer db.Close()

		for _, path := range args[1:] {
			t, err := leads.ReadTableFile(path)
			if err != nil {
				app.Exit(cmd, err)
			}

			if err := loadLeads(db, filepath.Base(path), t); err != nil {
				app.Exit(cmd, err)
			}
		}

		if viper.GetBool("query.sheet") {
			a, err := app.Load(cmd, config.SpreadsheetID, config.CredentialsFile)
			if err != nil {
				app.Exit(cmd, err)
			}

			sheet, err := a.Sheet(cmd.Context())
			if err != nil {
				app.Exit(cmd, err)
			}

			t, err := leads.ReadTable(cmd.Context(), sheet)
			if err != nil {
				app.Exit(cmd, err)
			}

			if err := loadTable(db, "sheet", t); err != nil {
				app.Exit(cmd, err)
			}
		}

		if err := queryDatabase(db, stmt, cmd.OutOrStdout()); err != nil {
			app.Exit(cmd, fmt.Errorf("query error: %w", err))
		}
	},
}

func init() {
	flags := queryCmd.Flags()
	flags.Bool("sheet", false, "Loads the spreadsheet into the sheet table.")
	viper.BindPFlag("query.sheet", flags.Lookup("sheet"))
}

func leadColumns() []string {
	return append(append([]string(nil), leads.FileHeaderFields...), "file")
}

// columnNames turns header cells into unique SQL column names.
func columnNames(header []string) []string {
	seen := make(map[string]int)
	out := make([]string, len(header))

	for i, h := range header {
		name := strings.Replace(strings.ToLower(strings.TrimSpace(h)), " ", "_", -1)
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}

		if n := seen[name]; n > 0 {
			seen[name]++
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}

		out[i] = name
	}

	return out
}

func quote(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}

func newDatabase() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: opens its own database.
	db.SetMaxOpenConns(1)

	if err := createTable(db, "leads", leadColumns()); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTable(db *sql.DB, name string, header []string) error {
	names := columnNames(header)
	cols := make([]string, len(names))

	for i, c := range names {
		cols[i] = fmt.Sprintf("%s TEXT", quote(strings.ToLower(c)))
	}

	_, err := db.Exec(fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(cols, ",\n")))
	return err
}

func insertRows(db *sql.DB, name string, width int, rows [][]string) error {
	params := make([]string, width)
	for i := range params {
		params[i] = "?"
	}

	stmt := fmt.Sprintf("insert into %s values (%s)", quote(name), strings.Join(params, ","))

	for _, r := range rows {
		row := make([]interface{}, width)

		for i := range row {
			// Use null values for empty strings
			if i < len(r) && r[i] != "" {
				row[i] = r[i]
			}
		}

		if _, err := db.Exec(stmt, row...); err != nil {
			return err
		}
	}

	return nil
}

// loadLeads inserts the lead columns of a file. Missing columns are null.
func loadLeads(db *sql.DB, file string, t *leads.Table) error {
	rows := make([][]string, t.Len())

	for i := range rows {
		l := t.Lead(i)
		rows[i] = append(l.Row(), file)
	}

	return insertRows(db, "leads", len(leadColumns()), rows)
}

// loadTable creates a table with the columns of t and inserts its rows.
func loadTable(db *sql.DB, name string, t *leads.Table) error {
	if err := createTable(db, name, t.Header); err != nil {
		return err
	}
	return insertRows(db, name, len(t.Header), t.Rows)
}

func queryDatabase(db *sql.DB, stmt string, w io.Writer) error {
	rows, err := db.Query(stmt)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(cols)

	row := make([]interface{}, len(cols))
	for i := range row {
		row[i] = new(sql.NullString)
	}

	for rows.Next() {
		if err = rows.Scan(row...); err != nil {
			return err
		}

		out := make([]string, len(row))
		for i, v := range row {
			if x := v.(*sql.NullString); x.Valid {
				out[i] = x.String
			}
		}

		tw.Append(out)
	}

	tw.Render()

	return rows.Err()
}
