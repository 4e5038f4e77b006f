package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
)

var sheetKeys = []string{config.AffinityAPIKey, config.AffinityListID, config.SpreadsheetID, config.CredentialsFile}

// setup loads the configuration and opens the spreadsheet.
func setup(cmd *cobra.Command, required ...string) (*Checker, leads.Sheet) {
	a, err := app.Load(cmd, required...)
	if err != nil {
		app.Exit(cmd, err)
	}

	sheet, err := a.Sheet(cmd.Context())
	if err != nil {
		app.Exit(cmd, err)
	}

	c := &Checker{
		Affinity: a.Affinity,
		Settings: a.Env.Affinity,
		Out:      cmd.OutOrStdout(),
	}

	return c, sheet
}

func banner(c *Checker, title string) {
	rule := strings.Repeat("=", 60)
	c.printf("%s\n%s\n%s\n", rule, title, rule)
}

func readTable(cmd *cobra.Command, sheet leads.Sheet) *leads.Table {
	t, err := leads.ReadTable(cmd.Context(), sheet)
	if err != nil {
		app.Exit(cmd, err)
	}
	return t
}

// replaceSheet writes t over the sheet unless dryRun is set.
func replaceSheet(ctx context.Context, c *Checker, sheet leads.Sheet, t *leads.Table, dryRun bool) error {
	if dryRun {
		c.printf("\nDry run, %d rows were not written to the spreadsheet.\n", t.Len())
		return nil
	}

	c.printf("\nWriting to spreadsheet...\n")

	if err := leads.WriteTable(ctx, sheet, t); err != nil {
		return err
	}

	c.printf("Spreadsheet: %s\n", sheet.URL())
	return nil
}

var AddCmd = &cobra.Command{
	Use: "add-to-affinity",

	Short: "Adds every company in the spreadsheet to the Affinity sourcing list.",

	Example: `
  outsourcing add-to-affinity
  outsourcing add-to-affinity --dryrun`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, sheetKeys...)

		banner(c, "Adding all companies to Affinity "+c.Settings.TargetList())

		t := readTable(cmd, sheet)
		c.AddAll(cmd.Context(), t, viper.GetBool("addtoaffinity.dryrun"))
	},
}

var PushCmd = &cobra.Command{
	Use: "push",

	Short: "Replaces the spreadsheet with the leads file and each company's Affinity status.",

	Example: `
  outsourcing push
  outsourcing push --csv leads/watchlist.csv`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, sheetKeys...)

		banner(c, "Push to Spreadsheet and Check Affinity")

		path := viper.GetString("push.csv")

		c.printf("\nReading %s...\n", path)
		all, err := leads.ReadFile(path)
		if err != nil {
			app.Exit(cmd, err)
		}
		c.printf("  Found %d companies\n", len(all))

		t := c.Push(cmd.Context(), all)

		if err := replaceSheet(cmd.Context(), c, sheet, t, viper.GetBool("push.dryrun")); err != nil {
			app.Exit(cmd, err)
		}
	},
}

var CheckCmd = &cobra.Command{
	Use: "check-affinity",

	Short: "Annotates the spreadsheet rows with their Affinity sourcing list status.",

	Example: `
  outsourcing check-affinity`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, sheetKeys...)

		banner(c, "Affinity Check - Updating existing spreadsheet")

		t := readTable(cmd, sheet)
		c.printf("  Found %d company rows\n", t.Len())

		stats, err := c.Check(cmd.Context(), t)
		if err != nil {
			app.Exit(cmd, err)
		}

		if viper.GetBool("checkaffinity.dryrun") {
			c.printf("\nDry run, %d rows were not written to the spreadsheet.\n", t.Len())
		} else {
			c.printf("\nWriting results to spreadsheet...\n")
			if err := sheet.Update(cmd.Context(), "A1", t.Values()); err != nil {
				app.Exit(cmd, err)
			}
		}

		app.Summary(c.Out, fmt.Sprintf("Done! Updated %d rows", stats.Rows),
			app.Count{Label: "In '" + c.Settings.TargetList() + "'", N: stats.OnList},
			app.Count{Label: "Contacted", N: stats.Contacted},
		)
		c.printf("\nSpreadsheet: %s\n", sheet.URL())
	},
}

var RecheckCmd = &cobra.Command{
	Use: "recheck",

	Short: "Reports the Affinity lists, status and notes of every company in the spreadsheet.",

	Example: `
  outsourcing recheck`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, sheetKeys...)

		banner(c, "Deep Affinity Recheck - All Companies")

		c.Recheck(cmd.Context(), readTable(cmd, sheet))
	},
}

var AnalyzeCmd = &cobra.Command{
	Use: "analyze",

	Short: "Replaces the spreadsheet with the leads file and each company's full Affinity relationship.",

	Example: `
  outsourcing analyze
  outsourcing analyze --csv leads/watchlist.csv --dryrun`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, sheetKeys...)

		banner(c, "Deep Affinity Analysis (with Activity Timeline)")

		path := viper.GetString("analyze.csv")

		c.printf("\nReading %s...\n", path)
		all, err := leads.ReadFile(path)
		if err != nil {
			app.Exit(cmd, err)
		}
		c.printf("  Found %d companies\n", len(all))

		t, stats := c.Analyze(cmd.Context(), all)

		if err := replaceSheet(cmd.Context(), c, sheet, t, viper.GetBool("analyze.dryrun")); err != nil {
			app.Exit(cmd, err)
		}

		c.PrintAnalyzeSummary(stats)
	},
}

var ActivityCmd = &cobra.Command{
	Use: "activity",

	Short: "Prints the Affinity activity feed of every company in the spreadsheet.",

	Example: `
  outsourcing activity`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, sheetKeys...)

		onList := c.Activity(cmd.Context(), readTable(cmd, sheet))

		if len(onList) > 0 {
			c.printf("\nRemove from outreach: %s\n", strings.Join(onList, ", "))
		}
	},
}

var ListsCmd = &cobra.Command{
	Use: "check-lists",

	Short: "Flags companies in the spreadsheet that are on any of the configured flag lists.",

	Example: `
  outsourcing check-lists`,

	Run: func(cmd *cobra.Command, args []string) {
		c, sheet := setup(cmd, config.AffinityAPIKey, config.SpreadsheetID, config.CredentialsFile)

		if len(c.Settings.FlagLists) == 0 {
			app.Exit(cmd, fmt.Errorf("no flag lists configured; set affinity.flag_lists in the config file"))
		}

		c.CheckLists(cmd.Context(), readTable(cmd, sheet))
	},
}

func init() {
	flags := AddCmd.Flags()
	flags.Bool("dryrun", false, "Looks up every company without creating organizations or list entries.")
	viper.BindPFlag("addtoaffinity.dryrun", flags.Lookup("dryrun"))

	flags = PushCmd.Flags()
	flags.String("csv", "lemlist_leads.csv", "Path of the leads file to push.")
	flags.Bool("dryrun", false, "Checks Affinity without writing the spreadsheet.")
	viper.BindPFlag("push.csv", flags.Lookup("csv"))
	viper.BindPFlag("push.dryrun", flags.Lookup("dryrun"))

	flags = CheckCmd.Flags()
	flags.Bool("dryrun", false, "Checks Affinity without writing the spreadsheet.")
	viper.BindPFlag("checkaffinity.dryrun", flags.Lookup("dryrun"))

	flags = AnalyzeCmd.Flags()
	flags.String("csv", "lemlist_leads.csv", "Path of the leads file to analyze.")
	flags.Bool("dryrun", false, "Analyzes without writing the spreadsheet.")
	viper.BindPFlag("analyze.csv", flags.Lookup("csv"))
	viper.BindPFlag("analyze.dryrun", flags.Lookup("dryrun"))
}
