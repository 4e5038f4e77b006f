package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tuvana1/outsourcing/cmd/outsourcing/app"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/crm"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/discover"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/emails"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/names"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/outreach"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/prospects"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/raising"
	"github.com/tuvana1/outsourcing/cmd/outsourcing/report"
	"github.com/tuvana1/outsourcing/config"
)

var mainCmd = &cobra.Command{
	Use: "outsourcing",

	Short: "Commands that move deal sourcing data between Harmonic, Affinity, Lemlist and the outreach spreadsheet.",

	Long: `Settings are read from the environment, an optional .env file and an
optional YAML config file. Each command names the variables it needs and
fails before any network call when one of them is missing.`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use: "version",

	Short: "Prints the version of the program.",

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(progVersion.String())
	},
}

func main() {
	mainCmd.AddCommand(versionCmd)
	mainCmd.AddCommand(queryCmd)

	mainCmd.AddCommand(prospects.Cmd)
	mainCmd.AddCommand(emails.Cmd)
	mainCmd.AddCommand(outreach.Cmd)
	mainCmd.AddCommand(names.Cmd)
	mainCmd.AddCommand(discover.Cmd)
	mainCmd.AddCommand(raising.Cmd)
	mainCmd.AddCommand(report.Cmd)

	mainCmd.AddCommand(crm.AddCmd)
	mainCmd.AddCommand(crm.PushCmd)
	mainCmd.AddCommand(crm.CheckCmd)
	mainCmd.AddCommand(crm.RecheckCmd)
	mainCmd.AddCommand(crm.AnalyzeCmd)
	mainCmd.AddCommand(crm.ActivityCmd)
	mainCmd.AddCommand(crm.ListsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mainCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := mainCmd.PersistentFlags()

	flags.String(app.ConfigFlag, "outsourcing.yaml", "YAML config file with Affinity list names and field ids.")
	flags.String(app.EnvFileFlag, ".env", "Dotenv file with API keys.")
	flags.String(app.CredentialsFlag, "", "Google service account file. Defaults to credentials.json.")
	flags.String(app.LogLevelFlag, "", "Log level: DEBUG, INFO, WARN, ERROR or DISABLED.")

	viper.BindPFlag(app.ConfigFlag, flags.Lookup(app.ConfigFlag))
	viper.BindPFlag(app.EnvFileFlag, flags.Lookup(app.EnvFileFlag))
	viper.BindPFlag(config.CredentialsFile, flags.Lookup(app.CredentialsFlag))
	viper.BindPFlag(config.LogLevel, flags.Lookup(app.LogLevelFlag))
}
