// Package app wires configuration, logging and service clients for the
// outsourcing commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/tuvana1/outsourcing/clients/affinity"
	"github.com/tuvana1/outsourcing/clients/harmonic"
	"github.com/tuvana1/outsourcing/clients/lemlist"
	"github.com/tuvana1/outsourcing/clients/sheets"
	"github.com/tuvana1/outsourcing/clients/transport"
	"github.com/tuvana1/outsourcing/config"
	"github.com/tuvana1/outsourcing/leads"
	"github.com/tuvana1/outsourcing/logger"
)

// Root flag names.
const (
	ConfigFlag      = "config"
	EnvFileFlag     = "env-file"
	CredentialsFlag = "credentials"
	LogLevelFlag    = "log-level"
)

// Options locate the optional configuration files.
type Options struct {
	ConfigFile string
	EnvFile    string

	// A missing file is only an error when it was named explicitly.
	ExplicitConfig bool
	ExplicitEnv    bool

	// SheetOptions are appended when opening the spreadsheet.
	SheetOptions []option.ClientOption
}

// App holds the settings and clients a command asked for. Clients for
// services the command did not require are nil.
type App struct {
	Env *config.Env

	Harmonic *harmonic.Client
	Affinity *affinity.Client
	Lemlist  *lemlist.Client

	creds     *google.Credentials
	sheetOpts []option.ClientOption
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// New reads the configuration from v, initializes logging and checks that
// every key in required is set. All missing keys are reported together in
// a *config.MissingError before any network call is made. When
// config.CredentialsFile is required the service account file must exist.
func New(ctx context.Context, v *viper.Viper, opts Options, required ...string) (*App, error) {
	config.SetDefaults(v)

	if err := config.ReadFiles(v, opts.ConfigFile, "", opts.ExplicitConfig); err != nil {
		return nil, err
	}

	if err := config.ReadFiles(v, "", opts.EnvFile, opts.ExplicitEnv); err != nil {
		return nil, err
	}

	env, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(env.LogLevel); err != nil {
		return nil, err
	}

	var missing []string

	var me *config.MissingError
	if err := env.Require(required...); errors.As(err, &me) {
		missing = append(missing, me.Keys...)
	}

	needCreds := contains(required, config.CredentialsFile)

	if needCreds && env.CredentialsFile != "" {
		if _, err := os.Stat(env.CredentialsFile); errors.Is(err, os.ErrNotExist) {
			missing = append(missing, fmt.Sprintf("%s (%s not found)", config.CredentialsFile, env.CredentialsFile))
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &config.MissingError{Keys: missing}
	}

	a := &App{
		Env:       env,
		sheetOpts: opts.SheetOptions,
	}

	if needCreds {
		if a.creds, err = config.LoadCredentials(ctx, env.CredentialsFile, config.SpreadsheetsScope); err != nil {
			return nil, err
		}
	}

	if contains(required, config.HarmonicAPIKey) {
		a.Harmonic, err = harmonic.New(env.HarmonicAPIKey, a.transport(env.HarmonicBaseURL, env.HarmonicInterval))
		if err != nil {
			return nil, err
		}
	}

	if contains(required, config.AffinityAPIKey) {
		a.Affinity, err = affinity.New(env.AffinityAPIKey, a.transport(env.AffinityBaseURL, env.AffinityInterval))
		if err != nil {
			return nil, err
		}
	}

	if contains(required, config.LemlistAPIKey) {
		a.Lemlist, err = lemlist.New(env.LemlistAPIKey, a.transport(env.LemlistBaseURL, env.LemlistInterval))
		if err != nil {
			return nil, err
		}
	}

	log.Debug().Strs("required", required).Msg("configuration loaded")

	return a, nil
}

func (a *App) transport(baseURL string, interval time.Duration) transport.Config {
	return transport.Config{
		BaseURL:     baseURL,
		Timeout:     a.Env.HTTPTimeout,
		Interval:    interval,
		MaxAttempts: a.Env.RetryMaxAttempts,
		RetryAfter:  a.Env.RetryAfterDefault,
	}
}

// Sheet opens the first worksheet of the configured spreadsheet.
func (a *App) Sheet(ctx context.Context) (leads.Sheet, error) {
	if a.creds == nil {
		return nil, fmt.Errorf("spreadsheet access was not configured for this command")
	}

	opts := append([]option.ClientOption{option.WithCredentials(a.creds)}, a.sheetOpts...)

	return sheets.Open(ctx, a.Env.SpreadsheetID, opts...)
}

// Load builds the App for a command from the global viper instance and
// the root command flags.
func Load(cmd *cobra.Command, required ...string) (*App, error) {
	flags := cmd.Flags()

	opts := Options{
		ConfigFile:     viper.GetString(ConfigFlag),
		EnvFile:        viper.GetString(EnvFileFlag),
		ExplicitConfig: flags.Changed(ConfigFlag),
		ExplicitEnv:    flags.Changed(EnvFileFlag),
	}

	return New(cmd.Context(), viper.GetViper(), opts, required...)
}

// Exit prints the error and exits with status 1.
func Exit(cmd *cobra.Command, err error) {
	cmd.Printf("Error: %s\n", err)
	os.Exit(1)
}
