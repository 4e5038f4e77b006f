package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/viper"
)

// Environment variable names.
const (
	HarmonicAPIKey    = "HARMONIC_API_KEY"
	AffinityAPIKey    = "AFFINITY_API_KEY"
	LemlistAPIKey     = "LEMLIST_API_KEY"
	SpreadsheetID     = "SPREADSHEET_ID"
	LemlistCampaignID = "LEMLIST_CAMPAIGN_ID"
	AffinityListID    = "AFFINITY_LIST_ID"
	WatchlistURN      = "WATCHLIST_URN"
	CredentialsFile   = "GOOGLE_CREDENTIALS_FILE"

	LogLevel          = "LOG_LEVEL"
	HarmonicBaseURL   = "HARMONIC_BASE_URL"
	AffinityBaseURL   = "AFFINITY_BASE_URL"
	LemlistBaseURL    = "LEMLIST_BASE_URL"
	HTTPTimeout       = "HTTP_TIMEOUT_SECONDS"
	HarmonicInterval  = "HARMONIC_REQUEST_INTERVAL_MS"
	AffinityInterval  = "AFFINITY_REQUEST_INTERVAL_MS"
	LemlistInterval   = "LEMLIST_REQUEST_INTERVAL_MS"
	RetryMaxAttempts  = "RETRY_MAX_ATTEMPTS"
	RetryAfterDefault = "RETRY_AFTER_DEFAULT_SECONDS"
)

// Default Affinity field and option ids of the sourcing list.
const (
	DefaultStatusField    = 175381
	DefaultRespondedField = 175387
	DefaultOutreachField  = 3721939
	DefaultTargetListName = "1a Sourcing List"
)

var DefaultRaisingLaterOptions = []int64{2573467, 153028}

// Env holds the settings every command reads from the environment.
type Env struct {
	HarmonicAPIKey    string
	AffinityAPIKey    string
	LemlistAPIKey     string
	SpreadsheetID     string
	LemlistCampaignID string
	AffinityListID    int64
	WatchlistURN      string
	CredentialsFile   string

	LogLevel string

	HarmonicBaseURL string
	AffinityBaseURL string
	LemlistBaseURL  string

	HTTPTimeout       time.Duration
	HarmonicInterval  time.Duration
	AffinityInterval  time.Duration
	LemlistInterval   time.Duration
	RetryMaxAttempts  int
	RetryAfterDefault time.Duration

	Affinity Affinity

	// present records which environment keys had a non-empty value.
	present mapset.Set[string]
}

// Affinity holds workspace specific ids read from the optional config file.
type Affinity struct {
	TargetListID        int64
	TargetListName      string
	Lists               map[int64]string
	FlagLists           []int64
	StatusField         int64
	RespondedField      int64
	OutreachField       int64
	RaisingLaterOptions []int64
}

// ListName returns the configured display name of a list. The sourcing
// list falls back to TargetListName.
func (a Affinity) ListName(id int64) string {
	if name, ok := a.Lists[id]; ok {
		return name
	}
	if id == a.TargetListID && a.TargetListName != "" {
		return a.TargetListName
	}
	return fmt.Sprintf("List #%d", id)
}

// TargetList returns the display name of the sourcing list.
func (a Affinity) TargetList() string {
	return a.ListName(a.TargetListID)
}

// MissingError reports required settings that were absent.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

// SetDefaults registers the built-in defaults.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(CredentialsFile, "credentials.json")
	v.SetDefault(LogLevel, "INFO")
	v.SetDefault(HarmonicBaseURL, "https://api.harmonic.ai")
	v.SetDefault(AffinityBaseURL, "https://api.affinity.co")
	v.SetDefault(LemlistBaseURL, "https://api.lemlist.com")
	v.SetDefault(HTTPTimeout, 60)
	v.SetDefault(HarmonicInterval, 200)
	v.SetDefault(AffinityInterval, 200)
	v.SetDefault(LemlistInterval, 300)
	v.SetDefault(RetryMaxAttempts, 5)
	v.SetDefault(RetryAfterDefault, 5)

	v.SetDefault("affinity.target_list_name", DefaultTargetListName)
	v.SetDefault("affinity.fields.status", DefaultStatusField)
	v.SetDefault("affinity.fields.responded", DefaultRespondedField)
	v.SetDefault("affinity.fields.outreach", DefaultOutreachField)
}

// ReadFiles merges the optional YAML config file and dotenv file into v.
// Missing files are ignored unless they were named explicitly.
func ReadFiles(v *viper.Viper, configFile, envFile string, explicit bool) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if explicit || !isNotExist(err) {
				return fmt.Errorf("reading config file %q: %w", configFile, err)
			}
		}
	}

	if envFile != "" {
		dv := viper.New()
		dv.SetConfigFile(envFile)
		dv.SetConfigType("env")

		if err := dv.ReadInConfig(); err != nil {
			if explicit || !isNotExist(err) {
				return fmt.Errorf("reading env file %q: %w", envFile, err)
			}
		} else if err := v.MergeConfigMap(dv.AllSettings()); err != nil {
			return fmt.Errorf("merging env file %q: %w", envFile, err)
		}
	}

	return nil
}

func isNotExist(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

// Load reads the settings from v. Environment variables take precedence
// over config files. Only malformed values are reported here; use Require
// to check for absent ones.
func Load(v *viper.Viper) (*Env, error) {
	v.AutomaticEnv()

	str := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	e := &Env{
		HarmonicAPIKey:    str(HarmonicAPIKey),
		AffinityAPIKey:    str(AffinityAPIKey),
		LemlistAPIKey:     str(LemlistAPIKey),
		SpreadsheetID:     str(SpreadsheetID),
		LemlistCampaignID: str(LemlistCampaignID),
		WatchlistURN:      str(WatchlistURN),
		CredentialsFile:   str(CredentialsFile),
		LogLevel:          str(LogLevel),
		HarmonicBaseURL:   str(HarmonicBaseURL),
		AffinityBaseURL:   str(AffinityBaseURL),
		LemlistBaseURL:    str(LemlistBaseURL),
		present:           mapset.NewSet[string](),
	}

	for _, key := range []string{HarmonicAPIKey, AffinityAPIKey, LemlistAPIKey, SpreadsheetID, LemlistCampaignID, AffinityListID, WatchlistURN, CredentialsFile} {
		if str(key) != "" {
			e.present.Add(key)
		}
	}

	if raw := str(AffinityListID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", AffinityListID, raw)
		}
		e.AffinityListID = id
	}

	var err error

	ints := []struct {
		key  string
		unit time.Duration
		dst  *time.Duration
	}{
		{HTTPTimeout, time.Second, &e.HTTPTimeout},
		{HarmonicInterval, time.Millisecond, &e.HarmonicInterval},
		{AffinityInterval, time.Millisecond, &e.AffinityInterval},
		{LemlistInterval, time.Millisecond, &e.LemlistInterval},
		{RetryAfterDefault, time.Second, &e.RetryAfterDefault},
	}

	for _, d := range ints {
		n, err := nonNegative(v, d.key)
		if err != nil {
			return nil, err
		}
		*d.dst = time.Duration(n) * d.unit
	}

	if e.RetryMaxAttempts, err = nonNegative(v, RetryMaxAttempts); err != nil {
		return nil, err
	}

	if e.Affinity, err = loadAffinity(v); err != nil {
		return nil, err
	}

	e.Affinity.TargetListID = e.AffinityListID

	return e, nil
}

func nonNegative(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}

	return n, nil
}

func loadAffinity(v *viper.Viper) (Affinity, error) {
	a := Affinity{
		TargetListName: v.GetString("affinity.target_list_name"),
		StatusField:    v.GetInt64("affinity.fields.status"),
		RespondedField: v.GetInt64("affinity.fields.responded"),
		OutreachField:  v.GetInt64("affinity.fields.outreach"),
		Lists:          make(map[int64]string),
	}

	for k, name := range v.GetStringMapString("affinity.lists") {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return a, fmt.Errorf("invalid affinity.lists id: %q", k)
		}
		a.Lists[id] = name
	}

	for _, id := range v.GetIntSlice("affinity.flag_lists") {
		a.FlagLists = append(a.FlagLists, int64(id))
	}

	for _, id := range v.GetIntSlice("affinity.raising_later_options") {
		a.RaisingLaterOptions = append(a.RaisingLaterOptions, int64(id))
	}

	if len(a.RaisingLaterOptions) == 0 {
		a.RaisingLaterOptions = DefaultRaisingLaterOptions
	}

	return a, nil
}

// Require returns a *MissingError naming every absent key.
func (e *Env) Require(keys ...string) error {
	missing := mapset.NewSet[string]()

	for _, key := range keys {
		if !e.present.Contains(key) {
			missing.Add(key)
		}
	}

	if missing.Cardinality() == 0 {
		return nil
	}

	names := missing.ToSlice()
	sort.Strings(names)

	return &MissingError{Keys: names}
}
