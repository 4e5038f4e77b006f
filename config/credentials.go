package config

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
)

// SpreadsheetsScope grants read and write access to Google Sheets.
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// LoadCredentials reads and parses the service account file at path.
func LoadCredentials(ctx context.Context, path string, scopes ...string) (*google.Credentials, error) {
	if len(scopes) == 0 {
		scopes = []string{SpreadsheetsScope}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file %q: %w", path, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file %q: %w", path, err)
	}

	return creds, nil
}
