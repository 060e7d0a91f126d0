// Package sheets reads consultation tabs from Google Sheets and writes the
// summary tab and charts back to the same spreadsheet.
package sheets

import (
	"fmt"
	"os"
	"time"

	"github.com/saladlab/consult-tags/internal/common"
)

// Config holds the configuration for the Google Sheets client.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// LoadFromEnv fills unset fields from environment variables.
func (c *Config) LoadFromEnv() error {
	setIfEmpty(&c.ClientID, os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	setIfEmpty(&c.ClientSecret, os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	setIfEmpty(&c.RefreshToken, os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	setIfEmpty(&c.TokenFile, os.Getenv("GOOGLE_SHEETS_TOKEN_FILE"))

	setIfEmpty(&c.ServiceAccountPath, os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	setIfEmpty(&c.ServiceAccountPath, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))

	setIfEmpty(&c.SpreadsheetID, os.Getenv("SPREADSHEET_ID"))
	setIfEmpty(&c.SpreadsheetID, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))

	if !c.hasServiceAccount() && !c.hasOAuth() {
		return fmt.Errorf("%w: Google Sheets authentication: provide either service account path or OAuth2 credentials", common.ErrMissingConfig)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.hasOAuth()
	hasServiceAccount := c.hasServiceAccount()

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet id is required", common.ErrMissingConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

func (c *Config) hasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
