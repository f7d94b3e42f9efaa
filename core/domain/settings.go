// ABOUTME: Settings domain model holds the user-editable bridge configuration
// ABOUTME: Mirrors the extension's synced storage keys and their semantics

package domain

import (
	"net/url"
	"strings"

	coreerrors "mealie-bridge-api/core/errors"
)

// Storage keys for individual settings. Kept one-value-per-key so that
// writes from the settings UI stay independent and last-write-wins.
const (
	KeyServerURL            = "mealie_url"
	KeyAPIToken             = "mealie_api_token"
	KeyEnableDuplicateCheck = "enable_duplicate_check"
	KeyOpenEditAfterImport  = "open_edit_after_import"
	KeyEnableParseOnEdit    = "enable_parse_on_edit"
	KeyDomainWhitelist      = "domain_whitelist"
	KeyUserSites            = "user_sites"
)

// Settings is the user-editable configuration. It is created and updated
// only through the settings UI, persisted indefinitely, and read by every
// other component.
type Settings struct {
	// ServerURL is the Mealie server origin, without a trailing slash
	ServerURL string

	// APIToken is the opaque bearer token for the Mealie API
	APIToken string

	// EnableDuplicateCheck searches for an existing recipe before importing
	EnableDuplicateCheck bool

	// OpenEditAfterImport opens the recipe editor after a successful import
	OpenEditAfterImport bool

	// EnableParseOnEdit asks the editor to re-parse ingredients on open
	EnableParseOnEdit bool

	// DomainWhitelist overrides the built-in whitelist when non-nil
	DomainWhitelist []string

	// UserSites are domains the user explicitly granted extra access to
	UserSites []string
}

// IsConfigured reports whether both the server URL and API token are set.
// No network call is ever attempted without both.
func (s *Settings) IsConfigured() bool {
	return s != nil && s.ServerURL != "" && s.APIToken != ""
}

// NormalizeServerURL trims whitespace and a trailing slash from a
// user-entered server URL.
func NormalizeServerURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

// ValidateServerURL checks that a user-entered server URL is an absolute
// HTTPS origin. Plain HTTP is rejected because the API token would travel
// in cleartext.
func ValidateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &coreerrors.ValidationError{Field: "server URL", Message: "not a valid URL"}
	}
	if u.Scheme != "https" {
		return &coreerrors.ValidationError{Field: "server URL", Message: "must use HTTPS"}
	}
	if u.Hostname() == "" {
		return &coreerrors.ValidationError{Field: "server URL", Message: "must include a hostname"}
	}
	return nil
}
