// ABOUTME: Typed settings store over the synced key/value storage facade
// ABOUTME: One value per key, last-write-wins, token optionally routed to a secret store

package settings

import (
	"context"
	"encoding/json"
	"errors"

	"mealie-bridge-api/core/domain"
	coreerrors "mealie-bridge-api/core/errors"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/whitelist"
)

// Store reads and writes the bridge configuration through the Storage
// facade. Values are JSON-encoded per key, mirroring the extension's
// synced storage area. When a SecretStore is available the API token
// lives there instead of in Storage.
type Store struct {
	storage interfaces.Storage
	secrets interfaces.SecretStore
}

// NewStore creates a settings store over the given dependencies.
func NewStore(deps interfaces.Dependencies) *Store {
	return &Store{
		storage: deps.Storage,
		secrets: deps.Secrets,
	}
}

// Load reads the full settings. Missing keys yield zero values, so an
// unconfigured bridge loads cleanly as an empty Settings.
func (s *Store) Load(ctx context.Context) (*domain.Settings, error) {
	cfg := &domain.Settings{}

	var err error
	if cfg.ServerURL, err = s.getString(ctx, domain.KeyServerURL); err != nil {
		return nil, err
	}
	if cfg.APIToken, err = s.loadToken(ctx); err != nil {
		return nil, err
	}
	if cfg.EnableDuplicateCheck, err = s.getBool(ctx, domain.KeyEnableDuplicateCheck); err != nil {
		return nil, err
	}
	if cfg.OpenEditAfterImport, err = s.getBool(ctx, domain.KeyOpenEditAfterImport); err != nil {
		return nil, err
	}
	if cfg.EnableParseOnEdit, err = s.getBool(ctx, domain.KeyEnableParseOnEdit); err != nil {
		return nil, err
	}
	if cfg.DomainWhitelist, err = s.getStrings(ctx, domain.KeyDomainWhitelist); err != nil {
		return nil, err
	}
	if cfg.UserSites, err = s.getStrings(ctx, domain.KeyUserSites); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save persists the full settings.
func (s *Store) Save(ctx context.Context, cfg *domain.Settings) error {
	if err := s.setString(ctx, domain.KeyServerURL, domain.NormalizeServerURL(cfg.ServerURL)); err != nil {
		return err
	}
	if err := s.saveToken(ctx, cfg.APIToken); err != nil {
		return err
	}
	if err := s.setBool(ctx, domain.KeyEnableDuplicateCheck, cfg.EnableDuplicateCheck); err != nil {
		return err
	}
	if err := s.setBool(ctx, domain.KeyOpenEditAfterImport, cfg.OpenEditAfterImport); err != nil {
		return err
	}
	if err := s.setBool(ctx, domain.KeyEnableParseOnEdit, cfg.EnableParseOnEdit); err != nil {
		return err
	}
	if err := s.setStrings(ctx, domain.KeyDomainWhitelist, cfg.DomainWhitelist); err != nil {
		return err
	}
	return s.setStrings(ctx, domain.KeyUserSites, cfg.UserSites)
}

// Whitelist returns the effective built-in whitelist: the stored override
// when present, the shipped default otherwise.
func (s *Store) Whitelist(ctx context.Context) ([]string, error) {
	override, err := s.getStrings(ctx, domain.KeyDomainWhitelist)
	if err != nil {
		return nil, err
	}
	if len(override) > 0 {
		return override, nil
	}
	return whitelist.Default, nil
}

// UserSites returns the user-approved site list.
func (s *Store) UserSites(ctx context.Context) ([]string, error) {
	return s.getStrings(ctx, domain.KeyUserSites)
}

// AddUserSite appends a domain to the user-approved set. Idempotent.
// Callers must have secured the corresponding permission grant first; a
// domain is never added here without one.
func (s *Store) AddUserSite(ctx context.Context, site string) error {
	sites, err := s.getStrings(ctx, domain.KeyUserSites)
	if err != nil {
		return err
	}
	for _, existing := range sites {
		if existing == site {
			return nil
		}
	}
	return s.setStrings(ctx, domain.KeyUserSites, append(sites, site))
}

// RemoveUserSite deletes a domain from the user-approved set.
func (s *Store) RemoveUserSite(ctx context.Context, site string) error {
	sites, err := s.getStrings(ctx, domain.KeyUserSites)
	if err != nil {
		return err
	}
	kept := sites[:0]
	for _, existing := range sites {
		if existing != site {
			kept = append(kept, existing)
		}
	}
	return s.setStrings(ctx, domain.KeyUserSites, kept)
}

func (s *Store) loadToken(ctx context.Context) (string, error) {
	if s.secrets != nil {
		token, err := s.secrets.GetSecret(domain.KeyAPIToken)
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			return "", nil
		}
		if err != nil {
			return "", coreerrors.WrapError(err, "reading API token")
		}
		return token, nil
	}
	return s.getString(ctx, domain.KeyAPIToken)
}

func (s *Store) saveToken(ctx context.Context, token string) error {
	if s.secrets != nil {
		if token == "" {
			return s.secrets.DeleteSecret(domain.KeyAPIToken)
		}
		return s.secrets.SetSecret(domain.KeyAPIToken, token)
	}
	return s.setString(ctx, domain.KeyAPIToken, token)
}

func (s *Store) getString(ctx context.Context, key string) (string, error) {
	var value string
	if err := s.getJSON(ctx, key, &value); err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) getBool(ctx context.Context, key string) (bool, error) {
	var value bool
	if err := s.getJSON(ctx, key, &value); err != nil {
		return false, err
	}
	return value, nil
}

func (s *Store) getStrings(ctx context.Context, key string) ([]string, error) {
	var value []string
	if err := s.getJSON(ctx, key, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) getJSON(ctx context.Context, key string, out interface{}) error {
	data, err := s.storage.Get(ctx, key)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return coreerrors.WrapError(err, "reading "+key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return coreerrors.WrapError(err, "decoding "+key)
	}
	return nil
}

func (s *Store) setString(ctx context.Context, key, value string) error {
	return s.setJSON(ctx, key, value)
}

func (s *Store) setBool(ctx context.Context, key string, value bool) error {
	return s.setJSON(ctx, key, value)
}

func (s *Store) setStrings(ctx context.Context, key string, value []string) error {
	if value == nil {
		value = []string{}
	}
	return s.setJSON(ctx, key, value)
}

func (s *Store) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, key, data)
}
