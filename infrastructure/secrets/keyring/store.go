// ABOUTME: SecretStore implementation backed by the operating system keyring
// ABOUTME: Keeps the Mealie API token out of the plain settings database

package keyring

import (
	"errors"

	gokeyring "github.com/zalando/go-keyring"

	"mealie-bridge-api/core/interfaces"
)

const service = "mealie-bridge"

// Store implements the SecretStore interface on the OS keyring
type Store struct{}

// NewStore creates a keyring-backed secret store
func NewStore() *Store {
	return &Store{}
}

// GetSecret reads a secret from the keyring
func (s *Store) GetSecret(key string) (string, error) {
	value, err := gokeyring.Get(service, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSecret writes a secret to the keyring
func (s *Store) SetSecret(key, value string) error {
	return gokeyring.Set(service, key, value)
}

// DeleteSecret removes a secret from the keyring. Deleting an absent
// secret is not an error.
func (s *Store) DeleteSecret(key string) error {
	err := gokeyring.Delete(service, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return nil
	}
	return err
}

// Available reports whether the keyring backend works on this host.
func Available() bool {
	probe := "availability-probe"
	if err := gokeyring.Set(service, probe, "ok"); err != nil {
		return false
	}
	_ = gokeyring.Delete(service, probe)
	return true
}
