package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const (
	serviceName = "planner"
	tokenKey    = "access_token"
)

var ErrNotLoggedIn = errors.New("not logged in, run `plannerctl login --token <token>`")

// KeyringPasswordEnv unlocks the file keyring without a terminal prompt.
const KeyringPasswordEnv = "PLANNER_KEYRING_PASSWORD"

// OpenKeyring returns the OS keyring, falling back to an encrypted file
// under dir. The file password is read from KeyringPasswordEnv or asked
// for on the terminal.
func OpenKeyring(dir string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyringConfig(dir, os.Getenv(KeyringPasswordEnv)))
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func keyringConfig(dir, password string) keyring.Config {
	return keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         filePasswordFunc(password),
		KeychainTrustApplication: true,
	}
}

func filePasswordFunc(password string) keyring.PromptFunc {
	if password != "" {
		return keyring.FixedStringPrompt(password)
	}
	return keyring.TerminalPrompt
}

type tokenStore struct {
	ring keyring.Keyring
}

func (s tokenStore) get() (string, error) {
	item, err := s.ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("getting token: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotLoggedIn
	}
	return string(item.Data), nil
}

func (s tokenStore) set(token string) error {
	err := s.ring.Set(keyring.Item{
		Key:         tokenKey,
		Data:        []byte(token),
		Label:       "Planner access token",
		Description: "Bearer token for the planner API",
	})
	if err != nil {
		return fmt.Errorf("setting token: %w", err)
	}
	return nil
}

// remove deletes the stored token. Removing a missing token succeeds.
func (s tokenStore) remove() error {
	if err := s.ring.Remove(tokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
