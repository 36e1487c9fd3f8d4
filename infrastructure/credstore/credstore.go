package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"youtube-analytics/domain/repository"
	"youtube-analytics/infrastructure/logger"
)

const (
	serviceName = "youtube_analytics"
	credName    = "api_key"
)

// Store keeps the provider API key in the OS keychain, outside the process
// and outside the config file.
type Store struct{}

func NewStore() repository.ICredentialStore {
	return &Store{}
}

func (s *Store) Save(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("empty API key")
	}
	if err := keyring.Set(serviceName, credName, apiKey); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to save API key to keychain")
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load returns the stored key, or "" with a nil error when none is stored.
func (s *Store) Load() (string, error) {
	key, err := keyring.Get(serviceName, credName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load credential: %w", err)
	}
	return key, nil
}

func (s *Store) Delete() error {
	if err := keyring.Delete(serviceName, credName); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
