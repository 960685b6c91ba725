package crypto

import (
	"errors"
	"fmt"
	"os"
)

type envKeyring struct{}

// GetKey retrieves the store key from INVOICEDESK_STORE_KEY
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvStoreKey)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", EnvStoreKey)
	}

	return key, nil
}

// SetKey cannot persist anything; it tells the user what to export instead
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	return fmt.Errorf("no system keyring available: please set %s to the chosen password", EnvStoreKey)
}

// DeleteKey returns an error suggesting to unset the environment variable
func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("no system keyring available: please unset %s manually", EnvStoreKey)
}

// IsAvailable checks if INVOICEDESK_STORE_KEY is set
func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(EnvStoreKey) != ""
}
