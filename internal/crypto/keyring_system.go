package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// systemKeyring stores the key in the OS keyring
// (macOS Keychain, Secret Service on Linux, Credential Manager on Windows).
type systemKeyring struct{}

// GetKey retrieves the store key from the OS keyring
func (k *systemKeyring) GetKey() (string, error) {
	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("store key not found in keyring: %w", err)
		}
		return "", fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}

	if key == "" {
		return "", errors.New("store key is empty")
	}

	return key, nil
}

// SetKey stores the key in the OS keyring
func (k *systemKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keyring: %w", err)
	}

	return nil
}

// DeleteKey removes the key from the OS keyring
func (k *systemKeyring) DeleteKey() error {
	err := keyring.Delete(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("store key not found in keyring: %w", err)
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}

	return nil
}

// IsAvailable probes the keyring with a throwaway entry
func (k *systemKeyring) IsAvailable() bool {
	testKey := "__invoicedesk_availability_test__"
	if err := keyring.Set(ServiceName, testKey, "test"); err != nil {
		return false
	}

	_ = keyring.Delete(ServiceName, testKey)
	return true
}
