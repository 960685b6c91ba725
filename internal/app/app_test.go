package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/andy/invoicedesk/internal/config"
)

// mock implementation
type mockKeyring struct {
	key       string
	deleteErr error
	deleted   bool
}

func (k *mockKeyring) GetKey() (string, error) { return k.key, nil }
func (k *mockKeyring) SetKey(p string) error   { k.key = p; return nil }
func (k *mockKeyring) IsAvailable() bool       { return true }
func (k *mockKeyring) DeleteKey() error {
	if k.deleteErr != nil {
		return k.deleteErr
	}
	k.deleted = true
	k.key = ""
	return nil
}

func TestForgetStore_RemovesFileAndKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "session.db")
	if err := os.WriteFile(cfg.Store.Path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	kr := &mockKeyring{key: "s3cret"}
	a := &App{Config: cfg, Logger: zap.NewNop(), Keyring: kr}

	if err := a.ForgetStore(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(cfg.Store.Path); !os.IsNotExist(err) {
		t.Fatalf("expected store file removed, stat err = %v", err)
	}
	if !kr.deleted {
		t.Fatalf("expected key deleted")
	}

	// a second call finds nothing on disk and still succeeds
	if err := a.ForgetStore(); err != nil {
		t.Fatalf("unexpected error on missing store: %v", err)
	}
}

func TestForgetStore_KeyringError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "session.db")

	boom := errors.New("keyring locked")
	a := &App{Config: cfg, Keyring: &mockKeyring{deleteErr: boom}}

	if err := a.ForgetStore(); !errors.Is(err, boom) {
		t.Fatalf("expected keyring error, got %v", err)
	}
}
