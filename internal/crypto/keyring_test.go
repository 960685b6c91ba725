package crypto

import "testing"

func TestEnvKeyring(t *testing.T) {
	t.Setenv(EnvStoreKey, "")
	k := &envKeyring{}
	if k.IsAvailable() {
		t.Fatalf("expected env keyring to be unavailable without the variable")
	}
	if _, err := k.GetKey(); err == nil {
		t.Fatalf("expected error without the variable")
	}

	t.Setenv(EnvStoreKey, "s3cret")
	key, err := k.GetKey()
	if err != nil || key != "s3cret" {
		t.Fatalf("GetKey() = %q, %v", key, err)
	}
	if err := k.SetKey(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
	if err := k.SetKey("x"); err == nil {
		t.Fatalf("expected env keyring to refuse persisting keys")
	}
}

func TestNewKeyring_PrefersExplicitEnv(t *testing.T) {
	t.Setenv(EnvStoreKey, "from-env")
	k := NewKeyring()
	if _, ok := k.(*envKeyring); !ok {
		t.Fatalf("expected env keyring when %s is set, got %T", EnvStoreKey, k)
	}
}
