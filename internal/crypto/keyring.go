package crypto

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "invoicedesk"
	KeyName     = "session-store-key"

	// EnvStoreKey supplies the key where no system keyring is reachable
	EnvStoreKey = "INVOICEDESK_STORE_KEY"
)

// NewKeyring returns the system keyring when it works, otherwise the env fallback.
// An explicitly set INVOICEDESK_STORE_KEY always wins.
func NewKeyring() Keyring {
	env := &envKeyring{}
	if env.IsAvailable() {
		return env
	}
	sys := &systemKeyring{}
	if sys.IsAvailable() {
		return sys
	}
	return env
}
