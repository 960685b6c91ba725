package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvBaseURL overrides Server.BaseURL when set
const EnvBaseURL = "INVOICEDESK_BASE_URL"

type Config struct {
	// REST backend
	Server ServerConfig `yaml:"server"`

	// Encrypted session cookie store
	Store StoreConfig `yaml:"store"`

	// PDF export settings
	PDF PDFConfig `yaml:"pdf"`

	// Log output
	Log LogConfig `yaml:"log"`

	// Terminal UI behavior
	UI UIConfig `yaml:"ui"`
}

type ServerConfig struct {
	BaseURL    string `yaml:"base_url"`    // e.g. http://127.0.0.1:8000
	CSRFCookie string `yaml:"csrf_cookie"` // cookie carrying the CSRF token
	CSRFHeader string `yaml:"csrf_header"` // header echoing it on mutating requests
}

type StoreConfig struct {
	Path string `yaml:"path"` // Path to the sqlcipher cookie database
}

type PDFConfig struct {
	OutputDir     string `yaml:"output_dir"`      // Directory for downloaded PDFs
	OpenInBrowser bool   `yaml:"open_in_browser"` // CLI default for `invoices pdf`
}

type LogConfig struct {
	Path  string `yaml:"path"`  // Empty disables logging
	Level string `yaml:"level"` // debug, info, warn, error
}

type UIConfig struct {
	Dark           bool          `yaml:"dark"`             // Initial theme
	EditCloseDelay time.Duration `yaml:"edit_close_delay"` // Modal auto-close after a successful update
}

// DefaultConfigPath returns ~/.config/invoicedesk/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "invoicedesk", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "invoicedesk", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	base := filepath.Join(homeDir, ".config", "invoicedesk")

	return &Config{
		Server: ServerConfig{
			BaseURL:    "http://127.0.0.1:8000",
			CSRFCookie: "csrftoken",
			CSRFHeader: "X-CSRFToken",
		},
		Store: StoreConfig{
			Path: filepath.Join(base, "session.db"),
		},
		PDF: PDFConfig{
			OutputDir:     filepath.Join(base, "pdf"),
			OpenInBrowser: false,
		},
		Log: LogConfig{
			Path:  filepath.Join(base, "invoicedesk.log"),
			Level: "info",
		},
		UI: UIConfig{
			Dark:           false,
			EditCloseDelay: 500 * time.Millisecond,
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Server.BaseURL = v
	}
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the store, PDF and log directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Store.Path), 0700); err != nil {
		return err
	}

	if err := os.MkdirAll(c.PDF.OutputDir, 0755); err != nil {
		return err
	}

	if c.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.Path), 0755); err != nil {
			return err
		}
	}

	return nil
}
