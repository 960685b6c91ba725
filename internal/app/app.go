package app

import (
	"context"
	"fmt"
	"errors"
	"net/url"
	"os"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/config"
	"github.com/andy/invoicedesk/internal/crypto"
	"github.com/andy/invoicedesk/internal/db"
	"github.com/andy/invoicedesk/internal/logging"
	"github.com/andy/invoicedesk/internal/repository"
	"github.com/andy/invoicedesk/internal/service"
	"github.com/andy/invoicedesk/internal/session"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *db.DB

	// Holds the store key
	Keyring crypto.Keyring

	// Session
	CookieRepo repository.CookieRepository
	Jar        *session.Jar

	// Remote API
	Client *api.Client

	// Services
	InvoiceBook    *service.InvoiceBook
	InvoiceService service.InvoiceService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Building the file logger
// 3. Getting the store key from the keyring
// 4. Opening the cookie store and running migrations
// 5. Creating the session jar and REST client
// 6. Creating services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	keyring := crypto.NewKeyring()

	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up session store encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	database, err := db.Open(cfg.Store.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := build(ctx, cfg, logger, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	a.Keyring = keyring
	return a, nil
}

// build wires the session, client and services on top of an open store
func build(ctx context.Context, cfg *config.Config, logger *zap.Logger, database *db.DB) (*App, error) {
	base, err := url.Parse(cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server.base_url: %w", err)
	}

	cookieRepo := repository.NewCookieRepo(database)
	jar, err := session.NewJar(ctx, cookieRepo, base, logger.Named("session"))
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.Server.BaseURL, jar,
		api.WithLogger(logger.Named("api")),
		api.WithCSRF(cfg.Server.CSRFCookie, cfg.Server.CSRFHeader),
	)
	if err != nil {
		return nil, err
	}

	book := service.NewInvoiceBook(client)
	invoiceService := service.NewInvoiceService(client, book, logger.Named("service"))

	logger.Info("app initialized", zap.String("server", cfg.Server.BaseURL))

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             database,
		CookieRepo:     cookieRepo,
		Jar:            jar,
		Client:         client,
		InvoiceBook:    book,
		InvoiceService: invoiceService,
	}, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// promptForPassword prompts user for a new store password (first run)
// This should be called when keyring has no stored key
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your session cookies will be stored encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for the session store: ")

	// Read password securely (no echo)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Session store encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// ForgetStore closes and deletes the session store and removes its key, so the
// next start sets up a fresh store with a new password.
func (a *App) ForgetStore() error {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close session store: %w", err)
		}
		a.DB = nil
	}

	if err := os.Remove(a.Config.Store.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session store: %w", err)
	}

	if a.Keyring != nil {
		if err := a.Keyring.DeleteKey(); err != nil {
			return fmt.Errorf("failed to delete store key: %w", err)
		}
	}

	if a.Logger != nil {
		a.Logger.Info("session store removed", zap.String("path", a.Config.Store.Path))
	}
	return nil
}
