package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andy/invoicedesk/internal/config"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New(config.LogConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(0) {
		t.Fatalf("expected no-op logger")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(config.LogConfig{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected JSON log line, got %s", data)
	}
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	if err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
