package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andy/invoicedesk/internal/config"
)

// New builds a JSON file logger from config.
// An empty path yields a no-op logger; the TUI owns stdout and stderr.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{cfg.Path}
	zc.ErrorOutputPaths = []string{cfg.Path}
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("invoicedesk"), nil
}
