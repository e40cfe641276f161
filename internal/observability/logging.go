// Package observability provides zap logger construction for skirmish.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// ServiceName is attached to every record emitted by a logger from NewLogger.
const ServiceName = "skirmish"

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Combat ticks emit bursts of identical debug records; keep them all.
	zapCfg.Sampling = nil

	logger, err := zapCfg.Build(zap.Fields(zap.String("service", ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// ForSession returns a child of base tagged with the session id.
//
// Precondition: base must not be nil.
func ForSession(base *zap.Logger, sessionID string) *zap.Logger {
	return base.Named("session").With(zap.String("session_id", sessionID))
}

// ForComponent returns a child of base named after a subsystem such as
// "equipment" or "scripting".
func ForComponent(base *zap.Logger, component string) *zap.Logger {
	return base.Named(component)
}
