// Package observability provides logging for the duel engine and a zap-backed
// narration sink.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/narration"
)

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
		zapCfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("duel"), nil
}

// NarrationSink returns a narration.Sink that writes every event to logger at
// info level, tagged with its kind and participants.
//
// Precondition: logger must be non-nil.
func NarrationSink(logger *zap.Logger) narration.Sink {
	l := logger.Named("narration")
	return narration.SinkFunc(func(e narration.Event) {
		fields := []zap.Field{zap.Stringer("kind", e.Kind)}
		if e.Sender != "" {
			fields = append(fields, zap.String("sender", e.Sender))
		}
		if e.Target != "" {
			fields = append(fields, zap.String("target", e.Target))
		}
		l.Info(e.Text, fields...)
	})
}
