// Package logging builds the zap loggers used across termbridge.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger at the given level ("debug", "info", "warn",
// "error"). The development flag switches from JSON to colored console
// encoding.
func New(level string, development bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// NewDefault returns an info-level production logger, falling back to a
// nop logger if construction fails.
func NewDefault() *zap.Logger {
	logger, err := New("info", false)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
