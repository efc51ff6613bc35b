// Package config loads daemon configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all daemon configuration.
type Config struct {
	Socket   SocketConfig
	HTTP     HTTPConfig
	Terminal TerminalConfig
	Logging  LogConfig
}

// SocketConfig holds the unix control socket configuration.
type SocketConfig struct {
	Path string `envconfig:"TERMBRIDGE_SOCKET" default:"~/.termbridge/termbridge.sock"`
}

// HTTPConfig holds the websocket attach listener configuration.
type HTTPConfig struct {
	Addr    string `envconfig:"TERMBRIDGE_HTTP_ADDR" default:"127.0.0.1:7681"`
	Enabled bool   `envconfig:"TERMBRIDGE_HTTP_ENABLED" default:"true"`
}

// TerminalConfig holds defaults applied to newly spawned sessions. An
// empty Shell defers to per-platform autodetection.
type TerminalConfig struct {
	Cols  uint16 `envconfig:"TERMBRIDGE_COLS" default:"80"`
	Rows  uint16 `envconfig:"TERMBRIDGE_ROWS" default:"24"`
	Shell string `envconfig:"TERMBRIDGE_SHELL" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"TERMBRIDGE_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"TERMBRIDGE_LOG_DEV" default:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
