// Package config loads drivecp configuration from a TOML file with
// environment and CLI flag overrides layered on top.
package config

import (
	"os"
	"path/filepath"
)

// Config is the on-disk configuration schema.
type Config struct {
	// TokenPath is the saved OAuth token file consumed by the Drive client.
	TokenPath string `toml:"token_path"`
	// RootFolder is a folder path prefixed to every operation's folder path,
	// letting users scope the tool to a subtree of their drive.
	RootFolder string `toml:"root_folder"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		TokenPath: DefaultTokenPath(),
		LogLevel:  "info",
	}
}

// DefaultConfigPath returns the default config file location,
// ~/.config/drivecp/config.toml on Linux. Empty when the user config
// directory cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "drivecp", "config.toml")
}

// DefaultTokenPath returns the default saved-token location,
// ~/.config/drivecp/token.json on Linux.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "drivecp", "token.json")
}
