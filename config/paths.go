package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// This file centralizes all path-related helpers for the config package.
// It standardizes where pym stores its configuration file.

const (
	pymConfigName = "config"
	pymConfigType = "yml"
	pymConfigPath = "go-pym/pym"

	PYM_CONFIG_DIR_ENV = "PYM_CONFIG_DIR"
)

// ConfigDir returns the base application config directory.
// If the PYM_CONFIG_DIR environment variable is set, its value is used as
// the base before appending go-pym/pym. Otherwise, the defaults are:
//   - macOS:   ~/Library/Application Support/go-pym/pym
//   - Linux:   ~/.config/go-pym/pym
//   - Windows: %AppData%\go-pym\pym
func ConfigDir() (string, error) {
	dir := os.Getenv(PYM_CONFIG_DIR_ENV)
	if dir != "" {
		return filepath.Join(dir, pymConfigPath), nil
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user config directory: %w", err)
	}

	return filepath.Join(userConfigDir, pymConfigPath), nil
}

// createConfigDir ensures the application config directory exists and returns its path.
func createConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// ConfigFilePath returns the absolute path to the main pym config file (e.g., config.yml),
// without creating any directories.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", pymConfigName, pymConfigType)), nil
}
