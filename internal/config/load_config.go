package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the project manifest name looked up by every command.
const FileName = "aviutl2.toml"

// ErrNotFound is returned when no manifest exists in any lookup location.
var ErrNotFound = errors.New(FileName + " not found")

// FindConfigPath locates the manifest: ./aviutl2.toml first, then
// $XDG_CONFIG_HOME/aviutl2.toml, then ~/.config/aviutl2.toml.
func FindConfigPath() (string, error) {
	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", ErrNotFound
		}
		configDir = filepath.Join(home, ".config")
	}

	path := filepath.Join(configDir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", ErrNotFound
}

// LoadConfig finds, reads and parses the project manifest.
func LoadConfig() (*Config, error) {
	path, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
