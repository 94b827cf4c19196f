package state

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/logger"

	"gopkg.in/yaml.v3"
)

// PrepareSnapshot records the configuration `au2 prepare` placed artifacts for.
// develop compares it against the current manifest to tell the user when the
// symlinks in the development install may be stale.
type PrepareSnapshot struct {
	AviUtl2Version string                      `yaml:"aviutl2_version"`
	Artifacts      map[string]*config.Artifact `yaml:"artifacts"`
}

// NewSnapshot captures the parts of cfg that prepare acts on.
func NewSnapshot(cfg *config.Config) *PrepareSnapshot {
	snap := &PrepareSnapshot{Artifacts: cfg.Artifacts}
	if cfg.Development != nil {
		snap.AviUtl2Version = cfg.Development.AviUtl2Version
	}
	return snap
}

// LoadSnapshot reads the snapshot at path.
// A missing file is not an error: it returns nil, meaning prepare has not run yet.
func LoadSnapshot(path string) (*PrepareSnapshot, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prepare snapshot %s: %w", path, err)
	}

	var snap PrepareSnapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse prepare snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// SaveSnapshot writes the snapshot as YAML, creating parent directories.
func SaveSnapshot(path string, snap *PrepareSnapshot) error {
	raw, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal prepare snapshot: %w", err)
	}

	logger.Debug("[DEBUG] Writing prepare snapshot to %s:\n%s\n", path, string(raw))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write prepare snapshot %s: %w", path, err)
	}
	return nil
}

// Matches reports whether two snapshots describe the same prepared state.
// Both sides are compared in their YAML encoding, which sorts map keys and
// normalizes the untyped build values decoded from TOML and YAML alike.
func (s *PrepareSnapshot) Matches(other *PrepareSnapshot) (bool, error) {
	if s == nil || other == nil {
		return s == other, nil
	}
	a, err := yaml.Marshal(s)
	if err != nil {
		return false, err
	}
	b, err := yaml.Marshal(other)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}
