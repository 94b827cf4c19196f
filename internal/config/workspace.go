package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// CLIDirName is the per-project directory holding caches, stages and generated files.
const CLIDirName = ".aviutl2-cli"

// PackageFileName is the package description rendered at the root of a release.
const PackageFileName = "package.txt"

// Workspace resolves project-relative locations. Root is the directory the CLI runs in.
type Workspace struct {
	Root string
}

// CurrentWorkspace returns a Workspace rooted at the current working directory.
func CurrentWorkspace() (Workspace, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Workspace{}, fmt.Errorf("failed to get current directory: %w", err)
	}
	return Workspace{Root: wd}, nil
}

// Path resolves p against the workspace root unless it is already absolute.
func (w Workspace) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.Root, p)
}

// CLIDir is the .aviutl2-cli directory under the project root.
func (w Workspace) CLIDir() string { return filepath.Join(w.Root, CLIDirName) }

// CacheDir holds downloaded artifact sources, keyed by URL digest.
func (w Workspace) CacheDir() string { return filepath.Join(w.CLIDir(), "cache") }

// ReleaseStageDir is rebuilt by release, preview and catalog before packaging.
func (w Workspace) ReleaseStageDir() string { return filepath.Join(w.CLIDir(), "release-stage") }

// SchemaPath is where prepare:schema writes the manifest JSON schema.
func (w Workspace) SchemaPath() string { return filepath.Join(w.CLIDir(), "aviutl2.schema.json") }

// SnapshotPath is the record of the configuration prepare:artifacts last placed.
func (w Workspace) SnapshotPath() string { return filepath.Join(w.CLIDir(), "prepare-snapshot.yaml") }

// DevelopmentDir is development.install_dir, or .aviutl2-cli/development when unset.
func (w Workspace) DevelopmentDir(dev *Development) string {
	if dev != nil && dev.InstallDir != "" {
		return w.Path(dev.InstallDir)
	}
	return filepath.Join(w.CLIDir(), "development")
}

// PreviewDir is preview.install_dir, or .aviutl2-cli/preview when unset.
func (w Workspace) PreviewDir(p *Preview) string {
	if p != nil && p.InstallDir != "" {
		return w.Path(p.InstallDir)
	}
	return filepath.Join(w.CLIDir(), "preview")
}

// ReleaseOutputDir is release.output_dir, or ./release when unset.
func (w Workspace) ReleaseOutputDir(r *Release) string {
	if r != nil && r.OutputDir != "" {
		return w.Path(r.OutputDir)
	}
	return filepath.Join(w.Root, "release")
}
