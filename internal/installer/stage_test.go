package installer

import (
	"path/filepath"
	"testing"

	"aviutl2-cli/internal/artifact"
	"aviutl2-cli/internal/build"
	"aviutl2-cli/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_RecreatesStageAndRendersPackage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dist", "demo.aux2")
	writeFile(t, src, "plugin")
	tmpl := filepath.Join(dir, "package_template.txt")
	writeFile(t, tmpl, "{name} v{version}\nline two\r\n")

	stage := filepath.Join(dir, ".aviutl2-cli", "release-stage")
	writeFile(t, filepath.Join(stage, "stale.txt"), "left over")

	artifacts := []artifact.Resolved{{
		Name:            "demo",
		Source:          src,
		Destination:     filepath.FromSlash("Plugin/demo.aux2"),
		PlacementMethod: config.PlacementSymlink,
	}}
	opts := StageOptions{
		PackageTemplate: tmpl,
		Project:         config.Project{Name: "demo", Version: "1.2.0"},
	}
	require.NoError(t, Stage(stage, artifacts, build.NewRunner(), opts))

	assert.NoFileExists(t, filepath.Join(stage, "stale.txt"))
	assert.Equal(t, "plugin", readFile(t, filepath.Join(stage, "Plugin", "demo.aux2")))
	assert.Equal(t, "demo v1.2.0\r\nline two\r\n", readFile(t, filepath.Join(stage, config.PackageFileName)))
}

func TestStage_MissingSource(t *testing.T) {
	dir := t.TempDir()
	artifacts := []artifact.Resolved{{
		Name:        "ghost",
		Source:      filepath.Join(dir, "missing.aux2"),
		Destination: "ghost.aux2",
	}}
	err := Stage(filepath.Join(dir, "stage"), artifacts, build.NewRunner(), StageOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifacts.ghost")
}

func TestToCRLF(t *testing.T) {
	assert.Equal(t, "a\r\nb\r\nc", toCRLF("a\nb\r\nc"))
	assert.Equal(t, "", toCRLF(""))
}
