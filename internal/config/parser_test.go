package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullManifest = `
[project]
name = "demo"
version = "1.2.3"

[build_group]
compile = "cargo build --release"
all = { group = "compile" }
steps = ["echo a", "echo b"]

[artifacts.plugin]
source = "dist/plugin.auf"
destination = "Plugin/plugin.auf"
placement_method = "copy"
build = { group = "all" }

[artifacts.script]
enabled = false
destination = "Script/demo.anm2"
build = ["make script", "make check"]

[artifacts.script.profiles.release]
enabled = true
source = "out/demo.anm2"
build = "make release"

[development]
aviutl2_version = "2.00beta31"
install_dir = "dev"
prebuild = "echo pre"

[release]
zip_name = "{name}_{version}"
include = ["plugin"]
postbuild = { group = "steps" }

[catalog]
id = "demo"
name = "Demo"
type = "filter"
summary = "s"
description = { url = "https://example.com/README.md" }
author = "someone"
homepage = "https://example.com"

[catalog.license]
type = "mit"
year = "2025"
author = "someone"

[catalog.download_source]
type = "github"
owner = "someone"
repo = "demo"
`

func TestParse_FullManifest(t *testing.T) {
	cfg, err := Parse([]byte(fullManifest))
	require.NoError(t, err)

	assert.Equal(t, Project{Name: "demo", Version: "1.2.3"}, cfg.Project)
	assert.Equal(t, []string{"plugin", "script"}, cfg.ArtifactNames())

	plugin := cfg.Artifacts["plugin"]
	assert.Equal(t, PlacementCopy, plugin.PlacementMethod)
	assert.Equal(t, GroupRef("all"), plugin.Build)

	script := cfg.Artifacts["script"]
	require.NotNil(t, script.Enabled)
	assert.False(t, *script.Enabled)
	assert.Equal(t, CommandList("make script", "make check"), script.Build)
	release := script.Profiles["release"]
	require.NotNil(t, release)
	assert.Equal(t, "out/demo.anm2", release.Source)
	assert.Equal(t, SingleCommand("make release"), release.Build)

	assert.Equal(t, SingleCommand("cargo build --release"), cfg.BuildGroups["compile"])
	assert.Equal(t, GroupRef("compile"), cfg.BuildGroups["all"])
	assert.Equal(t, CommandList("echo a", "echo b"), cfg.BuildGroups["steps"])

	require.NotNil(t, cfg.Development)
	assert.Equal(t, SingleCommand("echo pre"), cfg.Development.Prebuild)
	assert.Nil(t, cfg.Development.Postbuild)

	require.NotNil(t, cfg.Release)
	assert.Equal(t, GroupRef("steps"), cfg.Release.Postbuild)
	assert.Equal(t, []string{"plugin"}, cfg.Release.Include)

	require.NotNil(t, cfg.Catalog)
	assert.Equal(t, "https://example.com/README.md", cfg.Catalog.Description)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{
			name:     "missing project name",
			manifest: "[project]\nversion = \"1\"\n",
			contains: "project.name is required",
		},
		{
			name: "missing destination",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
source = "a.dll"
`,
			contains: "destination is required",
		},
		{
			name: "bad placement method",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
destination = "Plugin/x.aux2"
placement_method = "hardlink"
`,
			contains: "placement_method must be one of",
		},
		{
			name: "absolute destination",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
destination = "/etc/x.aux2"
`,
			contains: "must be relative",
		},
		{
			name: "destination escapes data dir",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
destination = "../x.aux2"
`,
			contains: "escapes the data directory",
		},
		{
			name: "destination is the data dir",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
destination = "Plugin/.."
`,
			contains: "must name an entry inside the data directory",
		},
		{
			name: "destination is dot",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
destination = "./"
`,
			contains: "must name an entry inside the data directory",
		},
		{
			name: "malformed build reference",
			manifest: `[project]
name = "a"
version = "1"
[artifacts.x]
destination = "Plugin/x.aux2"
build = 42
`,
			contains: "artifacts.x.build",
		},
		{
			name: "group reference without name",
			manifest: `[project]
name = "a"
version = "1"
[build_group]
g = { target = "x" }
`,
			contains: "build_group.g",
		},
		{
			name: "catalog license without holder",
			manifest: `[project]
name = "a"
version = "1"
[catalog]
id = "a"
name = "A"
type = "filter"
summary = "s"
description = "d"
author = "me"
homepage = "https://example.com"
[catalog.license]
type = "mit"
[catalog.download_source]
type = "direct"
url = "https://example.com/a.zip"
`,
			contains: "catalog.license.year",
		},
		{
			name: "github source without repo",
			manifest: `[project]
name = "a"
version = "1"
[catalog]
id = "a"
name = "A"
type = "filter"
summary = "s"
description = "d"
author = "me"
homepage = "https://example.com"
[catalog.license]
type = "cc0"
[catalog.download_source]
type = "github"
owner = "me"
`,
			contains: "download_source.repo is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseBuildCommand(t *testing.T) {
	cmd, err := ParseBuildCommand(nil)
	require.NoError(t, err)
	assert.Nil(t, cmd)

	cmd, err = ParseBuildCommand([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, BuildList, cmd.Kind)
	assert.Equal(t, []string{"a", "b"}, cmd.Commands)

	_, err = ParseBuildCommand([]any{"a", 1})
	require.Error(t, err)

	_, err = ParseBuildCommand(map[string]any{"group": "g", "extra": true})
	require.Error(t, err)
}

func TestLoadConfig_LooksInXDGConfigHome(t *testing.T) {
	project := t.TempDir()
	xdg := t.TempDir()
	t.Chdir(project)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrNotFound)

	manifest := "[project]\nname = \"global\"\nversion = \"0.0.1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(xdg, FileName), []byte(manifest), 0o644))
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "global", cfg.Project.Name)

	local := "[project]\nname = \"local\"\nversion = \"0.0.1\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(project, FileName), []byte(local), 0o644))
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Project.Name)
}

func TestRenderInitTemplate_Parses(t *testing.T) {
	cfg, err := Parse([]byte(RenderInitTemplate("my_project")))
	require.NoError(t, err)
	assert.Equal(t, "my_project", cfg.Project.Name)
	assert.Equal(t, "Plugin/my_plugin.aux2", cfg.Artifacts["my_plugin_aux2"].Destination)
}

func TestZipFileName(t *testing.T) {
	project := Project{Name: "demo", Version: "1.0.0"}
	assert.Equal(t, "demo-v1.0.0.au2pkg.zip", ZipFileName("", project))
	assert.Equal(t, "demo_1.0.0.au2pkg.zip", ZipFileName("{name}_{version}", project))
	assert.Equal(t, "x.au2pkg.zip", ZipFileName("x.au2pkg.zip", project))
	assert.Equal(t, "{name}-v{version}.au2pkg.zip", ZipNameTemplate(""))
}

func TestWorkspacePaths(t *testing.T) {
	ws := Workspace{Root: filepath.FromSlash("/project")}
	assert.Equal(t, filepath.FromSlash("/project/.aviutl2-cli/cache"), ws.CacheDir())
	assert.Equal(t, filepath.FromSlash("/project/.aviutl2-cli/release-stage"), ws.ReleaseStageDir())
	assert.Equal(t, filepath.FromSlash("/project/.aviutl2-cli/development"), ws.DevelopmentDir(nil))
	assert.Equal(t, filepath.FromSlash("/project/dev"), ws.DevelopmentDir(&Development{InstallDir: "dev"}))
	assert.Equal(t, filepath.FromSlash("/project/release"), ws.ReleaseOutputDir(nil))
}
