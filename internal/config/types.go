package config

import "sort"

// Config is the parsed aviutl2.toml project manifest.
// Raw* fields hold the untyped TOML values of polymorphic entries; Load fills
// the typed counterparts (Build, Prebuild, Description, ...) after decoding.
type Config struct {
	Project     Project              `toml:"project"`
	Artifacts   map[string]*Artifact `toml:"artifacts" validate:"omitempty,dive"`
	RawGroups   map[string]any       `toml:"build_group"`
	Development *Development         `toml:"development"`
	Preview     *Preview             `toml:"preview"`
	Release     *Release             `toml:"release"`
	Catalog     *Catalog             `toml:"catalog"`

	// BuildGroups maps a group name to its build reference.
	BuildGroups map[string]*BuildCommand `toml:"-"`
}

// Project identifies the plugin being developed.
type Project struct {
	Name    string `toml:"name" validate:"required"`
	Version string `toml:"version" validate:"required"`
}

// PlacementMethod selects how an artifact reaches the host's data directory.
type PlacementMethod string

const (
	PlacementSymlink PlacementMethod = "symlink"
	PlacementCopy    PlacementMethod = "copy"
)

// Artifact is one named build output and where it lands under the data directory.
type Artifact struct {
	Enabled         *bool                       `toml:"enabled" yaml:"enabled,omitempty"`
	Source          string                      `toml:"source" yaml:"source,omitempty"`
	Destination     string                      `toml:"destination" yaml:"destination" validate:"required"`
	RawBuild        any                         `toml:"build" yaml:"build,omitempty"`
	PlacementMethod PlacementMethod             `toml:"placement_method" yaml:"placement_method,omitempty" validate:"omitempty,oneof=symlink copy"`
	Profiles        map[string]*ArtifactProfile `toml:"profiles" yaml:"profiles,omitempty" validate:"omitempty,dive"`

	Build *BuildCommand `toml:"-" yaml:"-"`
}

// ArtifactProfile overrides an artifact's fields for one profile (e.g. debug, release).
type ArtifactProfile struct {
	Enabled  *bool  `toml:"enabled" yaml:"enabled,omitempty"`
	Source   string `toml:"source" yaml:"source,omitempty"`
	RawBuild any    `toml:"build" yaml:"build,omitempty"`

	Build *BuildCommand `toml:"-" yaml:"-"`
}

// Hooks are the commands run before and after a command's artifact work.
type Hooks struct {
	RawPrebuild  any `toml:"prebuild"`
	RawPostbuild any `toml:"postbuild"`

	Prebuild  *BuildCommand `toml:"-"`
	Postbuild *BuildCommand `toml:"-"`
}

// Development configures the local development install of the host application.
type Development struct {
	Hooks
	AviUtl2Version string `toml:"aviutl2_version" validate:"required"`
	InstallDir     string `toml:"install_dir"`
	// AviUtl2Source replaces the official download with an archive URL or local path.
	AviUtl2Source string `toml:"aviutl2_source"`
	Profile       string `toml:"profile"`
}

// Preview configures a throwaway install that receives the release stage.
type Preview struct {
	Hooks
	AviUtl2Version string   `toml:"aviutl2_version"`
	InstallDir     string   `toml:"install_dir"`
	Profile        string   `toml:"profile"`
	Include        []string `toml:"include"`
}

// Release configures the release package.
type Release struct {
	Hooks
	OutputDir       string   `toml:"output_dir"`
	PackageTemplate string   `toml:"package_template"`
	ZipName         string   `toml:"zip_name"`
	Profile         string   `toml:"profile"`
	Include         []string `toml:"include"`
}

// ArtifactNames returns the artifact names in sorted order.
// TOML tables carry no ordering once decoded, so every consumer iterates by name.
func (c *Config) ArtifactNames() []string {
	names := make([]string, 0, len(c.Artifacts))
	for name := range c.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
