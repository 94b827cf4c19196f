// Package artifact merges per-profile overrides onto artifact declarations and
// produces the placement directives the installer acts on.
package artifact

import (
	"fmt"
	"path/filepath"

	"aviutl2-cli/internal/build"
	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/logger"
)

// SourceResolver maps a declared source reference to a readable local path.
type SourceResolver interface {
	Resolve(src string, refresh bool) (string, error)
}

// Resolved is one enabled artifact after profile overrides are applied.
type Resolved struct {
	Name string
	// Source is the local path of the artifact, downloaded first for URL sources.
	Source string
	// Destination is relative to the host's data directory.
	Destination     string
	Build           build.Plan
	PlacementMethod config.PlacementMethod
}

// Options selects which artifacts are resolved and how.
type Options struct {
	Profile string
	// Include restricts resolution to the named artifacts. A nil slice means all.
	Include []string
	Refresh bool
}

// Resolve returns the enabled artifacts of cfg for opts, sorted by name.
func Resolve(cfg *config.Config, sources SourceResolver, opts Options) ([]Resolved, error) {
	var include map[string]bool
	if opts.Include != nil {
		include = make(map[string]bool, len(opts.Include))
		for _, name := range opts.Include {
			include[name] = true
		}
	}

	var resolved []Resolved
	for _, name := range cfg.ArtifactNames() {
		if include != nil && !include[name] {
			logger.Debug("[DEBUG] Artifact %s is not included, skipping\n", name)
			continue
		}
		art := cfg.Artifacts[name]
		eff := effective(art, opts.Profile)
		if !eff.enabled {
			logger.Debug("[DEBUG] Artifact %s is disabled for profile %q\n", name, opts.Profile)
			continue
		}
		if eff.source == "" {
			return nil, fmt.Errorf("artifacts.%s.source is required", name)
		}

		src, err := sources.Resolve(eff.source, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("artifacts.%s: %w", name, err)
		}
		plan, err := build.ResolvePlan(eff.build, cfg.BuildGroups)
		if err != nil {
			return nil, fmt.Errorf("artifacts.%s.build: %w", name, err)
		}

		method := art.PlacementMethod
		if method == "" {
			method = config.PlacementSymlink
		}
		resolved = append(resolved, Resolved{
			Name:            name,
			Source:          src,
			Destination:     filepath.FromSlash(art.Destination),
			Build:           plan,
			PlacementMethod: method,
		})
	}
	return resolved, nil
}

type fields struct {
	enabled bool
	source  string
	build   *config.BuildCommand
}

// effective applies the profile override over the base declaration field by field.
func effective(art *config.Artifact, profile string) fields {
	f := fields{enabled: true, source: art.Source, build: art.Build}
	if art.Enabled != nil {
		f.enabled = *art.Enabled
	}

	override := art.Profiles[profile]
	if override == nil {
		return f
	}
	if override.Enabled != nil {
		f.enabled = *override.Enabled
	}
	if override.Source != "" {
		f.source = override.Source
	}
	if override.Build != nil {
		f.build = override.Build
	}
	return f
}
