package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// validate is shared across Parse calls; validator caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report manifest keys (destination) instead of Go field names (Destination).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes manifest bytes, resolves polymorphic values and validates the result.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct tag validation and the checks tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	for _, name := range c.ArtifactNames() {
		dest := c.Artifacts[name].Destination
		if filepath.IsAbs(dest) || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, `\`) {
			return fmt.Errorf("artifacts.%s.destination must be relative to the data directory: %s", name, dest)
		}
		clean := filepath.ToSlash(filepath.Clean(dest))
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("artifacts.%s.destination escapes the data directory: %s", name, dest)
		}
		// The data directory itself would be replaced wholesale on placement.
		if clean == "." {
			return fmt.Errorf("artifacts.%s.destination must name an entry inside the data directory: %s", name, dest)
		}
	}
	if c.Catalog != nil {
		if err := c.Catalog.License.validate(); err != nil {
			return err
		}
	}
	return nil
}

// normalize fills the typed fields that mirror raw TOML values.
func (c *Config) normalize() error {
	c.BuildGroups = make(map[string]*BuildCommand, len(c.RawGroups))
	for name, raw := range c.RawGroups {
		cmd, err := ParseBuildCommand(raw)
		if err != nil {
			return fmt.Errorf("build_group.%s: %w", name, err)
		}
		c.BuildGroups[name] = cmd
	}

	for name, artifact := range c.Artifacts {
		if artifact == nil {
			return fmt.Errorf("artifacts.%s must be a table", name)
		}
		cmd, err := ParseBuildCommand(artifact.RawBuild)
		if err != nil {
			return fmt.Errorf("artifacts.%s.build: %w", name, err)
		}
		artifact.Build = cmd
		for profile, override := range artifact.Profiles {
			if override == nil {
				return fmt.Errorf("artifacts.%s.profiles.%s must be a table", name, profile)
			}
			cmd, err := ParseBuildCommand(override.RawBuild)
			if err != nil {
				return fmt.Errorf("artifacts.%s.profiles.%s.build: %w", name, profile, err)
			}
			override.Build = cmd
		}
	}

	if c.Development != nil {
		if err := c.Development.Hooks.normalize("development"); err != nil {
			return err
		}
	}
	if c.Preview != nil {
		if err := c.Preview.Hooks.normalize("preview"); err != nil {
			return err
		}
	}
	if c.Release != nil {
		if err := c.Release.Hooks.normalize("release"); err != nil {
			return err
		}
	}
	if c.Catalog != nil {
		desc, err := parseDescription(c.Catalog.RawDescription)
		if err != nil {
			return err
		}
		c.Catalog.Description = desc
	}
	return nil
}

func (h *Hooks) normalize(section string) error {
	var err error
	if h.Prebuild, err = ParseBuildCommand(h.RawPrebuild); err != nil {
		return fmt.Errorf("%s.prebuild: %w", section, err)
	}
	if h.Postbuild, err = ParseBuildCommand(h.RawPostbuild); err != nil {
		return fmt.Errorf("%s.postbuild: %w", section, err)
	}
	return nil
}

// formatValidationError turns validator output into one line per failed field,
// using manifest key paths such as artifacts[plugin].destination.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required", "required_if":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", field, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
