package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"aviutl2-cli/internal/artifact"
	"aviutl2-cli/internal/build"
	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/logger"
)

// PlaceOptions configures artifact placement into a host data directory.
type PlaceOptions struct {
	DataDir string
	// BaseDir anchors relative artifact sources, normally the project root.
	BaseDir string
	Force   bool
}

func (o PlaceOptions) absSource(src string) string {
	if filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(o.BaseDir, src)
}

// Prepare places artifacts without building them. Symlinks point at the
// source through a path relative to the link's directory, so the tree stays
// valid when the project moves. Copy artifacts whose source is not built yet
// are skipped with a warning.
func Prepare(artifacts []artifact.Resolved, opts PlaceOptions) error {
	for _, a := range artifacts {
		dest, err := destinationPath(opts.DataDir, a.Destination)
		if err != nil {
			return fmt.Errorf("artifacts.%s: %w", a.Name, err)
		}
		switch a.PlacementMethod {
		case config.PlacementCopy:
			if _, err := os.Stat(a.Source); errors.Is(err, fs.ErrNotExist) {
				logger.Warn("[WARN] Source of %s not found, skipping: %s\n", a.Name, a.Source)
				continue
			}
			if err := CopyToDestination(a.Source, dest, opts.Force); err != nil {
				return fmt.Errorf("artifacts.%s: %w", a.Name, err)
			}
		default:
			target, err := filepath.Rel(filepath.Dir(dest), opts.absSource(a.Source))
			if err != nil {
				return fmt.Errorf("artifacts.%s: failed to compute link target: %w", a.Name, err)
			}
			if err := CreateSymlink(target, dest, opts.Force); err != nil {
				return fmt.Errorf("artifacts.%s: %w", a.Name, err)
			}
		}
	}
	return nil
}

// Develop builds each artifact and refreshes copy artifacts in the data
// directory, overwriting what is there. Symlinked artifacts are only created
// when missing, pointing at the absolute source. It returns how many artifacts
// were copied.
func Develop(artifacts []artifact.Resolved, runner *build.Runner, opts PlaceOptions) (int, error) {
	copied := 0
	for _, a := range artifacts {
		dest, err := destinationPath(opts.DataDir, a.Destination)
		if err != nil {
			return copied, fmt.Errorf("artifacts.%s: %w", a.Name, err)
		}
		if err := runner.RunPlan(a.Build); err != nil {
			return copied, fmt.Errorf("artifacts.%s: %w", a.Name, err)
		}
		switch a.PlacementMethod {
		case config.PlacementCopy:
			if err := CopyToDestination(a.Source, dest, true); err != nil {
				return copied, fmt.Errorf("artifacts.%s: %w", a.Name, err)
			}
			copied++
		default:
			if _, err := os.Lstat(dest); err == nil {
				continue
			}
			if err := CreateSymlink(opts.absSource(a.Source), dest, false); err != nil {
				return copied, fmt.Errorf("artifacts.%s: %w", a.Name, err)
			}
		}
	}
	return copied, nil
}
