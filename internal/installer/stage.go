package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aviutl2-cli/internal/artifact"
	"aviutl2-cli/internal/build"
	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/logger"
)

// StageOptions configures a release stage.
type StageOptions struct {
	// PackageTemplate is a path to the package.txt template; empty skips package.txt.
	PackageTemplate string
	Project         config.Project
}

// Stage rebuilds stageDir from scratch: it runs each artifact's build plan,
// copies every artifact to its destination regardless of placement method and
// renders package.txt.
func Stage(stageDir string, artifacts []artifact.Resolved, runner *build.Runner, opts StageOptions) error {
	dests := make([]string, len(artifacts))
	for i, a := range artifacts {
		dest, err := destinationPath(stageDir, a.Destination)
		if err != nil {
			return fmt.Errorf("artifacts.%s: %w", a.Name, err)
		}
		dests[i] = dest
	}

	if err := RemovePath(stageDir); err != nil {
		return fmt.Errorf("failed to clear stage %s: %w", stageDir, err)
	}
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return fmt.Errorf("failed to create stage %s: %w", stageDir, err)
	}

	for i, a := range artifacts {
		if err := runner.RunPlan(a.Build); err != nil {
			return fmt.Errorf("artifacts.%s: %w", a.Name, err)
		}
		if err := CopyToDestination(a.Source, dests[i], true); err != nil {
			return fmt.Errorf("artifacts.%s: %w", a.Name, err)
		}
	}

	if opts.PackageTemplate != "" {
		if err := writePackageFile(stageDir, opts.PackageTemplate, opts.Project); err != nil {
			return err
		}
	}
	logger.Debug("[DEBUG] Staged %d artifacts in %s\n", len(artifacts), stageDir)
	return nil
}

func writePackageFile(stageDir, templatePath string, project config.Project) error {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read package template %s: %w", templatePath, err)
	}
	content := toCRLF(config.FillTemplate(string(raw), project))
	target := filepath.Join(stageDir, config.PackageFileName)
	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// toCRLF normalizes every line ending to CRLF.
func toCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
