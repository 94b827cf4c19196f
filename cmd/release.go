package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/installer"
	"aviutl2-cli/internal/logger"

	"github.com/spf13/cobra"
)

func newReleaseCommand() *cobra.Command {
	var (
		profile    string
		setVersion string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Build the release package (.au2pkg.zip)",
		Args:  cobra.NoArgs,
		Example: `  # Package version 1.0.0 regardless of project.version
  au2 release --set-version 1.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			if setVersion != "" {
				p.cfg.Project.Version = setVersion
			}
			_, err = runRelease(p, profile, refresh)
			return err
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Artifact profile (default: release.profile or release)")
	cmd.Flags().StringVar(&setVersion, "set-version", "", "Override project.version")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download remote sources again")
	return cmd
}

// runRelease stages the release and zips it, returning the archive path.
func runRelease(p *project, profile string, refresh bool) (string, error) {
	release := p.cfg.Release
	if release == nil {
		return "", fmt.Errorf("[release] is required in %s", config.FileName)
	}
	profile = firstNonEmpty(profile, release.Profile, defaultReleaseProfile)

	outputDir := p.ws.ReleaseOutputDir(release)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outputDir, err)
	}
	if err := p.runHook(release.Prebuild); err != nil {
		return "", err
	}
	stageDir, err := p.stageRelease(profile, release.Include, release.PackageTemplate, refresh)
	if err != nil {
		return "", err
	}

	zipPath := filepath.Join(outputDir, config.ZipFileName(release.ZipName, p.cfg.Project))
	if err := installer.CreateZip(stageDir, zipPath); err != nil {
		return "", err
	}
	logger.Info("[INFO] Created release package %s\n", zipPath)

	if err := p.runHook(release.Postbuild); err != nil {
		return "", err
	}
	return zipPath, nil
}
