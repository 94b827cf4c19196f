package cmd

import (
	"fmt"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/installer"
	"aviutl2-cli/internal/logger"

	"github.com/spf13/cobra"
)

const defaultReleaseProfile = "release"

func newPreviewCommand() *cobra.Command {
	var (
		profile   string
		skipStart bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Install the release stage into a separate AviUtl2 and start it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runPreview(p, profile, skipStart, refresh)
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Artifact profile (default: preview.profile, release.profile or release)")
	cmd.Flags().BoolVarP(&skipStart, "skip-start", "s", false, "Do not start AviUtl2 after installing")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download remote sources again")
	return cmd
}

func runPreview(p *project, profile string, skipStart, refresh bool) error {
	preview, release := p.cfg.Preview, p.cfg.Release
	if preview == nil {
		return fmt.Errorf("[preview] is required in %s", config.FileName)
	}
	if release == nil {
		return fmt.Errorf("[release] is required in %s", config.FileName)
	}

	req := installer.HostRequest{Version: preview.AviUtl2Version, Refresh: refresh}
	if req.Version == "" {
		dev, err := p.development()
		if err != nil {
			return fmt.Errorf("preview.aviutl2_version is unset: %w", err)
		}
		req.Version, req.Source = dev.AviUtl2Version, dev.AviUtl2Source
	}
	installDir := p.ws.PreviewDir(preview)
	if err := p.hostInstaller().Ensure(installDir, req); err != nil {
		return err
	}

	profile = firstNonEmpty(profile, preview.Profile, release.Profile, defaultReleaseProfile)
	include := preview.Include
	if include == nil {
		include = release.Include
	}

	if err := p.runHook(preview.Prebuild); err != nil {
		return err
	}
	stageDir, err := p.stageRelease(profile, include, "", refresh)
	if err != nil {
		return err
	}
	host, err := installer.FindHost(installDir)
	if err != nil {
		return err
	}
	if err := installer.CopyDirContents(stageDir, host.DataDir, true); err != nil {
		return err
	}
	logger.Info("[INFO] Installed release stage into %s\n", host.DataDir)
	if err := p.runHook(preview.Postbuild); err != nil {
		return err
	}

	if skipStart {
		return nil
	}
	return installer.Launch(host, nil)
}
