package cmd

import (
	"aviutl2-cli/internal/installer"
	"aviutl2-cli/internal/logger"
	"aviutl2-cli/internal/state"

	"github.com/spf13/cobra"
)

func newDevelopCommand() *cobra.Command {
	var (
		profile   string
		skipStart bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:     "develop [-- aviutl2 args...]",
		Aliases: []string{"dev"},
		Short:   "Build artifacts, update the development install and start AviUtl2",
		Example: `  # Build with the debug profile and start AviUtl2
  au2 dev

  # Build with the release profile without starting AviUtl2
  au2 develop -p release -s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return runDevelop(p, profile, skipStart, refresh, args)
		},
	}
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Artifact profile (default: development.profile or debug)")
	cmd.Flags().BoolVarP(&skipStart, "skip-start", "s", false, "Do not start AviUtl2 after building")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download remote sources again")
	return cmd
}

func runDevelop(p *project, profile string, skipStart, refresh bool, args []string) error {
	dev, err := p.development()
	if err != nil {
		return err
	}
	warnIfSnapshotChanged(p)
	profile = firstNonEmpty(profile, dev.Profile, defaultDevelopmentProfile)

	if err := p.runHook(dev.Prebuild); err != nil {
		return err
	}
	artifacts, err := p.resolveArtifacts(profile, nil, refresh)
	if err != nil {
		return err
	}
	host, err := installer.FindHost(p.ws.DevelopmentDir(dev))
	if err != nil {
		return err
	}
	copied, err := installer.Develop(artifacts, p.runner, installer.PlaceOptions{DataDir: host.DataDir, BaseDir: p.ws.Root})
	if err != nil {
		return err
	}
	if copied > 0 {
		logger.Info("[INFO] Copied %d artifacts into %s\n", copied, host.DataDir)
	}
	if err := p.runHook(dev.Postbuild); err != nil {
		return err
	}

	if skipStart {
		return nil
	}
	return installer.Launch(host, args)
}

// warnIfSnapshotChanged tells the user when aviutl2.toml changed since the last prepare.
func warnIfSnapshotChanged(p *project) {
	saved, err := state.LoadSnapshot(p.ws.SnapshotPath())
	if err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	if saved == nil {
		return
	}
	same, err := saved.Matches(state.NewSnapshot(p.cfg))
	if err != nil {
		logger.Debug("[DEBUG] Failed to compare prepare snapshot: %v\n", err)
		return
	}
	if !same {
		logger.Warn("[WARN] Configuration changed since `au2 prepare` ran. Run `au2 prepare` again if artifacts are missing.\n")
	}
}
