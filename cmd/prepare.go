package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/installer"
	"aviutl2-cli/internal/logger"
	"aviutl2-cli/internal/state"

	"github.com/spf13/cobra"
)

const defaultDevelopmentProfile = "debug"

func newPrepareCommand() *cobra.Command {
	var force, refresh bool

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Write the schema, install AviUtl2 and place artifacts for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			if err := writeSchema(p.ws); err != nil {
				return err
			}
			if err := prepareAviUtl2(p, refresh); err != nil {
				return err
			}
			return prepareArtifacts(p, "", force, refresh)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files in the data directory")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download remote sources again")
	return cmd
}

func newPrepareSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare:schema",
		Short: "Write the aviutl2.toml JSON schema to .aviutl2-cli",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := config.CurrentWorkspace()
			if err != nil {
				return err
			}
			return writeSchema(ws)
		},
	}
}

func newPrepareAviUtl2Command() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "prepare:aviutl2",
		Short: "Install AviUtl2 into the development directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return prepareAviUtl2(p, refresh)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download aviutl2_source again")
	return cmd
}

func newPrepareArtifactsCommand() *cobra.Command {
	var (
		force   bool
		refresh bool
		profile string
	)

	cmd := &cobra.Command{
		Use:   "prepare:artifacts",
		Short: "Place artifacts into the development data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return prepareArtifacts(p, profile, force, refresh)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files in the data directory")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download remote sources again")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Artifact profile (default: development.profile or debug)")
	return cmd
}

func writeSchema(ws config.Workspace) error {
	target := ws.SchemaPath()
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, config.SchemaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write JSON schema %s: %w", target, err)
	}
	logger.Info("[INFO] Wrote JSON schema to %s\n", target)
	return nil
}

func prepareAviUtl2(p *project, refresh bool) error {
	dev, err := p.development()
	if err != nil {
		return err
	}
	return p.hostInstaller().Ensure(p.ws.DevelopmentDir(dev), installer.HostRequest{
		Version: dev.AviUtl2Version,
		Source:  dev.AviUtl2Source,
		Refresh: refresh,
	})
}

func prepareArtifacts(p *project, profile string, force, refresh bool) error {
	dev, err := p.development()
	if err != nil {
		return err
	}
	profile = firstNonEmpty(profile, dev.Profile, defaultDevelopmentProfile)

	artifacts, err := p.resolveArtifacts(profile, nil, refresh)
	if err != nil {
		return err
	}
	host, err := installer.FindHost(p.ws.DevelopmentDir(dev))
	if err != nil {
		return err
	}
	opts := installer.PlaceOptions{DataDir: host.DataDir, BaseDir: p.ws.Root, Force: force}
	if err := installer.Prepare(artifacts, opts); err != nil {
		return err
	}
	if err := state.SaveSnapshot(p.ws.SnapshotPath(), state.NewSnapshot(p.cfg)); err != nil {
		return err
	}
	logger.Info("[INFO] Placed %d artifacts for profile %s\n", len(artifacts), profile)
	return nil
}
