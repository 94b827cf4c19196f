package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"aviutl2-cli/internal/catalog"
	"aviutl2-cli/internal/config"

	"github.com/spf13/cobra"
)

// now is the clock used for catalog release dates.
var now = time.Now

func newCatalogCommand() *cobra.Command {
	var (
		setVersion string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Generate catalog.json for the package installer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			if setVersion != "" {
				p.cfg.Project.Version = setVersion
			}
			_, err = runCatalog(p, refresh)
			return err
		},
	}
	cmd.Flags().StringVar(&setVersion, "set-version", "", "Override project.version")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download remote sources again")
	return cmd
}

// runCatalog stages the release, fingerprints it and writes catalog.json,
// returning the manifest path.
func runCatalog(p *project, refresh bool) (string, error) {
	cat := p.cfg.Catalog
	if cat == nil {
		return "", fmt.Errorf("[catalog] is required in %s", config.FileName)
	}

	var (
		profile, packageTemplate, zipName string
		include                           []string
	)
	if r := p.cfg.Release; r != nil {
		profile, packageTemplate, zipName, include = r.Profile, r.PackageTemplate, r.ZipName, r.Include
	}
	stageDir, err := p.stageRelease(firstNonEmpty(profile, defaultReleaseProfile), include, packageTemplate, refresh)
	if err != nil {
		return "", err
	}

	files, err := catalog.CollectFiles(stageDir)
	if err != nil {
		return "", err
	}
	versions := []catalog.Version{catalog.NewVersion(p.cfg.Project.Version, files, now())}
	idx := catalog.BuildIndex(cat, versions, catalog.GeneratePattern(p.cfg.Project, zipName))

	target := filepath.Join(p.ws.ReleaseOutputDir(p.cfg.Release), catalog.FileName)
	if err := catalog.Write(target, idx); err != nil {
		return "", err
	}
	return target, nil
}
