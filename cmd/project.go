package cmd

import (
	"fmt"

	"aviutl2-cli/internal/artifact"
	"aviutl2-cli/internal/build"
	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/fetch"
	"aviutl2-cli/internal/installer"
	"aviutl2-cli/internal/source"
)

// project is the state shared by one command invocation.
type project struct {
	cfg     *config.Config
	ws      config.Workspace
	client  *fetch.Client
	sources *source.Resolver
	runner  *build.Runner
}

func loadProject() (*project, error) {
	ws, err := config.CurrentWorkspace()
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	client := fetch.New()
	return &project{
		cfg:     cfg,
		ws:      ws,
		client:  client,
		sources: source.NewResolver(ws.CacheDir(), client),
		runner:  build.NewRunner(),
	}, nil
}

func (p *project) development() (*config.Development, error) {
	if p.cfg.Development == nil {
		return nil, fmt.Errorf("[development] is required in %s", config.FileName)
	}
	return p.cfg.Development, nil
}

func (p *project) hostInstaller() *installer.HostInstaller {
	return installer.NewHostInstaller(p.client, p.sources)
}

func (p *project) resolveArtifacts(profile string, include []string, refresh bool) ([]artifact.Resolved, error) {
	return artifact.Resolve(p.cfg, p.sources, artifact.Options{
		Profile: profile,
		Include: include,
		Refresh: refresh,
	})
}

func (p *project) runHook(ref *config.BuildCommand) error {
	return p.runner.RunHook(ref, p.cfg.BuildGroups)
}

// stageRelease resolves the artifacts of profile and rebuilds the release stage from them.
func (p *project) stageRelease(profile string, include []string, packageTemplate string, refresh bool) (string, error) {
	artifacts, err := p.resolveArtifacts(profile, include, refresh)
	if err != nil {
		return "", err
	}
	opts := installer.StageOptions{Project: p.cfg.Project}
	if packageTemplate != "" {
		opts.PackageTemplate = p.ws.Path(packageTemplate)
	}
	stageDir := p.ws.ReleaseStageDir()
	if err := installer.Stage(stageDir, artifacts, p.runner, opts); err != nil {
		return "", err
	}
	return stageDir, nil
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
