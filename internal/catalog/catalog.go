// Package catalog generates the catalog.json manifest that tells the package
// installer how to fetch, verify and install a release.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/digest"
	"aviutl2-cli/internal/logger"
)

// FileName is the manifest written into the release output directory.
const FileName = "catalog.json"

// ReleaseDateLayout formats Version.ReleaseDate.
const ReleaseDateLayout = "2006-01-02"

var entryTypes = map[config.CatalogType]EntryType{
	config.CatalogOutput:       TypeOutput,
	config.CatalogInput:        TypeInput,
	config.CatalogFilter:       TypeFilter,
	config.CatalogCommon:       TypeCommon,
	config.CatalogModification: TypeModification,
	config.CatalogScript:       TypeScript,
	config.CatalogLanguage:     TypeScript,
}

var templateLicenseNames = map[string]string{
	"mit":          "MIT",
	"apache-2.0":   "Apache-2.0",
	"bsd-2-clause": "BSD-2-Clause",
	"bsd-3-clause": "BSD-3-Clause",
}

// CollectFiles fingerprints every regular file under stageDir, sorted by
// slash-separated relative path.
func CollectFiles(stageDir string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(stageDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(stageDir, p)
		if err != nil {
			return err
		}
		sum, err := digest.File(p)
		if err != nil {
			return err
		}
		files = append(files, File{Path: filepath.ToSlash(rel), XXH3_128: sum})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect files in %s: %w", stageDir, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// NewVersion returns the version record for files released at now (UTC date).
func NewVersion(version string, files []File, now time.Time) Version {
	if files == nil {
		files = []File{}
	}
	return Version{
		Version:     version,
		ReleaseDate: now.UTC().Format(ReleaseDateLayout),
		File:        files,
	}
}

// GeneratePattern returns a regular expression matching release archive names
// produced from zipName for project, with any version.
func GeneratePattern(project config.Project, zipName string) string {
	const nameToken, versionToken = "__AU2_NAME_TOKEN__", "__AU2_VERSION_TOKEN__"
	tokenized := strings.NewReplacer("{name}", nameToken, "{version}", versionToken).
		Replace(config.ZipNameTemplate(zipName))
	escaped := strings.NewReplacer(
		nameToken, regexp.QuoteMeta(project.Name),
		versionToken, "[^/]+",
	).Replace(regexp.QuoteMeta(tokenized))
	return "^" + escaped + "$"
}

// DefaultInstallSteps downloads and extracts the package, then copies every
// file except package.txt to the same relative path.
func DefaultInstallSteps(files []File) []Action {
	actions := []Action{{Action: ActionDownload}, {Action: ActionExtract}}
	for _, f := range files {
		if strings.EqualFold(f.Path, config.PackageFileName) {
			continue
		}
		actions = append(actions, Action{Action: ActionCopy, From: f.Path, To: f.Path})
	}
	return actions
}

// BuildIndex assembles the single-entry catalog for cat. versions[0] supplies
// the default install steps when cat declares none.
func BuildIndex(cat *config.Catalog, versions []Version, generatedPattern string) Index {
	install := []Action{}
	if len(versions) > 0 {
		install = DefaultInstallSteps(versions[0].File)
	}
	if cat.InstallSteps != nil {
		install = mapActions(cat.InstallSteps)
	}

	var niconi *string
	if cat.NiconiCommonsID != "" {
		id := cat.NiconiCommonsID
		niconi = &id
	}

	return Index{{
		ID:              cat.ID,
		Name:            cat.Name,
		Type:            entryTypes[cat.Type],
		Summary:         cat.Summary,
		Description:     cat.Description,
		Author:          cat.Author,
		RepoURL:         cat.Homepage,
		Licenses:        []License{mapLicense(cat.License)},
		NiconiCommonsID: niconi,
		Tags:            nonNil(cat.Tags),
		Dependencies:    nonNil(cat.Dependencies),
		Images:          []Image{},
		Installer: Installer{
			Source:    mapSource(cat.DownloadSource, generatedPattern),
			Install:   install,
			Uninstall: mapActions(cat.UninstallSteps),
		},
		Version: append([]Version{}, versions...),
	}}
}

// Write encodes idx as indented JSON at path, creating parent directories.
func Write(path string, idx Index) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("[INFO] Wrote %s\n", path)
	return nil
}

func mapLicense(l config.CatalogLicense) License {
	lic := License{Type: l.Type, Copyrights: []Copyright{}}
	switch l.Type {
	case "mit", "apache-2.0", "bsd-2-clause", "bsd-3-clause":
		if l.Text != "" {
			lic.IsCustom = true
			lic.LicenseBody = stringPtr(l.Text)
			return lic
		}
		lic.Type = templateLicenseNames[l.Type]
		lic.Copyrights = []Copyright{{Years: l.Year, Holder: l.Author}}
	case "other":
		if l.Name != "" {
			lic.Type = l.Name
		}
		lic.IsCustom = true
		lic.LicenseBody = stringPtr(l.Text)
	}
	return lic
}

func mapSource(src config.DownloadSource, generatedPattern string) Source {
	switch src.Type {
	case "booth":
		return Source{Booth: src.URL}
	case "github":
		pattern := src.Pattern
		if pattern == "" {
			pattern = generatedPattern
		}
		return Source{GitHub: &GitHubSource{Owner: src.Owner, Repo: src.Repo, Pattern: pattern}}
	case "google_drive":
		return Source{GoogleDrive: &GoogleDriveSource{ID: src.ID}}
	default:
		return Source{Direct: src.URL}
	}
}

func mapActions(steps []config.CatalogAction) []Action {
	actions := make([]Action, 0, len(steps))
	for _, s := range steps {
		actions = append(actions, Action{
			Action:  s.Action,
			From:    s.From,
			To:      s.To,
			Path:    s.Path,
			Args:    s.Args,
			Elevate: s.Elevate,
		})
	}
	return actions
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func stringPtr(s string) *string { return &s }
