package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"aviutl2-cli/internal/artifact"
	"aviutl2-cli/internal/fetch"
	"aviutl2-cli/internal/logger"

	"github.com/google/uuid"
)

const (
	// DefaultAPIBase serves official host application builds.
	DefaultAPIBase = "https://api.aviutl2.jp"
	// ExecutableName is the host executable searched for under an install root.
	ExecutableName = "aviutl2.exe"
	// VersionMarker records which host build an install directory holds.
	VersionMarker = ".aviutl2-version"
)

// ErrHostNotFound is returned when no host executable exists under an install root.
var ErrHostNotFound = errors.New(ExecutableName + " not found")

// Host is an installed copy of the host application.
type Host struct {
	Executable string
	// DataDir is the data directory next to Executable; artifact destinations are relative to it.
	DataDir string
}

// FindHost walks installDir for the host executable (case-insensitively) and
// returns it with its sibling data directory.
func FindHost(installDir string) (*Host, error) {
	if _, err := os.Stat(installDir); err != nil {
		return nil, fmt.Errorf("host install directory not found: %s: %w", installDir, err)
	}

	var exe string
	err := filepath.WalkDir(installDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("[DEBUG] WalkDir error: %v\n", err)
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(d.Name(), ExecutableName) {
			exe = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if exe == "" {
		return nil, fmt.Errorf("%w under %s", ErrHostNotFound, installDir)
	}
	logger.Debug("[DEBUG] Found host executable: %s\n", exe)
	return &Host{Executable: exe, DataDir: filepath.Join(filepath.Dir(exe), "data")}, nil
}

// HostInstaller downloads and unpacks the host application.
type HostInstaller struct {
	Client  *fetch.Client
	Sources artifact.SourceResolver
	// APIBase is the download API root, DefaultAPIBase unless overridden.
	APIBase string
	// TempDir receives API downloads before extraction; empty means os.TempDir().
	TempDir string
}

// HostRequest selects the host build to install.
type HostRequest struct {
	Version string
	// Source is an archive URL or path that replaces the official download.
	Source  string
	Refresh bool
}

// NewHostInstaller returns a HostInstaller using the official download API.
func NewHostInstaller(client *fetch.Client, sources artifact.SourceResolver) *HostInstaller {
	return &HostInstaller{Client: client, Sources: sources, APIBase: DefaultAPIBase}
}

// markerValue identifies what was installed: the archive source when one is
// configured, the version otherwise.
func (r HostRequest) markerValue() string {
	if r.Source != "" {
		return r.Source
	}
	return r.Version
}

// Ensure installs the requested host build into installDir unless the version
// marker shows it is already there.
func (h *HostInstaller) Ensure(installDir string, req HostRequest) error {
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", installDir, err)
	}

	markerPath := filepath.Join(installDir, VersionMarker)
	if current, err := os.ReadFile(markerPath); err == nil && string(current) == req.markerValue() {
		logger.Info("[INFO] AviUtl2 %s is already installed in %s\n", req.markerValue(), installDir)
		return nil
	}

	archive, cleanup, err := h.fetchArchive(req)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := ExtractArchive(archive, installDir); err != nil {
		return fmt.Errorf("failed to extract AviUtl2 archive %s: %w", archive, err)
	}
	if err := os.WriteFile(markerPath, []byte(req.markerValue()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", markerPath, err)
	}
	logger.Info("[INFO] Installed AviUtl2 %s into %s\n", req.markerValue(), installDir)
	return nil
}

func (h *HostInstaller) fetchArchive(req HostRequest) (string, func(), error) {
	if req.Source != "" {
		p, err := h.Sources.Resolve(req.Source, req.Refresh)
		if err != nil {
			return "", nil, fmt.Errorf("failed to resolve aviutl2_source %s: %w", req.Source, err)
		}
		return p, func() {}, nil
	}

	if req.Version == "" {
		return "", nil, fmt.Errorf("aviutl2_version is required")
	}
	tmpDir := h.TempDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	tmp := filepath.Join(tmpDir, "aviutl2-"+uuid.NewString()+".zip")
	query := url.Values{"version": {req.Version}, "type": {"zip"}}

	logger.Info("[INFO] Downloading AviUtl2 %s...\n", req.Version)
	if err := h.Client.DownloadFile(strings.TrimRight(h.APIBase, "/")+"/download", query, tmp); err != nil {
		return "", nil, fmt.Errorf("failed to download AviUtl2 %s: %w", req.Version, err)
	}
	return tmp, func() { os.Remove(tmp) }, nil
}
