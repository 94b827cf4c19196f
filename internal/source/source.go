// Package source turns artifact source references into local files.
// Local paths pass through untouched; http(s) URLs are downloaded once into a
// content-addressed cache under the project's .aviutl2-cli directory.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aviutl2-cli/internal/digest"
	"aviutl2-cli/internal/fetch"
	"aviutl2-cli/internal/logger"

	"github.com/google/uuid"
)

// fallbackName is used when a URL has no usable last path segment.
const fallbackName = "download"

// Resolver resolves source references, downloading remote ones into CacheDir.
type Resolver struct {
	CacheDir string
	Client   *fetch.Client
}

// NewResolver returns a Resolver caching into cacheDir.
func NewResolver(cacheDir string, client *fetch.Client) *Resolver {
	if client == nil {
		client = fetch.New()
	}
	return &Resolver{CacheDir: cacheDir, Client: client}
}

// IsHTTPURL reports whether src is fetched over the network.
func IsHTTPURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Resolve returns a local path for src. Filesystem paths are returned verbatim;
// existence is checked later by whoever reads the file.
func (r *Resolver) Resolve(src string, refresh bool) (string, error) {
	if !IsHTTPURL(src) {
		return src, nil
	}
	return r.download(src, refresh)
}

// CachePath is where the download of rawURL is stored: <cache>/<xxh3 of URL>_<file name>.
func (r *Resolver) CachePath(rawURL string) string {
	return filepath.Join(r.CacheDir, digest.String(rawURL)+"_"+FilenameFromURL(rawURL))
}

func (r *Resolver) download(rawURL string, refresh bool) (string, error) {
	if err := os.MkdirAll(r.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w", r.CacheDir, err)
	}

	cachePath := r.CachePath(rawURL)
	if _, err := os.Stat(cachePath); err == nil && !refresh {
		logger.Info("[INFO] Using cached source: %s -> %s\n", rawURL, cachePath)
		return cachePath, nil
	}

	tempPath := filepath.Join(r.CacheDir, uuid.NewString()+"_"+FilenameFromURL(rawURL)+".partial")
	if err := r.Client.DownloadFile(rawURL, nil, tempPath); err != nil {
		return "", fmt.Errorf("failed to download source %s: %w", rawURL, err)
	}

	// Rename does not replace existing files on every platform.
	if err := os.Remove(cachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to replace cache entry %s: %w", cachePath, err)
	}
	if err := os.Rename(tempPath, cachePath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to move download into cache %s: %w", cachePath, err)
	}

	logger.Info("[INFO] Downloaded source: %s -> %s\n", rawURL, cachePath)
	return cachePath, nil
}

// FilenameFromURL returns the last path segment of rawURL without query or
// fragment, or "download" when that segment is empty. The segment is kept
// percent-encoded.
func FilenameFromURL(rawURL string) string {
	s := rawURL
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	name := s[strings.LastIndexByte(s, '/')+1:]
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fallbackName
	}
	return name
}
