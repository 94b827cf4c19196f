package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeJoin(t *testing.T) {
	base := filepath.FromSlash("/base")
	tests := []struct {
		name    string
		entry   string
		want    string
		wantErr bool
	}{
		{name: "plain", entry: "a/b.txt", want: "/base/a/b.txt"},
		{name: "current dir components", entry: "./a/./b.txt", want: "/base/a/b.txt"},
		{name: "backslashes", entry: `a\b.txt`, want: "/base/a/b.txt"},
		{name: "parent escape", entry: "../evil.txt", wantErr: true},
		{name: "nested parent", entry: "a/../../evil.txt", wantErr: true},
		{name: "rooted", entry: "/etc/passwd", wantErr: true},
		{name: "drive letter", entry: "C:/Windows/evil.dll", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := safeJoin(base, tt.entry)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsafePath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestCreateZip_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	stage := filepath.Join(dir, "stage")
	writeFile(t, filepath.Join(stage, "Plugin", "demo.aux2"), "plugin bytes")
	writeFile(t, filepath.Join(stage, "package.txt"), "name\r\n")

	zipPath := filepath.Join(dir, "out", "demo-v1.0.0.au2pkg.zip")
	require.NoError(t, CreateZip(stage, zipPath))

	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
		assert.Equal(t, zip.Deflate, f.Method)
	}
	require.NoError(t, r.Close())
	assert.Equal(t, []string{"Plugin/demo.aux2", "package.txt"}, names)

	extracted := filepath.Join(dir, "extracted")
	require.NoError(t, ExtractArchive(zipPath, extracted))
	assert.Equal(t, "plugin bytes", readFile(t, filepath.Join(extracted, "Plugin", "demo.aux2")))
	assert.Equal(t, "name\r\n", readFile(t, filepath.Join(extracted, "package.txt")))
}

func TestExtractArchive_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")

	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("../evil.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("pwned"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "dest")
	err = ExtractArchive(zipPath, dest)
	require.ErrorIs(t, err, ErrUnsafePath)
	_, err = os.Stat(filepath.Join(dir, "evil.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractArchive_TarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "host.tar.gz")

	f, err := os.Create(archive)
	require.NoError(t, err)
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "AviUtl2/", Typeflag: tar.TypeDir, Mode: 0o755}))
	content := []byte("MZ")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "AviUtl2/aviutl2.exe", Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(content))}))
	_, err = tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, f.Close())

	dest := filepath.Join(dir, "install")
	// Existing files are replaced.
	writeFile(t, filepath.Join(dest, "AviUtl2", "aviutl2.exe"), "old")
	require.NoError(t, ExtractArchive(archive, dest))
	assert.Equal(t, "MZ", readFile(t, filepath.Join(dest, "AviUtl2", "aviutl2.exe")))
}

func TestExtractArchive_Unsupported(t *testing.T) {
	err := ExtractArchive(filepath.Join(t.TempDir(), "x.rar"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported archive format")
}
