package installer

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"aviutl2-cli/internal/logger"

	"github.com/klauspost/compress/flate"
)

// CreateZip writes every regular file under sourceDir into a deflate-compressed
// archive at zipPath. Entry names are relative to sourceDir with '/' separators.
func CreateZip(sourceDir, zipPath string) (err error) {
	if err := os.MkdirAll(filepath.Dir(zipPath), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(zipPath), err)
	}
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", zipPath, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(zipPath)
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})

	err = filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		hdr.Method = zip.Deflate
		logger.Debug("[DEBUG] Adding %s to %s\n", hdr.Name, zipPath)

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		in, err := os.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to write %s: %w", zipPath, err)
	}
	return zw.Close()
}
