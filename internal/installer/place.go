package installer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aviutl2-cli/internal/logger"
)

// ErrDestinationExists guards unmanaged files from being overwritten without --force.
var ErrDestinationExists = errors.New("destination already exists (use --force to overwrite)")

// ErrUnsafeDestination is returned for artifact destinations that resolve to
// the placement root itself or outside of it.
var ErrUnsafeDestination = errors.New("destination must name an entry inside the data directory")

// destinationPath joins rel onto root, refusing anything that would replace
// root or land outside it.
func destinationPath(root, rel string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(rel))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeDestination, rel)
	}
	return filepath.Join(root, rel), nil
}

// RemovePath deletes p whatever it is. A missing path is not an error.
// Symlinks are removed themselves, never their targets.
func RemovePath(p string) error {
	info, err := os.Lstat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(p)
	}
	return os.Remove(p)
}

// clearDestination removes an existing entry at dest. Symlinks are always
// replaceable; anything else needs force.
func clearDestination(dest string, force bool) error {
	info, err := os.Lstat(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 && !force {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}
	return RemovePath(dest)
}

// CopyToDestination copies src (a file or a directory tree) to dest.
func CopyToDestination(src, dest string, force bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to read source %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	if err := clearDestination(dest, force); err != nil {
		return err
	}

	if info.IsDir() {
		err = copyTree(src, dest)
	} else {
		err = copyFile(src, dest)
	}
	if err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	logger.Info("[INFO] Copied %s -> %s\n", src, dest)
	return nil
}

// CreateSymlink links dest to target. target is stored as given, so a relative
// target is resolved against dest's directory. If another process creates dest
// between the check and the link, the check is repeated once.
func CreateSymlink(target, dest string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}
	if err := clearDestination(dest, force); err != nil {
		return err
	}

	err := os.Symlink(target, dest)
	if errors.Is(err, fs.ErrExist) {
		logger.Debug("[DEBUG] %s appeared while linking, retrying\n", dest)
		if err := clearDestination(dest, force); err != nil {
			return err
		}
		err = os.Symlink(target, dest)
	}
	if err != nil {
		return fmt.Errorf("failed to create symlink %s: %w", dest, err)
	}
	logger.Info("[INFO] Linked %s -> %s\n", dest, target)
	return nil
}

// CopyDirContents copies every file under srcDir into destDir, keeping relative paths.
func CopyDirContents(srcDir, destDir string, force bool) error {
	return filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		return CopyToDestination(p, filepath.Join(destDir, rel), force)
	})
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(p, target)
	})
}

// copyFile copies a file from src to dst, preserving permissions.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	if stat, err := in.Stat(); err == nil {
		return os.Chmod(dst, stat.Mode().Perm())
	}
	return nil
}
