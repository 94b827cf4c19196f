package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"aviutl2-cli/internal/config"
	"aviutl2-cli/internal/logger"

	"github.com/spf13/cobra"
)

const defaultProjectName = "my_aviutl2_project"

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create aviutl2.toml in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	if _, err := os.Stat(config.FileName); err == nil {
		return fmt.Errorf("%s already exists", config.FileName)
	}

	name := defaultProjectName
	if wd, err := os.Getwd(); err == nil {
		if base := filepath.Base(wd); base != "." && base != string(filepath.Separator) {
			name = base
		}
	}
	if err := os.WriteFile(config.FileName, []byte(config.RenderInitTemplate(name)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}
	logger.Info("[INFO] Created %s\n", config.FileName)

	const gitignore = ".gitignore"
	existing, err := os.ReadFile(gitignore)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.WriteFile(gitignore, []byte(config.GitignoreBlock), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", gitignore, err)
		}
		logger.Info("[INFO] Created %s\n", gitignore)
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", gitignore, err)
	default:
		content := string(existing) + "\n" + config.GitignoreBlock
		if err := os.WriteFile(gitignore, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", gitignore, err)
		}
		logger.Info("[INFO] Updated %s\n", gitignore)
	}
	return nil
}
