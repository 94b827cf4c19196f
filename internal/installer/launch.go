package installer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"aviutl2-cli/internal/logger"
)

// Launch starts the host executable with args and returns without waiting.
// A missing executable is reported as a warning, not an error.
func Launch(host *Host, args []string) error {
	if _, err := os.Stat(host.Executable); err != nil {
		logger.Warn("[WARN] AviUtl2 executable not found: %s\n", host.Executable)
		return nil
	}

	cmd := exec.Command(host.Executable, args...)
	cmd.Dir = filepath.Dir(host.Executable)
	logger.Info("[INFO] Starting AviUtl2: %s\n", host.Executable)
	logger.Debug("[DEBUG] Running command: %v\n", cmd.Args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start AviUtl2: %w", err)
	}
	return cmd.Process.Release()
}
