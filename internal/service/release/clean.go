package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davedittrich/ocd/internal/dist"
	"github.com/davedittrich/ocd/internal/logger"
)

// clean removes previously produced artifacts: dist archives and manifests,
// staged binaries, and stale backups left by earlier installs. Deletion is
// best-effort; missing files are not an error, so clean is idempotent.
func (s *service) clean(ctx context.Context) error {
	patterns := []string{
		filepath.Join(s.cfg.DistDir, dist.ArtifactGlob()),
		filepath.Join(s.cfg.StageDir, "*"),
		filepath.Join(s.installDir(), "*.old"),
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("glob %s: %w", pattern, err)
		}

		for _, match := range matches {
			if err := os.Remove(match); err != nil && !errors.Is(err, os.ErrNotExist) {
				// Clean keeps going; spotless will catch leftovers.
				logger.WarnKV(ctx, "Could not remove artifact", "path", match, "error", err)
				continue
			}

			logger.DebugKV(ctx, "Removed artifact", "path", match)
		}
	}

	return nil
}

// removeCaches deletes the stage and dist directories themselves.
// Running it again once they are gone is a no-op.
func (s *service) removeCaches(ctx context.Context) error {
	for _, dir := range []string{s.cfg.StageDir, s.cfg.DistDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}

		logger.DebugKV(ctx, "Removed directory", "path", dir)
	}

	return nil
}

// installDir resolves the configured install directory, defaulting to the
// directory of the running executable.
func (s *service) installDir() string {
	if s.cfg.InstallDir != "" {
		return s.cfg.InstallDir
	}

	executable, err := os.Executable()
	if err != nil {
		return "."
	}

	return filepath.Dir(executable)
}
