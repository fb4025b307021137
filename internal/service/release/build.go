package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/davedittrich/ocd/internal/dist"
	"github.com/davedittrich/ocd/internal/logger"
)

// errNoBuilderCommand is returned when the builder invocation is empty.
var errNoBuilderCommand = errors.New("builder command is empty")

// runBuilder invokes the external builder against the current directory,
// staging binaries into the configured stage directory.
func (s *service) runBuilder(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.StageDir, dist.DefaultFileMode); err != nil {
		return fmt.Errorf("create stage directory: %w", err)
	}

	command := s.cfg.BuildCommand
	if len(command) == 0 {
		command = defaultBuildCommand(s.cfg.StageDir)
	}

	if len(command) == 0 || command[0] == "" {
		return errNoBuilderCommand
	}

	// Echo the command before running it, the way a task runner would.
	logger.InfoKV(ctx, "Invoking builder", "command", strings.Join(command, " "))

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("builder %s: %w", command[0], err)
	}

	return nil
}

// defaultBuildCommand builds every command in the module into the stage dir.
func defaultBuildCommand(stageDir string) []string {
	// Trailing separator makes -o treat the stage dir as a directory.
	return []string{"go", "build", "-o", stageDir + string(os.PathSeparator), "./..."}
}

// packageArtifacts archives the staged binaries into the dist directory and
// writes the release manifest with per-file checksums.
func (s *service) packageArtifacts(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.DistDir, dist.DefaultFileMode); err != nil {
		return fmt.Errorf("create dist directory: %w", err)
	}

	desc := dist.NewDescription()
	desc.Executables = dist.Executables()

	staged := make([]string, 0, len(desc.Executables))

	for _, name := range desc.Executables {
		path := filepath.Join(s.cfg.StageDir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, os.ErrNotExist)
		} else if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		if err := desc.AddFile(path); err != nil {
			return err
		}

		staged = append(staged, path)
	}

	archivePath := filepath.Join(s.cfg.DistDir, dist.ArtifactName(desc.VersionNumber))
	if err := dist.CreateArchive(archivePath, staged); err != nil {
		return err
	}

	manifestPath := filepath.Join(s.cfg.DistDir, dist.ManifestFilename)
	if err := desc.Save(manifestPath); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	logger.InfoKV(ctx, "Packaged release",
		"version", desc.VersionNumber,
		"archive", archivePath,
		"manifest", manifestPath)

	return nil
}
