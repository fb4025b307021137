package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/davedittrich/ocd/internal/dist"
	"github.com/davedittrich/ocd/internal/logger"
)

// errInstallRunning indicates another install is in progress.
var errInstallRunning = errors.New("an install is already running")

// acquireInstallLock refuses to proceed while another install is in progress,
// then creates the marker file. It runs before any other install step so a
// concurrent run cannot destroy this run's staged state.
func (s *service) acquireInstallLock(ctx context.Context) error {
	if isInstallRunningNow(ctx) {
		return errInstallRunning
	}

	marker, err := os.Create(dist.MarkerFilename)
	if err != nil {
		return fmt.Errorf("create install marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return err
	}

	s.lockAcquired = true

	return nil
}

// releaseInstallLock removes the marker this run created. A marker owned by
// another process is left alone.
func (s *service) releaseInstallLock(_ context.Context) {
	if !s.lockAcquired {
		return
	}

	_ = os.Remove(dist.MarkerFilename)
	s.lockAcquired = false
}

// installArtifacts upgrade-installs the freshly built archive: each binary is
// verified against the manifest checksum and applied over the installed copy.
// The install lock is already held by the time this step runs.
func (s *service) installArtifacts(ctx context.Context) error {
	desc, err := dist.LoadDescription(filepath.Join(s.cfg.DistDir, dist.ManifestFilename))
	if err != nil {
		return err
	}

	temporaryDirectory, err := os.MkdirTemp("", "ocd-install-")
	if err != nil {
		return err
	}

	defer func() {
		_ = os.RemoveAll(temporaryDirectory)
	}()

	archivePath := filepath.Join(s.cfg.DistDir, dist.ArtifactName(desc.VersionNumber))

	extracted, err := dist.ExtractArchive(archivePath, temporaryDirectory)
	if err != nil {
		return err
	}

	extractedByName := make(map[string]string, len(extracted))
	for _, path := range extracted {
		extractedByName[filepath.Base(path)] = path
	}

	for _, name := range desc.Executables {
		source, ok := extractedByName[name]
		if !ok {
			return fmt.Errorf("%s missing from archive %s: %w", name, archivePath, os.ErrNotExist)
		}

		if err = s.applyExecutable(ctx, desc, name, source); err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Installed release",
		"version", desc.VersionNumber,
		"install_dir", s.installDir())

	return nil
}

// applyExecutable verifies one binary's checksum and swaps it into place.
func (s *service) applyExecutable(ctx context.Context, desc *dist.Description, name, source string) error {
	logger.InfoKV(ctx, "Upgrading executable", "executable", name)

	data, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return err
	}

	checksum, err := desc.Checksum(name)
	if err != nil {
		return err
	}

	targetPath := filepath.Join(s.installDir(), name)
	if _, err = os.Stat(targetPath); errors.Is(err, os.ErrNotExist) {
		// First install: go-update needs an existing target to replace.
		if _, err = os.Create(targetPath); err != nil {
			return err
		}
	}

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: dist.DefaultFileMode,
		Checksum:   checksum,
		Hash:       dist.DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}

	oldPath := targetPath + ".old"
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}
