package release

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/davedittrich/ocd/internal/dist"
	"github.com/davedittrich/ocd/internal/logger"
)

// markerLifetime is the period after which a stale install marker is ignored.
const markerLifetime = 10 * time.Minute

// isInstallRunningNow checks the marker file and attempts recovery when it
// looks stale, killing a leftover release process if one is still around.
func isInstallRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(dist.MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The install marker is stale, attempting cleanup")

		if err = terminateProcessByName(dist.ReleaseExecutable()); err != nil {
			return true
		}

		if err = os.Remove(dist.MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read install marker: %v", err)

	return false
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
