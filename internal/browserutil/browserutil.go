package browserutil

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
	"github.com/pkg/browser"
)

// ErrNoTTY is returned when a browser open is requested from a
// non-interactive session without forcing.
var ErrNoTTY = errors.New("refusing to open browser without a TTY (use --force-browser)")

// Open opens the URL in a web browser. When command is non-empty it is
// run as `command URL` instead of the platform default. Opens are
// refused outside an interactive terminal unless force is set, so
// piped and scripted runs do not spawn windows.
func Open(url, command string, force bool) error {
	if !force && !interactive() {
		return ErrNoTTY
	}

	if command != "" {
		if err := exec.Command(command, url).Start(); err != nil {
			return fmt.Errorf("start browser %s: %w", command, err)
		}

		return nil
	}

	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}

	return nil
}

func interactive() bool {
	fd := os.Stdin.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
