package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/defaults"
	"github.com/davedittrich/ocd/internal/render"
)

// errExclusiveOutputFlags is returned when both --all and --usage are given.
var errExclusiveOutputFlags = errors.New("--all and --usage are mutually exclusive")

var (
	loadDefaultsOnce sync.Once
	loadedValues     *defaults.Defaults
)

// defaultsPath locates the persisted defaults file, preferring a per-user
// directory so defaults are shared across working directories.
func defaultsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaults.DefaultFilename
	}

	return filepath.Join(home, ".ocd", defaults.DefaultFilename)
}

// loadedDefaults returns persisted defaults, falling back to initial
// values when the file cannot be read. Flag registration needs defaults
// before cobra parses anything, so failures cannot abort here.
func loadedDefaults() *defaults.Defaults {
	loadDefaultsOnce.Do(func() {
		d, err := defaults.NewStore(defaultsPath()).Load()
		if err != nil {
			d = defaults.New()
		}

		loadedValues = d
	})

	return loadedValues
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Manage persistent command option defaults",
}

var defaultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List default option values",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		d, err := defaults.NewStore(defaultsPath()).Load()
		if err != nil {
			return err
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, d)
		}

		return render.List(os.Stdout, []string{"Name", "Type", "Value"}, d.List())
	},
}

var defaultsSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Set a default option value",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		store := defaults.NewStore(defaultsPath())

		d, err := store.Load()
		if err != nil {
			return err
		}

		if err = d.Set(args[0], args[1]); err != nil {
			return err
		}

		if err = store.Save(d); err != nil {
			return err
		}

		fmt.Printf("[+] set %s to %s\n", args[0], args[1])

		return nil
	},
}

var defaultsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset all defaults to their initial values",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		d, err := defaults.NewStore(defaultsPath()).Reset()
		if err != nil {
			return err
		}

		if isJSONOutput() {
			return render.JSON(os.Stdout, d)
		}

		return render.List(os.Stdout, []string{"Name", "Type", "Value"}, d.List())
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	defaultsCmd.AddCommand(defaultsListCmd, defaultsSetCmd, defaultsResetCmd)
	rootCmd.AddCommand(defaultsCmd)
}
