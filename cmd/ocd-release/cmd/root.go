package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/davedittrich/ocd/internal/config"
	"github.com/davedittrich/ocd/internal/logger"
	"github.com/davedittrich/ocd/internal/service/release"
	"github.com/davedittrich/ocd/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// installDir overrides the configured install directory.
	installDir string

	// updateFolder overrides the configured upload destination URL.
	updateFolder string

	// logLevel is the minimum level of emitted log messages.
	logLevel string

	// rootCmd represents the base command for running release targets.
	rootCmd = &cobra.Command{
		Use:       "ocd-release [build|clean|spotless|install|upload]",
		Short:     "Build, package, install and publish ocd releases",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"build", "clean", "spotless", "install", "upload"},
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &release.Options{
				ConfigPath:   configPath,
				InstallDir:   installDir,
				UpdateFolder: updateFolder,
			}

			return release.Run(ctx, args[0], options)
		},
	}
)

// Execute runs the ocd-release CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&installDir, "install-dir", "", "directory holding installed binaries (default is the executable's directory)")
	rootCmd.Flags().StringVar(&updateFolder, "update-folder", "", "URL of the folder release artifacts are uploaded to")
	rootCmd.Flags().StringVar(&logLevel, "log-level", logger.Level().String(), "minimum logging level")
}
