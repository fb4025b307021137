package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davedittrich/ocd/internal/api"
	"github.com/davedittrich/ocd/internal/browserutil"
	"github.com/davedittrich/ocd/internal/config"
	"github.com/davedittrich/ocd/internal/logger"
	"github.com/davedittrich/ocd/internal/version"
)

const (
	// openaiBase is the OpenAI platform site.
	openaiBase = "https://platform.openai.com"

	// openaiDocsBase is where model and API documentation lives.
	openaiDocsBase = openaiBase + "/docs"
)

var (
	cfgFile      string
	apiBase      string
	organization string
	browserName  string
	forceBrowser bool
	outputFormat string
	elapsed      bool
	logLevel     string

	// cfg holds settings loaded by initConfig before any command runs.
	cfg = config.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ocd",
	Short: "CLI for the OpenAI API",
	Long: `ocd is a command line interface for the OpenAI API: listing and
inspecting models, generating completions, edits and images, analyzing
text files, and managing persistent option defaults.

The API key is read from the OPENAI_API_KEY environment variable and is
never stored in settings files.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	started := time.Now()

	err := rootCmd.Execute()

	if elapsed {
		fmt.Fprintf(os.Stderr, "[+] elapsed time %s\n", time.Since(started).Round(time.Millisecond))
	}

	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is "+config.DefaultConfigFilename+")")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "API base URL (default from settings or "+config.DefaultAPIBase+")")
	rootCmd.PersistentFlags().StringVar(&browserName, "browser", "", "browser command for documentation pages")
	rootCmd.PersistentFlags().BoolVar(&forceBrowser, "force-browser", false, "open the browser even if the process has no TTY")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&elapsed, "elapsed", false, "print elapsed time on exit")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logger.Level().String(), "minimum logging level")
}

// initConfig reads in the settings file and ENV variables if set
func initConfig() {
	if level, ok := logger.ParseLogLevel(logLevel); ok {
		logger.SetLevel(level)
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading settings: %v\n", err)
		os.Exit(1)
	}

	cfg = loaded

	viper.AutomaticEnv() // read in environment variables that match

	// Bind specific environment variables
	viper.BindEnv("organization", "OPENAI_ORGANIZATION_ID")
	viper.BindEnv("browser", "BROWSER")

	if organization == "" {
		organization = viper.GetString("organization")
	}

	if organization == "" {
		organization = cfg.Organization
	}

	if browserName == "" {
		browserName = viper.GetString("browser")
	}

	if browserName == "" {
		browserName = cfg.Browser
	}

	if apiBase == "" {
		apiBase = cfg.APIBase
	}
}

// commandContext returns a context cancelled on SIGTERM/SIGINT.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// newClient builds an API client from the effective settings.
func newClient() *api.Client {
	return api.New(apiBase, organization, api.WithCallTimeout(cfg.Timeout))
}

// isJSONOutput returns true if JSON output is requested
func isJSONOutput() bool {
	return outputFormat == "json"
}

// openPage opens a documentation page in the configured browser.
func openPage(url string) error {
	return browserutil.Open(url, browserName, forceBrowser)
}
