package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the ocd binaries.
type Config struct {
	// APIBase is the base URL of the OpenAI API.
	APIBase string `yaml:"api_base"`
	// Organization is the OpenAI organization identifier sent with requests.
	// The OPENAI_ORGANIZATION_ID environment variable takes precedence.
	Organization string `yaml:"organization"`
	// UpdateFolder is the URL where release artifacts are uploaded.
	UpdateFolder string `yaml:"update_folder"`
	// InstallDir is the directory holding the installed binaries that the
	// install target upgrades. Empty means the running executable's directory.
	InstallDir string `yaml:"install_dir"`
	// BuildCommand is the external builder invocation for the build target.
	// Empty means the default Go builder against the current directory.
	BuildCommand []string `yaml:"build_command"`
	// StageDir is where the builder places binaries before packaging.
	StageDir string `yaml:"stage_dir"`
	// DistDir is where distribution artifacts are produced.
	DistDir string `yaml:"dist_dir"`
	// Timeout bounds API calls and upload requests.
	Timeout time.Duration `yaml:"timeout"`
	// Browser is the preferred browser for documentation pages.
	// The BROWSER environment variable takes precedence.
	Browser string `yaml:"browser"`
}

const (
	// DefaultConfigFilename is the default filename for ocd settings.
	DefaultConfigFilename = "ocd-settings.yaml"

	// DefaultAPIBase is the public OpenAI API endpoint.
	DefaultAPIBase = "https://api.openai.com/v1"

	// DefaultStageDir is where built binaries are staged before packaging.
	DefaultStageDir = ".ocd-build"

	// DefaultDistDir is where distribution artifacts are produced.
	DefaultDistDir = "dist"

	// DefaultTimeout is the default duration for API and upload requests.
	DefaultTimeout = 60 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		APIBase:  DefaultAPIBase,
		StageDir: DefaultStageDir,
		DistDir:  DefaultDistDir,
		Timeout:  DefaultTimeout,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing file is not an error: every setting has a usable default and
// secrets arrive via environment variables, so first runs need no file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for formatting and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}

	if _, err := url.ParseRequestURI(cfg.APIBase); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if cfg.UpdateFolder != "" {
		if _, err := url.ParseRequestURI(cfg.UpdateFolder); err != nil {
			return fmt.Errorf("invalid update folder URI: %w", err)
		}
	}

	if cfg.StageDir == "" {
		cfg.StageDir = DefaultStageDir
	}

	if cfg.DistDir == "" {
		cfg.DistDir = DefaultDistDir
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
