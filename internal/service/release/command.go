package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/davedittrich/ocd/internal/config"
	"github.com/davedittrich/ocd/internal/logger"
)

// Options contains inputs for the release entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML file.
	ConfigPath string
	// InstallDir overrides the configured install directory.
	InstallDir string
	// UpdateFolder overrides the configured upload destination URL.
	UpdateFolder string
}

// errUnknownTarget is returned when a target name is not recognized.
var errUnknownTarget = errors.New("unknown target")

// service carries the configuration shared by all targets.
// It is unexported; callers use Run, which encapsulates setup.
type service struct {
	cfg *config.Config

	// lockAcquired records whether this run created the install marker,
	// so cleanup never removes a marker owned by another process.
	lockAcquired bool
}

// Run executes the named target with fail-fast step sequencing.
func Run(ctx context.Context, targetName string, opts *Options) error {
	ctx = logger.WithName(ctx, "ocd-release")

	svc, err := newService(opts)
	if err != nil {
		return fmt.Errorf("initialize release service: %w", err)
	}

	target, err := svc.target(targetName)
	if err != nil {
		return err
	}

	return target.Run(ctx)
}

// newService loads configuration and applies option overrides.
func newService(opts *Options) (*service, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.InstallDir != "" {
		cfg.InstallDir = opts.InstallDir
	}

	if opts.UpdateFolder != "" {
		cfg.UpdateFolder = opts.UpdateFolder
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return &service{cfg: cfg}, nil
}

// target assembles the step sequence for a target name.
func (s *service) target(name string) (Target, error) {
	switch name {
	case "build":
		return s.buildTarget(), nil
	case "clean":
		return s.cleanTarget(), nil
	case "spotless":
		return s.spotlessTarget(), nil
	case "install":
		return s.installTarget(), nil
	case "upload":
		return s.uploadTarget(), nil
	default:
		return Target{}, fmt.Errorf("%q: %w", name, errUnknownTarget)
	}
}

// buildTarget runs the external builder, then packages the artifacts.
func (s *service) buildTarget() Target {
	return Target{
		Name:  "build",
		Steps: s.buildSteps(),
	}
}

// cleanTarget removes stale artifacts, best-effort.
func (s *service) cleanTarget() Target {
	return Target{
		Name:  "clean",
		Steps: s.cleanSteps(),
	}
}

// spotlessTarget is clean plus removal of the cache directories themselves.
func (s *service) spotlessTarget() Target {
	return Target{
		Name:  "spotless",
		Steps: append(s.cleanSteps(), Step{Name: "remove-caches", Run: s.removeCaches}),
	}
}

// installTarget acquires the install lock before any other work, runs clean,
// then build, strictly in that order, and upgrade-installs the freshly built
// artifact. The lock is released once the target finishes, successfully or not.
func (s *service) installTarget() Target {
	steps := append([]Step{{Name: "acquire-install-lock", Run: s.acquireInstallLock}}, s.cleanSteps()...)
	steps = append(steps, s.buildSteps()...)

	return Target{
		Name:    "install",
		Steps:   append(steps, Step{Name: "install-artifacts", Run: s.installArtifacts}),
		Cleanup: s.releaseInstallLock,
	}
}

// uploadTarget publishes dist contents and removes the directory afterwards.
func (s *service) uploadTarget() Target {
	return Target{
		Name: "upload",
		Steps: []Step{
			{Name: "verify-endpoint", Run: s.verifyEndpoint},
			{Name: "upload-artifacts", Run: s.uploadArtifacts},
			{Name: "remove-dist", Run: s.removeDist},
		},
	}
}

// cleanSteps is shared by the clean, spotless and install targets.
func (s *service) cleanSteps() []Step {
	return []Step{
		{Name: "clean", Run: s.clean},
	}
}

// buildSteps is shared by the build and install targets.
func (s *service) buildSteps() []Step {
	return []Step{
		{Name: "run-builder", Run: s.runBuilder},
		{Name: "package-artifacts", Run: s.packageArtifacts},
	}
}
