package release

import (
	"context"
	"fmt"

	"github.com/davedittrich/ocd/internal/logger"
)

// Step is one unit of work inside a target.
type Step struct {
	// Name identifies the step in logs and error messages.
	Name string
	// Run performs the step's work.
	Run func(ctx context.Context) error
}

// Target is a named, fixed sequence of steps.
type Target struct {
	// Name is the target name as invoked from the CLI.
	Name string
	// Steps run in order; the first failure halts the rest.
	Steps []Step
	// Cleanup, when set, runs after the steps whether they succeeded or not.
	Cleanup func(ctx context.Context)
}

// Run executes the target's steps in order, fail-fast.
func (t Target) Run(ctx context.Context) error {
	if t.Cleanup != nil {
		defer t.Cleanup(ctx)
	}

	for _, step := range t.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("target %s interrupted: %w", t.Name, err)
		}

		logger.InfoKV(ctx, "Running step", "target", t.Name, "step", step.Name)

		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("target %s, step %s: %w", t.Name, step.Name, err)
		}
	}

	logger.InfoKV(ctx, "Target completed", "target", t.Name)

	return nil
}

// StepNames returns the ordered step names, used to verify sequencing.
func (t Target) StepNames() []string {
	names := make([]string, 0, len(t.Steps))
	for _, step := range t.Steps {
		names = append(names, step.Name)
	}

	return names
}
