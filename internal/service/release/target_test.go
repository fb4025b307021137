package release

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTarget_RunsStepsInOrder records execution order across steps.
func TestTarget_RunsStepsInOrder(t *testing.T) {
	t.Parallel()

	var executed []string

	record := func(name string) Step {
		return Step{
			Name: name,
			Run: func(context.Context) error {
				executed = append(executed, name)
				return nil
			},
		}
	}

	target := Target{
		Name:  "test",
		Steps: []Step{record("first"), record("second"), record("third")},
	}

	require.NoError(t, target.Run(context.Background()))
	require.Equal(t, []string{"first", "second", "third"}, executed)
}

// TestTarget_FailFast halts the remaining steps after the first failure.
func TestTarget_FailFast(t *testing.T) {
	t.Parallel()

	var (
		executed []string
		boom     = errors.New("boom")
	)

	target := Target{
		Name: "test",
		Steps: []Step{
			{Name: "ok", Run: func(context.Context) error {
				executed = append(executed, "ok")
				return nil
			}},
			{Name: "fails", Run: func(context.Context) error {
				executed = append(executed, "fails")
				return boom
			}},
			{Name: "never", Run: func(context.Context) error {
				executed = append(executed, "never")
				return nil
			}},
		},
	}

	err := target.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "step fails")
	require.Equal(t, []string{"ok", "fails"}, executed)
}

// TestTarget_CancelledContext stops before running further steps.
func TestTarget_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	target := Target{
		Name: "test",
		Steps: []Step{
			{Name: "step", Run: func(context.Context) error {
				ran = true
				return nil
			}},
		},
	}

	require.Error(t, target.Run(ctx))
	require.False(t, ran)
}

// TestInstallTarget_StepOrder proves the lock is taken first, then clean and
// build run, strictly in that order, before the install step.
func TestInstallTarget_StepOrder(t *testing.T) {
	t.Parallel()

	svc := &service{cfg: testConfig(t.TempDir())}

	require.Equal(t,
		[]string{"acquire-install-lock", "clean", "run-builder", "package-artifacts", "install-artifacts"},
		svc.installTarget().StepNames())
}

// TestTarget_CleanupRunsOnFailure runs the cleanup hook even when a step fails.
func TestTarget_CleanupRunsOnFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cleaned := false

	target := Target{
		Name: "test",
		Steps: []Step{
			{Name: "fails", Run: func(context.Context) error { return boom }},
		},
		Cleanup: func(context.Context) { cleaned = true },
	}

	require.ErrorIs(t, target.Run(context.Background()), boom)
	require.True(t, cleaned)
}

// TestUploadTarget_StepOrder removes dist only after the upload step.
func TestUploadTarget_StepOrder(t *testing.T) {
	t.Parallel()

	svc := &service{cfg: testConfig(t.TempDir())}

	require.Equal(t,
		[]string{"verify-endpoint", "upload-artifacts", "remove-dist"},
		svc.uploadTarget().StepNames())
}

// TestRun_UnknownTarget rejects unrecognized target names.
func TestRun_UnknownTarget(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), "deploy", &Options{
		ConfigPath: "does-not-exist.yaml",
	})
	require.ErrorIs(t, err, errUnknownTarget)
}
