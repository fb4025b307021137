package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davedittrich/ocd/internal/config"
	"github.com/davedittrich/ocd/internal/dist"
	"github.com/davedittrich/ocd/internal/version"
)

// testConfig returns a configuration rooted under dir with a builder that
// succeeds without touching the stage (tests stage binaries themselves).
func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.StageDir = filepath.Join(dir, "stage")
	cfg.DistDir = filepath.Join(dir, "dist")
	cfg.InstallDir = filepath.Join(dir, "install")
	cfg.BuildCommand = []string{"true"}

	return cfg
}

// stageBinaries creates fake built binaries for every packaged executable.
func stageBinaries(t *testing.T, stageDir, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(stageDir, 0o755))

	for _, name := range dist.Executables() {
		require.NoError(t, os.WriteFile(filepath.Join(stageDir, name), []byte(contents+name), 0o755))
	}
}

// saveConfig persists a test configuration and returns its path.
func saveConfig(t *testing.T, dir string, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, config.Save(path, cfg))

	return path
}

// TestClean_IdempotentWhenNothingExists succeeds with no artifacts present.
func TestClean_IdempotentWhenNothingExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := saveConfig(t, dir, testConfig(dir))

	require.NoError(t, Run(context.Background(), "clean", &Options{ConfigPath: cfgPath}))
	require.NoError(t, Run(context.Background(), "clean", &Options{ConfigPath: cfgPath}))
}

// TestClean_RemovesArtifactsAndBackups deletes dist globs, staged files and
// stale .old backups, but leaves unrelated files alone.
func TestClean_RemovesArtifactsAndBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfgPath := saveConfig(t, dir, cfg)

	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.StageDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.InstallDir, 0o755))

	artifact := filepath.Join(cfg.DistDir, dist.ArtifactName("0.0.1"))
	unrelated := filepath.Join(cfg.DistDir, "keep.txt")
	staged := filepath.Join(cfg.StageDir, "ocd")
	backup := filepath.Join(cfg.InstallDir, "ocd.old")
	installed := filepath.Join(cfg.InstallDir, "ocd")

	for _, path := range []string{artifact, unrelated, staged, backup, installed} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	require.NoError(t, Run(context.Background(), "clean", &Options{ConfigPath: cfgPath}))

	for _, gone := range []string{artifact, staged, backup} {
		_, err := os.Stat(gone)
		require.ErrorIs(t, err, os.ErrNotExist, gone)
	}

	for _, kept := range []string{unrelated, installed} {
		_, err := os.Stat(kept)
		require.NoError(t, err, kept)
	}
}

// TestSpotless_Idempotent removes the cache directories and produces no
// further change or error when run again.
func TestSpotless_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfgPath := saveConfig(t, dir, cfg)

	stageBinaries(t, cfg.StageDir, "built-")
	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "anything"), []byte("x"), 0o644))

	require.NoError(t, Run(context.Background(), "spotless", &Options{ConfigPath: cfgPath}))

	for _, gone := range []string{cfg.StageDir, cfg.DistDir} {
		_, err := os.Stat(gone)
		require.ErrorIs(t, err, os.ErrNotExist, gone)
	}

	// Second run: nothing left to remove, still no error.
	require.NoError(t, Run(context.Background(), "spotless", &Options{ConfigPath: cfgPath}))
}

// TestBuild_PackagesArtifacts produces the archive and manifest under dist.
func TestBuild_PackagesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfgPath := saveConfig(t, dir, cfg)

	stageBinaries(t, cfg.StageDir, "built-")

	require.NoError(t, Run(context.Background(), "build", &Options{ConfigPath: cfgPath}))

	manifest, err := dist.LoadDescription(filepath.Join(cfg.DistDir, dist.ManifestFilename))
	require.NoError(t, err)
	require.Equal(t, version.Short(), manifest.VersionNumber)
	require.Equal(t, dist.Executables(), manifest.Executables)
	require.Len(t, manifest.Files, len(dist.Executables()))

	_, err = os.Stat(filepath.Join(cfg.DistDir, dist.ArtifactName(manifest.VersionNumber)))
	require.NoError(t, err)
}

// TestBuild_FailsWithoutStagedBinaries halts packaging when the builder
// produced nothing.
func TestBuild_FailsWithoutStagedBinaries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfgPath := saveConfig(t, dir, cfg)

	err := Run(context.Background(), "build", &Options{ConfigPath: cfgPath})
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestBuild_FailsWhenBuilderFails propagates the builder's exit status and
// never reaches the packaging step.
func TestBuild_FailsWhenBuilderFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.BuildCommand = []string{"false"}
	cfgPath := saveConfig(t, dir, cfg)

	stageBinaries(t, cfg.StageDir, "built-")

	require.Error(t, Run(context.Background(), "build", &Options{ConfigPath: cfgPath}))

	_, err := os.Stat(filepath.Join(cfg.DistDir, dist.ManifestFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestInstall_UpgradesBinaries runs clean, build and install end to end and
// verifies the installed copies match the staged build. The clean step wipes
// the stage directory first, so the build command must do the staging itself.
func TestInstall_UpgradesBinaries(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir) // Install marker is created in the working directory.

	cfg := testConfig(dir)

	srcDir := filepath.Join(dir, "src")
	stageBinaries(t, srcDir, "new-")

	cfg.BuildCommand = []string{"sh", "-c", "cp " + filepath.Join(srcDir, "*") + " " + cfg.StageDir}
	cfgPath := saveConfig(t, dir, cfg)

	require.NoError(t, os.MkdirAll(cfg.InstallDir, 0o755))

	// Pre-existing installed binaries with older contents.
	for _, name := range dist.Executables() {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.InstallDir, name), []byte("old-"+name), 0o755))
	}

	require.NoError(t, Run(context.Background(), "install", &Options{ConfigPath: cfgPath}))

	for _, name := range dist.Executables() {
		body, err := os.ReadFile(filepath.Join(cfg.InstallDir, name))
		require.NoError(t, err)
		require.Equal(t, "new-"+name, string(body))

		// Backup copies are cleaned up after a successful swap.
		_, err = os.Stat(filepath.Join(cfg.InstallDir, name+".old"))
		require.ErrorIs(t, err, os.ErrNotExist)
	}

	// Marker is removed once the install completes.
	_, err := os.Stat(dist.MarkerFilename)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestInstall_RefusesConcurrentRun fails while a fresh marker exists,
// before clean or build touch anything the other run staged.
func TestInstall_RefusesConcurrentRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg := testConfig(dir)
	cfgPath := saveConfig(t, dir, cfg)

	stageBinaries(t, cfg.StageDir, "new-")
	require.NoError(t, os.WriteFile(dist.MarkerFilename, nil, 0o644))

	err := Run(context.Background(), "install", &Options{ConfigPath: cfgPath})
	require.ErrorIs(t, err, errInstallRunning)

	// The other run's staged binaries survive the refused run.
	for _, name := range dist.Executables() {
		_, err = os.Stat(filepath.Join(cfg.StageDir, name))
		require.NoError(t, err, name)
	}

	// The other run's marker is not removed by this run's cleanup.
	_, err = os.Stat(dist.MarkerFilename)
	require.NoError(t, err)
}

// TestUpload_PublishesAndRemovesDist uploads every dist file and removes the
// directory afterwards, regardless of what it contained.
func TestUpload_PublishesAndRemovesDist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)

	var (
		mu       sync.Mutex
		uploaded []string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			uploaded = append(uploaded, r.URL.Path)
			mu.Unlock()
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg.UpdateFolder = ts.URL + "/updates"
	cfgPath := saveConfig(t, dir, cfg)

	// Arbitrary contents, not necessarily a real release.
	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "a.tar.gz"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "b.yaml"), []byte("b"), 0o644))

	require.NoError(t, Run(context.Background(), "upload", &Options{ConfigPath: cfgPath}))

	mu.Lock()
	require.ElementsMatch(t, []string{"/updates/a.tar.gz", "/updates/b.yaml"}, uploaded)
	mu.Unlock()

	_, err := os.Stat(cfg.DistDir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestUpload_FailedUploadKeepsDist halts before the removal step when the
// endpoint rejects an artifact.
func TestUpload_FailedUploadKeepsDist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg.UpdateFolder = ts.URL
	cfgPath := saveConfig(t, dir, cfg)

	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "a.tar.gz"), []byte("a"), 0o644))

	err := Run(context.Background(), "upload", &Options{ConfigPath: cfgPath})
	require.ErrorIs(t, err, errBadHTTPStatus)

	_, err = os.Stat(cfg.DistDir)
	require.NoError(t, err)
}

// TestUpload_RejectsUnauthorizedEndpoint fails verification before any
// artifact leaves the machine when the endpoint demands credentials.
func TestUpload_RejectsUnauthorizedEndpoint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)

	var puts int

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			puts++
		}

		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	cfg.UpdateFolder = ts.URL
	cfgPath := saveConfig(t, dir, cfg)

	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "a.tar.gz"), []byte("a"), 0o644))

	err := Run(context.Background(), "upload", &Options{ConfigPath: cfgPath})
	require.ErrorIs(t, err, errBadHTTPStatus)
	require.Zero(t, puts)

	_, err = os.Stat(cfg.DistDir)
	require.NoError(t, err)
}

// TestUpload_ToleratesFolderWithoutHEAD still publishes when the folder URL
// itself answers HEAD with 404, as PUT-only endpoints do.
func TestUpload_ToleratesFolderWithoutHEAD(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)

	var (
		mu       sync.Mutex
		uploaded []string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if r.Method == http.MethodPut {
			mu.Lock()
			uploaded = append(uploaded, r.URL.Path)
			mu.Unlock()
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg.UpdateFolder = ts.URL + "/updates"
	cfgPath := saveConfig(t, dir, cfg)

	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "a.tar.gz"), []byte("a"), 0o644))

	require.NoError(t, Run(context.Background(), "upload", &Options{ConfigPath: cfgPath}))

	mu.Lock()
	require.Equal(t, []string{"/updates/a.tar.gz"}, uploaded)
	mu.Unlock()
}

// TestUpload_RequiresUpdateFolder fails fast when no destination is set.
func TestUpload_RequiresUpdateFolder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := saveConfig(t, dir, testConfig(dir))

	err := Run(context.Background(), "upload", &Options{ConfigPath: cfgPath})
	require.ErrorIs(t, err, errNoUpdateFolder)
}
