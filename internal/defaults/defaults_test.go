package defaults

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStore_Load_CreatesInitialFile verifies a missing file yields initial
// values and that the file is created for later invocations.
func TestStore_Load_CreatesInitialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "defaults.yaml")
	store := NewStore(path)

	d, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, New(), d)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestStore_SaveLoad_Roundtrip ensures changed values survive a reload.
func TestStore_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "defaults.yaml"))

	d := New()
	require.NoError(t, d.Set("model_id", "gpt-4o"))
	require.NoError(t, d.Set("temperature", "0.2"))
	require.NoError(t, store.Save(d))

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", got.ModelID)
	require.InDelta(t, 0.2, got.Temperature, 1e-9)
}

// TestStore_Reset restores initial values on disk.
func TestStore_Reset(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "defaults.yaml"))

	d := New()
	require.NoError(t, d.Set("max_tokens", "256"))
	require.NoError(t, store.Save(d))

	reset, err := store.Reset()
	require.NoError(t, err)
	require.Equal(t, New(), reset)

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, New(), got)
}

// TestDefaults_Set covers parsing, ranges and choice validation.
func TestDefaults_Set(t *testing.T) {
	t.Parallel()

	d := New()

	require.NoError(t, d.Set("n", "3"))
	require.EqualValues(t, 3, d.N)

	require.NoError(t, d.Set("images_size", "1024x1024"))
	require.Equal(t, "1024x1024", d.ImagesSize)

	// Out of range.
	require.Error(t, d.Set("temperature", "1.5"))
	require.Error(t, d.Set("n", "0"))

	// Not a number.
	require.Error(t, d.Set("max_tokens", "lots"))

	// Bad choice.
	require.Error(t, d.Set("images_response_format", "xml"))

	// Unknown name.
	require.Error(t, d.Set("nope", "1"))
}

// TestDefaults_List includes every settable name.
func TestDefaults_List(t *testing.T) {
	t.Parallel()

	d := New()
	rows := d.List()

	names := make(map[string]bool, len(rows))
	for _, row := range rows {
		require.Len(t, row, 3)
		names[row[0]] = true
	}

	for _, name := range []string{
		"model_id", "temperature", "max_tokens", "n",
		"images_size", "images_response_format",
	} {
		require.True(t, names[name], "missing %s", name)
	}
}
