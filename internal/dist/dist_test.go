package dist

import (
	"crypto/sha512"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGetFileChecksum matches a direct SHA-512 of the file contents.
func TestGetFileChecksum(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "artifact.bin")
	body := []byte("artifact-contents")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	got, err := GetFileChecksum(path)
	require.NoError(t, err)

	want := sha512.Sum512(body)
	require.Equal(t, want[:], got)
}

// TestDescription_Roundtrip saves a manifest and loads it back, checking
// checksums decode to the recorded values.
func TestDescription_Roundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	filePath := filepath.Join(dir, "ocd")
	require.NoError(t, os.WriteFile(filePath, []byte("binary"), 0o600))

	desc := NewDescription()
	desc.Executables = Executables()
	require.NoError(t, desc.AddFile(filePath))

	manifestPath := filepath.Join(dir, ManifestFilename)
	require.NoError(t, desc.Save(manifestPath))

	loaded, err := LoadDescription(manifestPath)
	require.NoError(t, err)
	require.Equal(t, desc.VersionNumber, loaded.VersionNumber)
	require.Equal(t, desc.Executables, loaded.Executables)

	checksum, err := loaded.Checksum("ocd")
	require.NoError(t, err)

	direct := sha512.Sum512([]byte("binary"))
	require.Equal(t, direct[:], checksum)

	// Unknown name fails.
	_, err = loaded.Checksum("missing")
	require.Error(t, err)

	// Corrupt encoding fails.
	loaded.Files["bad"] = "%%%not-base64%%%"
	_, err = loaded.Checksum("bad")
	require.Error(t, err)
}

// TestArchive_Roundtrip packages files and extracts them elsewhere.
func TestArchive_Roundtrip(t *testing.T) {
	t.Parallel()

	srcDir := t.TempDir()

	var files []string

	for _, name := range []string{"ocd", "ocd-release"} {
		path := filepath.Join(srcDir, name)
		require.NoError(t, os.WriteFile(path, []byte("contents of "+name), 0o755))
		files = append(files, path)
	}

	archivePath := filepath.Join(srcDir, ArtifactName("test"))
	require.NoError(t, CreateArchive(archivePath, files))

	destDir := t.TempDir()
	extracted, err := ExtractArchive(archivePath, destDir)
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	for _, name := range []string{"ocd", "ocd-release"} {
		body, err := os.ReadFile(filepath.Join(destDir, name))
		require.NoError(t, err)
		require.Equal(t, "contents of "+name, string(body))
	}

	// Checksum of the original equals checksum after extraction.
	before, err := GetFileChecksum(files[0])
	require.NoError(t, err)

	after, err := GetFileChecksum(filepath.Join(destDir, "ocd"))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

// TestArchive_MissingFile refuses to package absent inputs.
func TestArchive_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := CreateArchive(filepath.Join(dir, "out.tar.gz"), []string{filepath.Join(dir, "nope")})
	require.Error(t, err)
}

// TestBase64Encoding sanity-checks the manifest encoding stays stable.
func TestBase64Encoding(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	desc := NewDescription()
	require.NoError(t, desc.AddFile(path))

	sum := sha512.Sum512([]byte("x"))
	require.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), desc.Files["f"])
}
