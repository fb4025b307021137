package dist

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davedittrich/ocd/internal/version"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// ManifestFilename stores the release description produced by the build target.
	ManifestFilename = "ocd-release.yaml"

	// MarkerFilename marks that an install is running right now to avoid parallel runs.
	MarkerFilename = "ocd-install-marker.bin"

	// DefaultFileMode is used when producing artifacts for distribution.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction is used to calculate artifact file hashes.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// Base executable names; platform helpers append the extension when needed.
	baseCLIExecutable     = "ocd"
	baseReleaseExecutable = "ocd-release"

	// defaultMapCapacity is the default initial capacity for maps.
	defaultMapCapacity = 8
)

var (
	errHashUnavailable = errors.New("hash function unavailable")
	errNoChecksum      = errors.New("checksum missing for file")
)

// Description contains metadata about a built release.
type Description struct {
	// VersionNumber is the semantic version of this release.
	VersionNumber string `yaml:"version"`
	// Files maps artifact filenames to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
	// Executables lists the binaries the install target upgrades.
	Executables []string `yaml:"executables"`
}

// NewDescription produces a Description initialized with the build version.
func NewDescription() *Description {
	return &Description{
		VersionNumber: version.Short(),
		Files:         make(map[string]string, defaultMapCapacity),
	}
}

// AddFile hashes the file at path and records it under its base name.
func (d *Description) AddFile(path string) error {
	checksum, err := GetFileChecksum(path)
	if err != nil {
		return err
	}

	d.Files[filepath.Base(path)] = base64.StdEncoding.EncodeToString(checksum)

	return nil
}

// Checksum returns the decoded checksum recorded for the named file.
func (d *Description) Checksum(name string) ([]byte, error) {
	encoded, ok := d.Files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, errNoChecksum)
	}

	checksum, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode checksum for %s: %w", name, err)
	}

	return checksum, nil
}

// Save writes the manifest to the provided path.
func (d *Description) Save(path string) error {
	contents, err := yaml.Marshal(d)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Clean(path), contents, DefaultFileMode)
}

// LoadDescription reads and parses a manifest from disk.
func LoadDescription(path string) (*Description, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var desc Description
	if err = yaml.Unmarshal(contents, &desc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &desc, nil
}

// GetFileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func GetFileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// ArtifactName returns the archive filename for a release version.
func ArtifactName(versionNumber string) string {
	return "ocd-" + versionNumber + ".tar.gz"
}

// ArtifactGlob matches every distribution artifact this tool produces,
// regardless of version.
func ArtifactGlob() string {
	return "ocd-*"
}

// Executables returns the binaries packaged for the current platform.
func Executables() []string {
	return []string{
		baseCLIExecutable + executableExtension(),
		baseReleaseExecutable + executableExtension(),
	}
}

// ReleaseExecutable returns the platform name of the release binary.
func ReleaseExecutable() string {
	return baseReleaseExecutable + executableExtension()
}

// executableExtension returns ".exe" on Windows and "" elsewhere.
func executableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}
