// Package dist owns the shape of a distribution artifact: the release
// manifest with per-file checksums, the tar.gz archive layout, and the
// platform-specific executable names.
//
// The build target produces these artifacts, the install target verifies and
// applies them, and the upload target publishes them.
package dist
