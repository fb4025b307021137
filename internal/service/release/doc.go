// Package release implements the distribution targets: build, clean,
// spotless, install and upload.
//
// Each target is a fixed sequence of named steps executed fail-fast: the
// first failing step halts the remainder and its error is propagated to the
// CLI. Cleaning deletes artifacts best-effort, building delegates to an
// external builder and packages the result, installing upgrades binaries in
// place with checksum verification, and uploading publishes the dist
// directory to the configured update folder before removing it.
package release
