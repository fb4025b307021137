// Package config defines settings used by the ocd binaries and provides
// helpers to load, validate and save them in YAML format.
//
// Settings cover the API endpoint, release automation paths (stage, dist,
// install directories) and the update folder URL that the upload target
// publishes to. Secrets such as the API key are never persisted here.
package config
