// Package version holds the build version, set with
// -ldflags "-X github.com/battlesnakeio/pit/version.Version=...".
package version

// Version of the pit binaries.
var Version = "dev"
