// Package version provides build version information embedding.
//
// Version and commit are set at build time via -ldflags:
//
//	go build -ldflags "-X github.com/probekit/probekit/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the harness version, set at build time.
	Version = "dev"
	// GitCommit is the short commit hash, set at build time.
	GitCommit = ""
)

// String returns a human-readable version string.
func String() string {
	commit := GitCommit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
					commit = setting.Value[:7]
				}
			}
		}
	}
	if commit != "" {
		return fmt.Sprintf("%s (%s)", Version, commit)
	}
	return Version
}

// UserAgent returns the User-Agent value the executor sends by default.
func UserAgent() string {
	return "probekit/" + Version
}
