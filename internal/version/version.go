package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the released version of homebox.
// Override at build time:
//
//	go build -ldflags "-X github.com/hrygo/homebox/internal/version.Version=0.3.0"
var Version = "0.1.0"

// DevVersion is reported when running in dev mode.
var DevVersion = "0.1.0-dev"

// GitCommit is the git commit hash at build time.
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// GetCurrentVersion returns the version reported for the given run mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" {
		return DevVersion
	}
	return Version
}

// IsValid reports whether version is a well-formed semantic version without the "v" prefix.
func IsValid(version string) bool {
	return semver.IsValid("v" + version)
}

func shortCommit() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return ""
	}
	if len(GitCommit) > 8 {
		return GitCommit[:8]
	}
	return GitCommit
}

// String returns the version string with the short commit hash when known.
func String() string {
	if c := shortCommit(); c != "" {
		return fmt.Sprintf("%s-%s", Version, c)
	}
	return Version
}

// StringFull returns the version with build metadata.
func StringFull() string {
	parts := []string{"Version=" + Version}
	if c := shortCommit(); c != "" {
		parts = append(parts, "Commit="+c)
	}
	if BuildTime != "" && BuildTime != "unknown" {
		parts = append(parts, "BuildTime="+BuildTime)
	}
	return strings.Join(parts, " ")
}
