package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	testCases := []struct {
		version string
		want    bool
	}{
		{"0.1.0", true},
		{"1.0.0-dev", true},
		{"0.10.0+build.5", true},
		{"v0.1.0", false},
		{"0.1", true},
		{"latest", false},
		{"", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsValid(tc.version), "IsValid(%q)", tc.version)
	}
}

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldBuild := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuild })

	Version, GitCommit, BuildTime = "0.3.1", "unknown", "unknown"
	assert.Equal(t, "0.3.1", String())
	assert.Equal(t, "Version=0.3.1", StringFull())

	GitCommit, BuildTime = "0123456789abcdef", "2026-01-02T03:04:05Z"
	assert.Equal(t, "0.3.1-01234567", String())
	assert.Equal(t, "Version=0.3.1 Commit=01234567 BuildTime=2026-01-02T03:04:05Z", StringFull())
}

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, DevVersion, GetCurrentVersion("dev"))
	assert.Equal(t, Version, GetCurrentVersion("prod"))
	assert.True(t, IsValid(Version))
	assert.True(t, IsValid(DevVersion))
}
