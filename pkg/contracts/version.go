// Package contracts holds the public contracts shared between the binaries
// and external consumers: domain types, API request/response shapes and the
// build version.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current application version.
	Version = "0.3.0"
	// APIVersion is the HTTP API contract version.
	APIVersion = "v1"
)

var (
	// BuildTime is injected at build time via ldflags.
	BuildTime = "unknown"
	// GitCommit is injected at build time via ldflags.
	GitCommit = "unknown"
)

// VersionInfo is the detailed version payload served by the health handler.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns the detailed version information.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}

// GetVersionString returns the one-line version banner.
func GetVersionString() string {
	return fmt.Sprintf("Survey Market Share Analyzer v%s", Version)
}
