package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the dashboard release
	Version = "1.2.0"

	// APIVersion is the version of the JSON API under /api
	APIVersion = "v1"
)

// Set at build time with -ldflags "-X solardash/pkg/contracts.BuildTime=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the build description printed by `solardash version`
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// GetVersionInfo describes the running binary
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		APIVersion: APIVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersionString returns the product name with its version
func GetVersionString() string {
	return fmt.Sprintf("Solar Farm Data Analysis Dashboard v%s", Version)
}

// GetFullVersionString appends the build details to GetVersionString
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (api %s, built %s, commit %s, %s %s)",
		GetVersionString(), info.APIVersion, info.BuildTime, info.GitCommit, info.GoVersion, info.Platform)
}
