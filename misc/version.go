// Package misc keeps program identity. Version and hash are set at link time:
//
//	-ldflags "-X canvas/misc.version=1.2.3 -X canvas/misc.gitHash=abcdef"
package misc

import (
	"runtime/debug"
)

const appName = "canvas"

var (
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns hash from link flags or, when absent, revision recorded
// by go build.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
