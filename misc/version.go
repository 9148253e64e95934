// Package misc holds build time information about the program.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "bionic"

var (
	// set with -ldflags "-X bionic/misc.version=..." by release builds
	version = ""
	gitHash = ""

	once sync.Once
)

func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if gitHash != "" {
		return
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			gitHash = s.Value
			if len(gitHash) > 12 {
				gitHash = gitHash[:12]
			}
		}
	}
}

func GetAppName() string {
	return appName
}

func GetVersion() string {
	once.Do(fromBuildInfo)
	if version == "" {
		return "dev"
	}
	return version
}

func GetGitHash() string {
	once.Do(fromBuildInfo)
	if gitHash == "" {
		return "unknown"
	}
	return gitHash
}
