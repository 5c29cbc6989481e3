// Package version reports build information for biblecheck.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information, set with -ldflags "-X ...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

func init() {
	if Version != "dev" {
		return
	}
	// go install builds carry the module version and VCS stamp.
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "unknown" && len(s.Value) >= 7 {
				GitCommit = s.Value[:7]
			}
		case "vcs.time":
			if BuildDate == "unknown" {
				BuildDate = s.Value
			}
		}
	}
}

// String returns the full version string.
func String() string {
	if Version == "dev" {
		return "biblecheck version dev (development build)"
	}
	return fmt.Sprintf("biblecheck version %s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}

// BuildInfo returns detailed build information.
func BuildInfo() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     GitCommit,
		"built":      BuildDate,
		"go_version": GoVersion,
	}
}
