// Package version exposes build-stamped version information for the
// cachefang binary.
package version

import "runtime/debug"

// Version, Commit, and Date are set via -ldflags at release build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// InitBinaryVersion fills in version info from the embedded build metadata
// when no ldflags were provided.
func InitBinaryVersion() {
	if Version != "dev" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			Commit = setting.Value
		}

		if setting.Key == "vcs.time" {
			Date = setting.Value
		}
	}
}
