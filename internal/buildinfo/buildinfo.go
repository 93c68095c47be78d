// Package buildinfo centralises build metadata for the jctl binary.
// The linker injects values into cmd/jctl/main.go; main() calls Set()
// to forward them here.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info holds the build metadata for one binary.
type Info struct {
	Version string
	Commit  string
	Date    string
}

var current = Info{Version: "dev", Commit: "none", Date: "unknown"}

// Set stores the build metadata received from linker-injected variables.
func Set(version, commit, date string) {
	current = Info{Version: version, Commit: commit, Date: date}
}

// Get returns the build metadata, backfilling the commit hash from
// runtime/debug.ReadBuildInfo() when the linker did not inject one.
func Get() Info {
	if current.Commit != "none" {
		return current
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				current.Commit = setting.Value
			}
		}
	}
	return current
}

// String renders the metadata the way `jctl --version` prints it.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
