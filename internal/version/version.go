// Package version carries build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

func init() {
	if Version != "dev" {
		return
	}
	// `go install module@version` records the version in the binary.
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// String formats the metadata on one line.
func String() string {
	return fmt.Sprintf("dock %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
