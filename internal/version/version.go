// Package version reports the stamp build version.
package version

import (
	"runtime/debug"
	"strings"
)

// version is set at build time with -ldflags "-X github.com/indaco/stamp/internal/version.version=1.2.3".
var version = ""

// readBuildInfo is a variable so tests can substitute it.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the build version without a leading "v". It falls back
// to the module version recorded by "go install", then to "dev".
func GetVersion() string {
	if version != "" {
		return strings.TrimPrefix(version, "v")
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return strings.TrimPrefix(info.Main.Version, "v")
	}
	return "dev"
}
