package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the sagld CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI. Keep it plain: it is
	// recorded in emit cache entries and must not depend on terminal state.
	Version = "0.2.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with the MAJOR.MINOR.PATCH components highlighted.
// Versions that do not follow that shape are returned unchanged.
func Colored() string {
	base, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}
