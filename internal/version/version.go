package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata of the gsp CLI, overridable at build time via -ldflags:
//
//	-X gsp/internal/version.Version=1.2.3 -X gsp/internal/version.GitCommit=$(git rev-parse HEAD)
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Fingerprint identifies the generator build; generated output and cache
// entries depend on it.
func Fingerprint() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	if commit := strings.TrimSpace(GitCommit); commit != "" {
		return v + "+" + commit
	}
	return v
}

// Colored renders Version with major, minor and patch in distinct colours.
// Versions that are not MAJOR.MINOR.PATCH[-suffix] are returned as is.
func Colored(enabled bool) string {
	core, suffix, hasSuffix := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	colors := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	for i, c := range colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(parts[i])
	}
	out := strings.Join(parts, ".")
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}
