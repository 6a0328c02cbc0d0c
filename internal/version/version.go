package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// These are variables so that they can be set during the build time.
var (
	BuildDate    = "unknown"
	BuildVersion = "0.0.0"
	Commit       = "unknown"
)

// BaseVersion returns the major and minor version of the application,
// or "unknown" when BuildVersion is not a valid semantic version.
func BaseVersion() string {
	v, err := semver.NewVersion(BuildVersion)
	if err != nil {
		return "unknown"
	}

	return fmt.Sprintf("v%d.%d", v.Major(), v.Minor())
}

// String describes the build.
func String() string {
	return fmt.Sprintf("%s (%s) on %s", BuildVersion, Commit, BuildDate)
}
