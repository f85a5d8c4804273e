// Package version reports the library version.
package version

import "fmt"

// Library version components. Bumped on release.
const (
	Major = 0
	Minor = 3
	Patch = 0
)

// Version is the library version as "major.minor.patch".
var Version = fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)

// String returns the full version banner, "lumen v0.3.0".
func String() string {
	return "lumen v" + Version
}
