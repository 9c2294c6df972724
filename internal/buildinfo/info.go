// Package buildinfo carries the version stamped into the m57 binary.
package buildinfo

import "fmt"

// Set with -ldflags "-X github.com/collectivites/m57/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build stamp for --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
