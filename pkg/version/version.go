// Package version holds build-time version information.
package version

import "fmt"

// Set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// String returns the human-readable version string.
func String() string {
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
