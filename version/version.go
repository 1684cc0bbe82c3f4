// Package version carries the build identity of the goslice binary.
package version

// Stamped via ldflags at release build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the bare version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version string shown by --version
func GetFullVersion() string {
	if Version == "dev" {
		return "dev"
	}
	return Version
}
