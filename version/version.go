// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/philipparndt/cadquote/version.Version=1.2.0" ./cmd/cadquote
package version

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns a full version string with commit and date
func GetFullVersion() string {
	if Version == "dev" {
		return "dev"
	}
	if GitCommit == "unknown" {
		return Version
	}
	if BuildDate == "unknown" {
		return Version + " (" + GitCommit + ")"
	}
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
