// Package version reports the tagdraw build.
package version

// Overridden at link time:
//
//	go build -ldflags "-X tagdraw/internal/version.Version=1.2.0 -X tagdraw/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.3.0-dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build for log lines and the about box.
func String() string {
	return Version + " (" + GitCommit + ", built " + BuildTime + ")"
}
