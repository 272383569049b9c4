// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies reviewguard to remote classifier backends.
func UserAgent() string {
	return "reviewguard/" + Version + " (" + Commit + ")"
}
