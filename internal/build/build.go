// Package build holds build-time information set with -ldflags "-X".
package build

// Build metadata, overwritten by the release build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Summary is the one-line version text printed by the CLI.
func Summary() string {
	return "forge version " + Version + " (commit: " + Commit + ", date: " + Date + ")"
}
