// Package version holds build metadata injected at link time.
package version

// These are overridden via -ldflags at release build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
