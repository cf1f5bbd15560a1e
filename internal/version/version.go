// Package version holds build metadata injected via ldflags:
//
//	-ldflags "-X github.com/tenderlens/tenderlens/internal/version.Version=v0.1.0"
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
