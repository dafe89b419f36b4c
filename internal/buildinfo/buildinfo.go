// Package buildinfo holds version information injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/hostwatch-io/hostwatch/internal/buildinfo.Version=1.4.0" ./cmd/...
//
// Version is also sent to the collector in the User-Agent header.
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
