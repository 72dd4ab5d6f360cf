// Package buildinfo provides build information for liftlog-server.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/liftlog/liftlog-go/internal/infra/buildinfo.Version=1.0.0"
//
// GoVersion falls back to the toolchain recorded in the binary.
package buildinfo
