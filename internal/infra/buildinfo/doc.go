// Package buildinfo provides build information for ofchat-cli and
// ofchat-devserver.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/ofchat-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Fields left unset fall back to the VCS stamps Go embeds in the binary.
package buildinfo
