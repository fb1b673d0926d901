// Package command provides the ofchat-cli commands.
//
// Commands are defined with urfave/cli/v2:
//
//   - root.go: the application, global flags and the per-run runtime
//   - register.go: registration with phone verification
//   - login.go: login, logout and whoami
//   - status.go: backend reachability
//   - config.go: local configuration file
//
// Every command builds its collaborators from the loaded configuration
// through the Runtime kept in the application metadata.
package command
