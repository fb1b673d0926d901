// Package config provides the OfChat CLI configuration.
//
//   - spec.go: CLIConfig struct (~/.ofchat/cli.yaml)
//   - default.go: defaults and well-known paths
//   - loader.go: loading through confloader, saving as YAML
//   - verify.go: validation, including the production guard on dev.echo_code
package config
