// Package config provides the ofchat-devserver configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation (addresses, limits, store selection, dev echo guard)
//   - sanitize.go: masking of secrets before the config is logged
//   - load.go: loading through internal/infra/confloader
package config
