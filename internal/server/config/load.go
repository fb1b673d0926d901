package config

import (
	"fmt"

	"github.com/yndnr/ofchat-go/internal/infra/confloader"
)

// Load reads defaults, the optional YAML file and OFCHAT_* environment
// variables, then validates the result.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	var opts []confloader.Option
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
