package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays variables that are set in the environment. Unset
// variables leave the current values alone. PORT, when set, overrides the
// listen address with ":<PORT>".
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port != "" {
		cfg.EndpointAddrHTTP = ":" + cfg.Port
	}
	return nil
}
