package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/depthcap/cli/config"
)

// loadConfig reads --config when set. Returns nil when no config file is used.
// Unset ${VAR} references are reported on stderr.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		return nil, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.UnsetVars {
		fmt.Fprintf(os.Stderr, "Warning: %s references unset variable %s\n", path, name)
	}
	return cfg, nil
}

// configVal reads a field from cfg, returning the zero value for a nil config.
func configVal[T any](cfg *config.Config, get func(*config.Config) T) T {
	if cfg == nil {
		var zero T
		return zero
	}
	return get(cfg)
}

// resolveString applies precedence: explicit flag, then config, then flag default.
func resolveString(c *cli.Context, name, fromConfig string) string {
	if c.IsSet(name) || fromConfig == "" {
		return c.String(name)
	}
	return fromConfig
}

// resolveInt applies the same precedence as resolveString. A zero config
// value means unset.
func resolveInt(c *cli.Context, name string, fromConfig int) int {
	if c.IsSet(name) || fromConfig == 0 {
		return c.Int(name)
	}
	return fromConfig
}

// resolveBool is true when the flag is true or the config enables it.
func resolveBool(c *cli.Context, name string, fromConfig bool) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	return fromConfig || c.Bool(name)
}

// resolveDuration applies the same precedence as resolveString.
func resolveDuration(c *cli.Context, name string, fromConfig time.Duration) time.Duration {
	if c.IsSet(name) || fromConfig == 0 {
		return c.Duration(name)
	}
	return fromConfig
}
