// Package config loads the operator-tunable knobs of a mmapsync
// Synchronizer from a TOML file, for callers who prefer a config file to
// wiring options in code.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the decoded shape of a Synchronizer's tunable options.
type Config struct {
	// Prefix is the shared path prefix the state/data files live under.
	Prefix string
	// GraceDuration bounds how long a producer waits for a draining
	// reader before force-resetting its count. See spec.md §4.2/§9.
	GraceDuration time.Duration
	// PollInterval overrides how often the producer re-checks a draining
	// reader count. Zero means "use the package default".
	PollInterval time.Duration
	// LockPolicy selects the producer-exclusion strategy: "disabled" or
	// "single_writer".
	LockPolicy string
}

// rawConfig mirrors the TOML file's on-disk shape. Durations are plain
// strings in TOML (there is no native duration type), parsed with
// time.ParseDuration after decoding.
type rawConfig struct {
	Prefix        string `toml:"prefix"`
	GraceDuration string `toml:"grace_duration"`
	PollInterval  string `toml:"poll_interval"`
	LockPolicy    string `toml:"lock_policy"`
}

// Load reads and decodes a Config from path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawConfig
	if err := toml.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	if raw.Prefix == "" {
		return nil, fmt.Errorf("config: %s: prefix must not be empty", path)
	}
	switch raw.LockPolicy {
	case "", "disabled", "single_writer":
	default:
		return nil, fmt.Errorf("config: %s: unknown lock_policy %q", path, raw.LockPolicy)
	}

	cfg := &Config{
		Prefix:     raw.Prefix,
		LockPolicy: raw.LockPolicy,
	}

	if raw.GraceDuration != "" {
		cfg.GraceDuration, err = time.ParseDuration(raw.GraceDuration)
		if err != nil {
			return nil, fmt.Errorf("config: %s: grace_duration: %w", path, err)
		}
	}
	if raw.PollInterval != "" {
		cfg.PollInterval, err = time.ParseDuration(raw.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("config: %s: poll_interval: %w", path, err)
		}
	}

	return cfg, nil
}
