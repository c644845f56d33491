package bench

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config drives both the timing runner and the load generator.
type Config struct {
	Ops       int    `toml:"ops"`        // total operations per phase
	Keys      int    `toml:"keys"`       // size of the key space
	ValueSize int    `toml:"value_size"` // bytes per value
	ReadPct   int    `toml:"read_pct"`   // reads per 100 ops in mixed phases
	Seed      int64  `toml:"seed"`       // rng seed, fixed for repeatability
	Shards    int    `toml:"shards"`     // shard count for the load generator
	Workers   int    `toml:"workers"`    // pool size for the load generator
	OutPath   string `toml:"out_path"`   // json results file, empty for stdout
	DBPath    string `toml:"db_path"`    // sqlite history file, empty to skip
}

// DefaultConfig returns a config sized to finish in a few seconds on a
// laptop.
func DefaultConfig() Config {
	return Config{
		Ops:       1_000_000,
		Keys:      200_000,
		ValueSize: 16,
		ReadPct:   80,
		Seed:      1,
		Shards:    16,
		Workers:   8,
	}
}

// LoadConfig reads a toml file over the defaults, so partial files work.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("bench: reading config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configs the runner cannot make sense of.
func (c Config) Validate() error {
	switch {
	case c.Ops <= 0:
		return fmt.Errorf("bench: ops must be positive, got %d", c.Ops)
	case c.Keys <= 0:
		return fmt.Errorf("bench: keys must be positive, got %d", c.Keys)
	case c.ValueSize <= 0:
		return fmt.Errorf("bench: value_size must be positive, got %d", c.ValueSize)
	case c.ReadPct < 0 || c.ReadPct > 100:
		return fmt.Errorf("bench: read_pct must be 0..100, got %d", c.ReadPct)
	case c.Shards <= 0:
		return fmt.Errorf("bench: shards must be positive, got %d", c.Shards)
	case c.Workers <= 0:
		return fmt.Errorf("bench: workers must be positive, got %d", c.Workers)
	}
	return nil
}
