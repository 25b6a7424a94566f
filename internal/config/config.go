package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Script  ScriptConfig  `toml:"script"`
	Logging LoggingConfig `toml:"logging"`
	Stats   StatsConfig   `toml:"stats"`
	HUD     HUDConfig     `toml:"hud"`
	Profile ProfileConfig `toml:"profile"`
}

type SimConfig struct {
	TickRate      Duration `toml:"tick_rate"`
	Frames        int      `toml:"frames"` // 0 = run until signalled
	Seed          uint64   `toml:"seed"`   // 0 = seed from the clock
	InitialSolids int      `toml:"initial_solids"`
	InitialLights int      `toml:"initial_lights"`
	SpawnFile     string   `toml:"spawn_file"`
}

type ScriptConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type StatsConfig struct {
	IntervalFrames int `toml:"interval_frames"` // 0 disables periodic stats
}

type HUDConfig struct {
	Enabled bool `toml:"enabled"`
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path"`
}

// Duration decodes TOML strings like "16ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads path over the defaults. A missing file yields the defaults
// when optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.TickRate.Duration <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive, got %s", c.Sim.TickRate)
	}
	if c.Sim.InitialSolids < 0 || c.Sim.InitialLights < 0 {
		return errors.New("sim.initial_solids and sim.initial_lights must not be negative")
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode %q: want cpu, mem or empty", c.Profile.Mode)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate:      Duration{16 * time.Millisecond},
			InitialSolids: 8,
			InitialLights: 2,
			SpawnFile:     "data/spawn.yaml",
		},
		Script: ScriptConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Stats: StatsConfig{
			IntervalFrames: 300,
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
