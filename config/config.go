package config

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"go-vjgrid/effect"
	"go-vjgrid/snapshot"
	"go-vjgrid/stage"
	"go-vjgrid/transition"

	"gopkg.in/yaml.v3"
)

// ControllerConfig selects the grid controller
type ControllerConfig struct {
	PortMatch   string `yaml:"port_match"` // case-insensitive substring of the MIDI port name
	AutoConnect bool   `yaml:"auto_connect"`
}

// RigConfig tunes the tick loop
type RigConfig struct {
	TickHz    int `yaml:"tick_hz"`
	QueueSize int `yaml:"queue_size"`
	LEDFPS    int `yaml:"led_fps"`
}

// EffectsConfig sets transition timing for the effect rows
type EffectsConfig struct {
	DoFDuration       time.Duration `yaml:"dof_duration"`
	PixelSortDuration time.Duration `yaml:"pixelsort_duration"`
	ChromaticDuration time.Duration `yaml:"chromatic_duration"`
	Ease              string        `yaml:"ease"` // linear, outquad, inoutquad
	Seed              uint64        `yaml:"seed,omitempty"`
}

// SnapshotConfig picks where captured snapshots live
type SnapshotConfig struct {
	Backend       string `yaml:"backend"` // file, sqlite, redis
	Path          string `yaml:"path,omitempty"`
	RedisAddr     string `yaml:"redis_addr,omitempty"`
	RedisPassword string `yaml:"redis_password,omitempty"`
	RedisDB       int    `yaml:"redis_db,omitempty"`
	Key           string `yaml:"key,omitempty"`
	ResumeCursor  bool   `yaml:"resume_cursor"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"` // empty disables the listener
}

// UIConfig styles the terminal view
type UIConfig struct {
	Palette string `yaml:"palette,omitempty"` // GIMP .gpl file, built-in ramp when empty
}

type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Controller ControllerConfig   `yaml:"controller"`
	Rig        RigConfig          `yaml:"rig"`
	Effects    EffectsConfig      `yaml:"effects"`
	Snapshots  SnapshotConfig     `yaml:"snapshots"`
	Lights     []stage.LightGroup `yaml:"lights,omitempty"`
	Slots      []stage.SlotConfig `yaml:"slots,omitempty"`
	Metrics    MetricsConfig      `yaml:"metrics"`
	UI         UIConfig           `yaml:"ui"`
	Debug      DebugConfig        `yaml:"debug"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			PortMatch:   "midi fighter 64",
			AutoConnect: true,
		},
		Rig: RigConfig{
			TickHz:    60,
			QueueSize: 256,
			LEDFPS:    30,
		},
		Effects: EffectsConfig{
			DoFDuration:       effect.DefaultDoFDuration,
			PixelSortDuration: effect.DefaultPixelSortDuration,
			ChromaticDuration: effect.DefaultChromaticDuration,
			Ease:              "outquad",
		},
		Snapshots: SnapshotConfig{
			Backend: "file",
			Key:     "vj_presets",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-vjgrid"), nil
}

// ConfigPath returns the full path to config.yml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// Load reads the config at path (the default location when empty). A missing
// file yields defaults; fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the rig depends on
func (c *Config) Validate() error {
	if c.Rig.TickHz <= 0 {
		return fmt.Errorf("rig.tick_hz must be positive, got %d", c.Rig.TickHz)
	}
	if c.Rig.QueueSize <= 0 {
		return fmt.Errorf("rig.queue_size must be positive, got %d", c.Rig.QueueSize)
	}
	if c.Rig.LEDFPS <= 0 {
		return fmt.Errorf("rig.led_fps must be positive, got %d", c.Rig.LEDFPS)
	}
	switch c.Snapshots.Backend {
	case "", "file", "sqlite":
	case "redis":
		if c.Snapshots.RedisAddr == "" {
			return fmt.Errorf("snapshots.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown snapshots.backend %q", c.Snapshots.Backend)
	}
	if len(c.Lights) > stage.NumLightGroups {
		return fmt.Errorf("at most %d light groups, got %d", stage.NumLightGroups, len(c.Lights))
	}
	if len(c.Slots) > stage.NumSlots {
		return fmt.Errorf("at most %d scene slots, got %d", stage.NumSlots, len(c.Slots))
	}
	return nil
}

// Save writes the config to path (the default location when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EffectOptions builds controller options for the named effect type.
// A non-zero seed makes randomize reproducible, one stream per effect.
func (c *Config) EffectOptions(effectType string) effect.Options {
	opts := effect.Options{Ease: transition.EaseByName(c.Effects.Ease)}
	var stream uint64
	switch effectType {
	case "DoF":
		opts.Duration = c.Effects.DoFDuration
		stream = 1
	case "PixelSort":
		opts.Duration = c.Effects.PixelSortDuration
		stream = 2
	case "Chromatic":
		opts.Duration = c.Effects.ChromaticDuration
		stream = 3
	}
	if c.Effects.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.Effects.Seed, stream))
	}
	return opts
}

// Backend maps the snapshot section onto a backend description
func (c *Config) Backend() snapshot.BackendConfig {
	s := c.Snapshots
	return snapshot.BackendConfig{
		Kind:          s.Backend,
		Path:          s.Path,
		RedisAddr:     s.RedisAddr,
		RedisPassword: s.RedisPassword,
		RedisDB:       s.RedisDB,
		Key:           s.Key,
	}
}

// TickInterval is the period of the tick loop
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Rig.TickHz)
}
