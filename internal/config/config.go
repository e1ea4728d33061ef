package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/morph/internal/compose"
	"github.com/san-kum/morph/internal/particle"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPopulation = particle.DefaultPopulation
	DefaultFPS        = 60
	DefaultFrames     = 600
	DefaultLogEvery   = 100
	DefaultLogLevel   = "info"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Population int        `yaml:"population"`
	Seed       int64      `yaml:"seed"`
	Script     string     `yaml:"script"`
	Preset     string     `yaml:"preset"`
	Initial    string     `yaml:"initial"`
	Run        RunConfig  `yaml:"run"`
	View       ViewConfig `yaml:"view"`
	Log        LogConfig  `yaml:"log"`
}

type RunConfig struct {
	Frames   int  `yaml:"frames"`
	Workers  int  `yaml:"workers"`
	FastTrig bool `yaml:"fast_trig"`
	LogEvery int  `yaml:"log_every"`
}

type ViewConfig struct {
	FPS    int     `yaml:"fps"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Zoom   float64 `yaml:"zoom"`
	Theme  string  `yaml:"theme"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	ShowCaller bool   `yaml:"show_caller"`
}

func DefaultConfig() *Config {
	return &Config{
		Population: DefaultPopulation,
		Seed:       1,
		Preset:     "default",
		Run: RunConfig{
			Frames:   DefaultFrames,
			Workers:  1,
			LogEvery: DefaultLogEvery,
		},
		View: ViewConfig{
			FPS:    DefaultFPS,
			Width:  80,
			Height: 24,
			Zoom:   1.0,
			Theme:  "minimal",
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Population <= 0 {
		return fmt.Errorf("%w: population must be positive, got %d", ErrInvalidConfig, c.Population)
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfig, c.Run.Frames)
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Run.Workers)
	}
	if c.View.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.View.FPS)
	}
	if c.View.Zoom <= 0 {
		return fmt.Errorf("%w: zoom must be positive, got %f", ErrInvalidConfig, c.View.Zoom)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}

// LoadScript resolves the composition script. A script file takes precedence
// over the named preset; Initial, when set, overrides the script's own.
func (c *Config) LoadScript() (*compose.Script, error) {
	var s *compose.Script
	if c.Script != "" {
		var err error
		if s, err = compose.LoadScript(c.Script); err != nil {
			return nil, fmt.Errorf("load script %s: %w", c.Script, err)
		}
	} else if s = compose.GetPreset(c.Preset); s == nil {
		return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", ErrInvalidConfig, c.Preset, compose.ListPresets())
	}
	if c.Initial != "" {
		if _, ok := s.Scenes[c.Initial]; !ok {
			return nil, fmt.Errorf("%w: %s", compose.ErrUnknownScene, c.Initial)
		}
		s.Initial = c.Initial
	}
	return s, nil
}
