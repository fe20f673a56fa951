package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"pomodoro/internal/logging"
)

// FileName is the config file inside the application config directory.
const FileName = "config.yaml"

const (
	defaultTickInterval = 100 * time.Millisecond
	defaultPollInterval = 250 * time.Millisecond
	defaultWindowWidth  = 360
	defaultWindowHeight = 420

	minInterval     = 10 * time.Millisecond
	maxInterval     = 5 * time.Second
	minWindowLength = 200
	maxWindowLength = 4000
)

// Config holds application options. Timer lengths live in the database, not here.
type Config struct {
	// DataDir overrides the per-user data directory when set.
	DataDir      string
	LogLevel     string
	TickInterval time.Duration
	Audio        AudioConfig
	Window       WindowConfig
}

// AudioConfig controls the alarm worker.
type AudioConfig struct {
	Enabled      bool
	PollInterval time.Duration
}

// WindowConfig is the initial main window size.
type WindowConfig struct {
	Width  float32
	Height float32
}

type yamlConfig struct {
	DataDir        string     `yaml:"data_dir,omitempty"`
	LogLevel       string     `yaml:"log_level"`
	TickIntervalMS int        `yaml:"tick_interval_ms"`
	Audio          yamlAudio  `yaml:"audio"`
	Window         yamlWindow `yaml:"window"`
}

type yamlAudio struct {
	Enabled        *bool `yaml:"enabled"`
	PollIntervalMS int   `yaml:"poll_interval_ms"`
}

type yamlWindow struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     logging.LevelWarn.String(),
		TickInterval: defaultTickInterval,
		Audio: AudioConfig{
			Enabled:      true,
			PollInterval: defaultPollInterval,
		},
		Window: WindowConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
		},
	}
}

// Load reads the config at path. A missing file yields defaults and found=false.
// On a read or parse error the defaults are returned with the error.
func Load(path string) (cfg Config, found bool, err error) {
	cfg = Default()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return cfg, false, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, true, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&cfg, fileData)
	cfg.Normalize()
	return cfg, true, nil
}

// Save writes cfg to path atomically, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	enabled := cfg.Audio.Enabled
	fileData := yamlConfig{
		DataDir:        cfg.DataDir,
		LogLevel:       cfg.LogLevel,
		TickIntervalMS: int(cfg.TickInterval / time.Millisecond),
		Audio: yamlAudio{
			Enabled:        &enabled,
			PollIntervalMS: int(cfg.Audio.PollInterval / time.Millisecond),
		},
		Window: yamlWindow{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(serialized)); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Normalize replaces out-of-range values with defaults.
func (cfg *Config) Normalize() {
	defaults := Default()

	if level, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		logging.Warnf("config: %v, using %s", err, defaults.LogLevel)
		cfg.LogLevel = defaults.LogLevel
	} else {
		cfg.LogLevel = level.String()
	}
	if !inRange(cfg.TickInterval, minInterval, maxInterval) {
		cfg.TickInterval = defaults.TickInterval
	}
	if !inRange(cfg.Audio.PollInterval, minInterval, maxInterval) {
		cfg.Audio.PollInterval = defaults.Audio.PollInterval
	}
	if cfg.Window.Width < minWindowLength || cfg.Window.Width > maxWindowLength {
		cfg.Window.Width = defaults.Window.Width
	}
	if cfg.Window.Height < minWindowLength || cfg.Window.Height > maxWindowLength {
		cfg.Window.Height = defaults.Window.Height
	}
}

// Level returns the parsed log level.
func (cfg Config) Level() logging.Level {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logging.LevelWarn
	}
	return level
}

func inRange(value, low, high time.Duration) bool {
	return value >= low && value <= high
}

func applyYamlConfig(cfg *Config, fileData yamlConfig) {
	cfg.DataDir = fileData.DataDir
	if fileData.LogLevel != "" {
		cfg.LogLevel = fileData.LogLevel
	}
	if fileData.TickIntervalMS > 0 {
		cfg.TickInterval = time.Duration(fileData.TickIntervalMS) * time.Millisecond
	}
	if fileData.Audio.Enabled != nil {
		cfg.Audio.Enabled = *fileData.Audio.Enabled
	}
	if fileData.Audio.PollIntervalMS > 0 {
		cfg.Audio.PollInterval = time.Duration(fileData.Audio.PollIntervalMS) * time.Millisecond
	}
	if fileData.Window.Width > 0 {
		cfg.Window.Width = fileData.Window.Width
	}
	if fileData.Window.Height > 0 {
		cfg.Window.Height = fileData.Window.Height
	}
}
