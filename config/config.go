// Package config provides configuration management for the bastion agent.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (BASTION_*)
// 3. Config file (--config, or bastion.yaml in cwd)
// 4. Defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/bastion/rules"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "bastion.yaml"

// Config holds all agent configuration.
type Config struct {
	// Seed seeds the agent's random source. 0 means derive one at start-up.
	Seed int64 `yaml:"seed" json:"seed"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Doctrine holds the classifier thresholds.
	Doctrine rules.Doctrine `yaml:"doctrine" json:"doctrine"`

	// Files used by the per-turn runner contract.
	Files FilesConfig `yaml:"files" json:"files"`

	// Serve settings for the long-lived sidecar.
	Serve ServeConfig `yaml:"serve" json:"serve"`
}

// FilesConfig names the snapshot and command files exchanged with the game runner.
type FilesConfig struct {
	// State is the snapshot written by the runner each turn.
	// Default: state.json
	State string `yaml:"state" json:"state"`

	// Command is where the chosen command is written.
	// Default: command.txt
	Command string `yaml:"command" json:"command"`
}

// ServeConfig holds sidecar settings.
type ServeConfig struct {
	// Socket is the unix domain socket path.
	// Default: /tmp/bastion.sock
	Socket string `yaml:"socket" json:"socket"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Doctrine: rules.DefaultDoctrine(),
		Files: FilesConfig{
			State:   "state.json",
			Command: "command.txt",
		},
		Serve: ServeConfig{
			Socket: "/tmp/bastion.sock",
		},
	}
}

// Load resolves configuration with proper precedence.
// An explicit path must exist; the default file is optional.
func Load(path string, flagOverrides *Config) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	fileConfig, err := loadFromPath(path)
	switch {
	case err == nil:
		cfg = merge(cfg, fileConfig)
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg, err = applyEnv(cfg)
	if err != nil {
		return nil, err
	}

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	cfg.Doctrine.Validate()
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) (*Config, error) {
	if v := strings.TrimSpace(os.Getenv("BASTION_SEED")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("BASTION_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv("BASTION_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BASTION_STATE_FILE"); v != "" {
		cfg.Files.State = v
	}
	if v := os.Getenv("BASTION_COMMAND_FILE"); v != "" {
		cfg.Files.Command = v
	}
	if v := os.Getenv("BASTION_SOCKET"); v != "" {
		cfg.Serve.Socket = v
	}
	return cfg, nil
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeInt overwrites dst with src when src is non-zero.
func mergeInt[T int | int64](dst *T, src T) {
	if src != 0 {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	mergeInt(&dst.Seed, src.Seed)
	mergeStr(&dst.LogLevel, src.LogLevel)
	mergeInt(&dst.Doctrine.DefenseTarget, src.Doctrine.DefenseTarget)
	mergeInt(&dst.Doctrine.AttackCap, src.Doctrine.AttackCap)
	mergeStr(&dst.Files.State, src.Files.State)
	mergeStr(&dst.Files.Command, src.Files.Command)
	mergeStr(&dst.Serve.Socket, src.Serve.Socket)
	return dst
}
