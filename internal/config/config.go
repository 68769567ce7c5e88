// Package config loads the optional termite configuration file.
// All fields have working defaults; a missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PTYMode controls whether the child runs on a pseudo-terminal.
type PTYMode string

const (
	PTYAuto  PTYMode = "auto"  // pty when attached to a terminal
	PTYNever PTYMode = "never" // plain stdio passthrough
)

// EnvConfig controls environment scrubbing for the child process.
type EnvConfig struct {
	Scrub bool     `yaml:"scrub"`           // enable allowlist filtering
	Allow []string `yaml:"allow,omitempty"` // extra allowlisted variables
	Deny  []string `yaml:"deny,omitempty"`  // extra blocklisted variables
}

// DockerConfig controls the ephemeral-container launch strategy.
type DockerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Image   string `yaml:"image,omitempty"`
}

// Config is the top-level termite configuration.
type Config struct {
	Tool          string        `yaml:"tool"`                // executable to launch
	PropagateExit *bool         `yaml:"propagate_exit_code"` // nil means default (true)
	Timeout       time.Duration `yaml:"timeout,omitempty"`   // 0 means no timeout
	AuditLog      string        `yaml:"audit_log,omitempty"` // empty disables history
	PTY           PTYMode       `yaml:"pty,omitempty"`
	Env           EnvConfig     `yaml:"env,omitempty"`
	Docker        DockerConfig  `yaml:"docker,omitempty"`
}

// Default returns the built-in configuration: launch "t3d", propagate its
// exit code, no timeout, pty when on a terminal, environment untouched.
func Default() *Config {
	return &Config{
		Tool: "t3d",
		PTY:  PTYAuto,
	}
}

// Load reads a config file and applies defaults for unset fields.
// If path is empty, the default location is tried; a file that does not
// exist yields the default configuration.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if cfg.Tool == "" {
		cfg.Tool = "t3d"
	}
	if cfg.PTY == "" {
		cfg.PTY = PTYAuto
	}
	if cfg.PTY != PTYAuto && cfg.PTY != PTYNever {
		return nil, fmt.Errorf("invalid pty mode %q (want %q or %q)", cfg.PTY, PTYAuto, PTYNever)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("negative timeout %v", cfg.Timeout)
	}

	return &cfg, nil
}

// PropagatesExit reports whether the launcher should exit with the
// child's exit code. Defaults to true when the config does not say.
func (c *Config) PropagatesExit() bool {
	if c.PropagateExit == nil {
		return true
	}
	return *c.PropagateExit
}

// DefaultPath returns the default config file location,
// honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "termite", "config.yaml")
}
