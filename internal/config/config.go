// Package config holds user-visible settings. Everything here is passed into
// the session coordinator explicitly at construction; there are no package
// globals.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// AutoArrange stacks open transcript windows below the first one instead
	// of using the fixed cascade offset.
	AutoArrange bool `yaml:"auto_arrange"`

	// WordTracking scrolls read-only transcripts along with the playback
	// position and selection.
	WordTracking bool `yaml:"word_tracking"`

	// TranscriptionSetback is how far playback rewinds on a setback play,
	// in seconds.
	TranscriptionSetback int `yaml:"transcription_setback"`

	// SingleUser disables record locking and the keep-alive timer, and
	// enables the media file relocation prompt.
	SingleUser bool `yaml:"single_user"`

	// Username identifies this user for record locks in multi-user mode.
	Username string `yaml:"username"`

	// KeepAliveMinutes is the multi-user keep-alive query interval.
	KeepAliveMinutes int `yaml:"keep_alive_minutes"`

	// VideoRoot is prepended to relative media paths.
	VideoRoot string `yaml:"video_root"`

	// DatabasePath overrides the default database location.
	DatabasePath string `yaml:"database_path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		AutoArrange:          true,
		WordTracking:         true,
		TranscriptionSetback: 2,
		SingleUser:           true,
		KeepAliveMinutes:     10,
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".transana", "config.yaml")
}

// DefaultDatabasePath returns the default database location, used when
// database_path is not set.
func DefaultDatabasePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".transana", "transana.db")
}

// Load reads the configuration at path, creating it with defaults when it
// does not exist. Fields present in the file override defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks ranges and required fields.
func (c *Config) Validate() error {
	if c.TranscriptionSetback < 0 {
		return fmt.Errorf("transcription_setback must not be negative")
	}
	if c.KeepAliveMinutes <= 0 {
		return fmt.Errorf("keep_alive_minutes must be positive")
	}
	if !c.SingleUser && c.Username == "" {
		return fmt.Errorf("username is required in multi-user mode")
	}
	return nil
}

// KeepAliveInterval returns the keep-alive interval as a duration.
func (c *Config) KeepAliveInterval() time.Duration {
	return time.Duration(c.KeepAliveMinutes) * time.Minute
}

// SetbackMs returns the transcription setback in milliseconds.
func (c *Config) SetbackMs() int {
	return c.TranscriptionSetback * 1000
}
