package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"cheatcode/internal/eventbus"
)

// ErrInvalidTimeLimit is returned by Validate when time_limit_ms is not positive
var ErrInvalidTimeLimit = errors.New("time_limit_ms must be greater than zero")

// Config represents the application configuration
type Config struct {
	Version        int            `toml:"version"`
	Pattern        string         `toml:"pattern"`          // literal pattern or preset name
	Source         string         `toml:"source"`           // keyboard | gamepad
	TimeLimitMs    int            `toml:"time_limit_ms"`    // max gap between symbols
	PollIntervalMs int            `toml:"poll_interval_ms"` // gamepad sampling period
	Reaction       ReactionConfig `toml:"reaction"`
	UISettings     UISettings     `toml:"ui"`
}

// ReactionConfig describes what happens on a match
type ReactionConfig struct {
	Message string `toml:"message"`
	Script  string `toml:"script"` // path to a Lua file defining on_match
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowBuffer   bool `toml:"show_buffer"`
	ShowProgress bool `toml:"show_progress"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "cheatcode", "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Path returns the default configuration file location
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the default file, falling back to
// DefaultConfig when the file does not exist
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Pattern: cfg.Pattern,
			Source:  cfg.Source,
		})
	}

	return cfg, nil
}

// Save saves the configuration to the default file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if c.TimeLimitMs <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidTimeLimit, c.TimeLimitMs)
	}
	return nil
}

// TimeLimit returns the maximum gap between two symbols
func (c *Config) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMs) * time.Millisecond
}

// PollInterval returns the gamepad sampling period, zero meaning the default
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return 0
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Overrides carries command-line values; zero values leave the file's
// settings alone
type Overrides struct {
	Pattern     string
	Source      string
	TimeLimitMs int
	Script      string
}

// Apply copies every non-zero override onto the config
func (c *Config) Apply(o Overrides) {
	if o.Pattern != "" {
		c.Pattern = o.Pattern
	}
	if o.Source != "" {
		c.Source = o.Source
	}
	if o.TimeLimitMs != 0 {
		c.TimeLimitMs = o.TimeLimitMs
	}
	if o.Script != "" {
		c.Reaction.Script = o.Script
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:        1,
		Pattern:        "konamicode",
		Source:         "keyboard",
		TimeLimitMs:    1000,
		PollIntervalMs: 16,
		Reaction: ReactionConfig{
			Message: "Code accepted!",
		},
		UISettings: UISettings{
			ShowBuffer:   true,
			ShowProgress: true,
		},
	}
}
