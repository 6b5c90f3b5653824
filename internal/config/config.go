package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rulesmcp/internal/credentials"
	"rulesmcp/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "rulesmcp" // application name used for config directory

// Environment variables read at startup.
const (
	EnvRulesFilePath = "RULES_FILE_PATH"
	EnvGitHubToken   = "GITHUB_TOKEN"
)

const currentVersion = "1.0"

// ErrMissingLocation is returned by Validate when no rules location is configured.
var ErrMissingLocation = errors.New("RULES_FILE_PATH environment variable is required. Set this to either a local file path or GitHub URL.")

// Config holds the process-wide settings. It is built once at startup and
// never modified afterwards.
type Config struct {
	// Location is a local file path or a GitHub URL of the rules document.
	Location string `yaml:"rules_file_path"`
	// AuthToken is sent as "Authorization: token <value>" on remote fetches.
	AuthToken string `yaml:"github_token,omitempty"`
	// FetchTimeout bounds a single remote fetch. Zero means no timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout,omitempty"`
	// FetchRate caps remote fetches per second. Zero means unlimited.
	FetchRate float64 `yaml:"fetch_rate,omitempty"`
	Version   string  `yaml:"version"`
}

// TokenSource supplies a fallback GitHub token when none is configured.
type TokenSource interface {
	Token() (string, error)
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigPath overrides the default config file location. When set the
	// file must exist.
	ConfigPath string
	// Location and AuthToken come from command-line flags and win over
	// everything else.
	Location  string
	AuthToken string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
	// Tokens is consulted last for the auth token. Nil disables the lookup.
	Tokens TokenSource
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	configPath := filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
	logging.Debug("Determined config path", "path", configPath)
	return configPath
}

// Load builds the configuration from, in increasing precedence, the config
// file, the environment and explicit overrides. The result is validated.
func Load(opts LoadOptions) (*Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg, err := loadFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(getenv(EnvRulesFilePath)); v != "" {
		cfg.Location = v
	}
	if v := strings.TrimSpace(getenv(EnvGitHubToken)); v != "" {
		cfg.AuthToken = v
	}

	if v := strings.TrimSpace(opts.Location); v != "" {
		cfg.Location = v
	}
	if v := strings.TrimSpace(opts.AuthToken); v != "" {
		cfg.AuthToken = v
	}

	if cfg.AuthToken == "" && opts.Tokens != nil {
		token, err := opts.Tokens.Token()
		switch {
		case err == nil:
			cfg.AuthToken = token
			logging.Debug("Using GitHub token from credential store")
		case errors.Is(err, credentials.ErrNoToken):
			logging.Debug("No GitHub token in credential store")
		default:
			logging.Warn("Credential store unavailable, continuing without token", "error", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile reads an explicit config file, or the default one when it exists.
func loadFile(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadFrom(explicit)
	}

	path := ConfigPath()
	if _, err := os.Stat(path); err != nil {
		logging.Debug("No config file found, using environment only", "path", path)
		cfg := DefaultConfig()
		return &cfg, nil
	}

	return LoadFrom(path)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a Config with no location set.
func DefaultConfig() Config {
	return Config{
		Version: currentVersion,
	}
}

// Validate reports the first problem that would stop the server from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Location) == "" {
		return ErrMissingLocation
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout cannot be negative: %s", c.FetchTimeout)
	}
	if c.FetchRate < 0 {
		return fmt.Errorf("fetch_rate cannot be negative: %v", c.FetchRate)
	}
	return nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if c.Version == "" {
		c.Version = currentVersion
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold a token, so keep it private to the user.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logging.Info("Configuration saved", "path", path)
	return nil
}
