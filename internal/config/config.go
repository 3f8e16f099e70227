// ABOUTME: Roster configuration: JSON file under XDG config plus ROSTER_* env overrides.
// ABOUTME: Provides defaults, validation and the snapshot storage factory.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/harperreed/roster/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. ROSTER_PROFILE.
const EnvPrefix = "ROSTER"

// Defaults for unset fields.
const (
	DefaultProfile    = "grupo001"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultListenAddr = "127.0.0.1:8080"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("invalid config")

// Config stores roster tool configuration.
type Config struct {
	// DataDir holds the snapshot archive. Supports ~ expansion.
	// Defaults to ~/.local/share/roster.
	DataDir string `json:"data_dir,omitempty" envconfig:"DATA_DIR"`

	// Profile selects the report variant.
	Profile string `json:"profile,omitempty" envconfig:"PROFILE" validate:"omitempty,oneof=grupo001 listado"`

	LogLevel  string `json:"log_level,omitempty" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `json:"log_format,omitempty" envconfig:"LOG_FORMAT" validate:"omitempty,oneof=console json"`

	// ListenAddr is the host:port the HTTP API binds to.
	ListenAddr string `json:"listen_addr,omitempty" envconfig:"LISTEN_ADDR" validate:"omitempty,hostname_port"`

	// Delimiter forces the CSV field separator. Empty means sniff.
	Delimiter string `json:"delimiter,omitempty" envconfig:"DELIMITER" validate:"omitempty,len=1"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetProfile returns the configured profile name.
func (c *Config) GetProfile() string {
	if c.Profile == "" {
		return DefaultProfile
	}
	return c.Profile
}

// GetLogLevel returns the configured log level.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetLogFormat returns the configured log format.
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return DefaultLogFormat
	}
	return c.LogFormat
}

// GetListenAddr returns the configured HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// GetDelimiter returns the forced delimiter, or 0 to sniff.
func (c *Config) GetDelimiter() rune {
	if c.Delimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the snapshot archive in the data directory.
func (c *Config) OpenStorage() (storage.Repository, error) {
	db, err := storage.OpenArchive(c.GetDataDir())
	if err != nil {
		return nil, err
	}
	return db, nil
}

var validate = validator.New()

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ApplyEnv overrides fields from ROSTER_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "roster", "config.json")
}

// Load reads config from disk, applies environment overrides and validates.
func Load() (*Config, error) {
	cfg, err := readFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path is derived from XDG dirs
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
