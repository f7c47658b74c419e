package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds favtag configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Client   ClientConfig   `yaml:"client"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the tagging HTTP server.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":7171", "127.0.0.1:7171")
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins lists the origins allowed by CORS. Empty allows none.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ClientConfig configures how the TUI and CLI reach the tagging service.
type ClientConfig struct {
	// ServerURL is the tagging server. When empty the local database is used directly.
	ServerURL string        `yaml:"server_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level     string `yaml:"level"`
	Formatter string `yaml:"formatter"`
	// File is the log destination; "-" is stderr.
	File string `yaml:"file"`
}

// Dir returns the favtag configuration directory.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	return filepath.Join(configDir, "favtag")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	dir := Dir()

	return Config{
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:7171",
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "favtag.db"),
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:     "info",
			Formatter: "text",
			File:      filepath.Join(dir, "favtag.log"),
		},
	}
}

// Option is a function that modifies the Config.
type Option func(*Config)

// WithListenAddr sets the server listen address.
func WithListenAddr(addr string) Option {
	return func(c *Config) {
		c.Server.ListenAddr = addr
	}
}

// WithDatabasePath sets the SQLite database path.
func WithDatabasePath(path string) Option {
	return func(c *Config) {
		c.Database.Path = path
	}
}

// WithServerURL points clients at a remote tagging server.
func WithServerURL(url string) Option {
	return func(c *Config) {
		c.Client.ServerURL = url
	}
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.Log.Level = level
	}
}

// WithLogFile sets the log destination.
func WithLogFile(file string) Option {
	return func(c *Config) {
		c.Log.File = file
	}
}

// Load reads the YAML file at path over the defaults and applies opts.
// A missing file is not an error.
func Load(path string, opts ...Option) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c Config) Validate() error {
	switch c.Log.Formatter {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log formatter %q", c.Log.Formatter)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client timeout must not be negative")
	}
	if c.Client.ServerURL == "" && c.Database.Path == "" {
		return fmt.Errorf("either a server URL or a database path is required")
	}
	return nil
}
