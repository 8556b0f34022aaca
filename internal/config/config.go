package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "airwaves"

type Config struct {
	LogFile  string `koanf:"log_file"`  // defaults to $XDG_STATE_HOME/airwaves/airwaves.log
	LogLevel string `koanf:"log_level"` // "debug", "info", "warn", "error" (default: "info")
	Icons    string `koanf:"icons"`     // "nerd", "unicode", or "none" (default: "none")

	// Station directory
	Catalog CatalogConfig `koanf:"catalog"`

	// Remote favorites store
	Favorites FavoritesConfig `koanf:"favorites"`

	// Stream fallback settings
	Playback PlaybackConfig `koanf:"playback"`

	// Desktop notifications
	Notifications NotificationsConfig `koanf:"notifications"`

	// favoritesd settings
	Server ServerConfig `koanf:"server"`
}

// CatalogConfig holds the station directory settings.
type CatalogConfig struct {
	BaseURL        string `koanf:"base_url"`        // e.g., "https://de2.api.radio-browser.info/json"
	UserAgent      string `koanf:"user_agent"`      // sent on every request
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 10
}

// FavoritesConfig holds the remote favorites store settings.
type FavoritesConfig struct {
	BaseURL        string `koanf:"base_url"`        // e.g., "http://localhost:8787"
	TimeoutSeconds int    `koanf:"timeout_seconds"` // default: 10
}

// PlaybackConfig holds the stream fallback settings.
type PlaybackConfig struct {
	FallbackLimit        int `koanf:"fallback_limit"`         // Max alternates fetched on first failure (1-50, default: 10)
	LookupTimeoutSeconds int `koanf:"lookup_timeout_seconds"` // default: 10
}

// NotificationsConfig holds the desktop notification settings.
type NotificationsConfig struct {
	Enabled bool `koanf:"enabled"` // default: false
	Timeout int  `koanf:"timeout"` // ms; default: 5000
}

// ServerConfig holds the favorites server settings.
type ServerConfig struct {
	Listen string `koanf:"listen"`  // default: ":8787"
	DBPath string `koanf:"db_path"` // default: $XDG_DATA_HOME/airwaves/favorites.db
}

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom loads configuration from the given files, in order (last wins).
// Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.Server.DBPath = expandPath(cfg.Server.DBPath)

	// Normalize URLs (remove trailing slash)
	cfg.Catalog.BaseURL = strings.TrimSuffix(cfg.Catalog.BaseURL, "/")
	cfg.Favorites.BaseURL = strings.TrimSuffix(cfg.Favorites.BaseURL, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/airwaves/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasFavoritesConfig returns true if a remote favorites store is configured.
func (c *Config) HasFavoritesConfig() bool {
	return c.Favorites.BaseURL != ""
}

// GetCatalogConfig returns the catalog configuration with defaults applied.
func (c *Config) GetCatalogConfig() CatalogConfig {
	cfg := c.Catalog
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://de2.api.radio-browser.info/json"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "airwaves/1.0 (https://github.com/llehouerou/airwaves)"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	return cfg
}

// Timeout returns the request timeout as a duration.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetFavoritesConfig returns the favorites configuration with defaults applied.
func (c *Config) GetFavoritesConfig() FavoritesConfig {
	cfg := c.Favorites
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 10
	}
	return cfg
}

// Timeout returns the request timeout as a duration.
func (c FavoritesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback
	if cfg.FallbackLimit <= 0 || cfg.FallbackLimit > 50 {
		cfg.FallbackLimit = 10
	}
	if cfg.LookupTimeoutSeconds <= 0 {
		cfg.LookupTimeoutSeconds = 10
	}
	return cfg
}

// LookupTimeout returns the alternate lookup timeout as a duration.
func (c PlaybackConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutSeconds) * time.Second
}

// GetNotificationsConfig returns the notification settings with defaults applied.
func (c *Config) GetNotificationsConfig() NotificationsConfig {
	cfg := c.Notifications
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5000
	}
	return cfg
}

// GetServerConfig returns the server configuration with defaults applied.
// An empty DBPath means the caller picks the XDG data location.
func (c *Config) GetServerConfig() ServerConfig {
	cfg := c.Server
	if cfg.Listen == "" {
		cfg.Listen = ":8787"
	}
	return cfg
}
