// Package config holds run settings: Habitica credentials, the XDG
// configuration directory and Google credential paths.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "hbexport"

	// OAuthClientFile is the Google OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored Google OAuth token filename.
	TokenFile = "token.json"

	// DefaultBaseURL is the Habitica API v4 base.
	DefaultBaseURL = "https://habitica.com/api/v4"

	// DefaultOutputFile is the report path used when --output is not given.
	DefaultOutputFile = "habitica待办事项存档.md"

	// DefaultTimeout bounds a single Habitica request.
	DefaultTimeout = 30 * time.Second
)

// Environment variables read by New.
const (
	EnvUserID   = "HABITICA_USER_ID"
	EnvAPIToken = "HABITICA_API_TOKEN"
	EnvBaseURL  = "HABITICA_BASE_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// UserID and APIToken authenticate against Habitica.
	UserID   string
	APIToken string

	// BaseURL is the Habitica API base.
	BaseURL string

	// Timeout is the per-request HTTP timeout. Zero disables it.
	Timeout time.Duration

	// Logger receives diagnostics. Nil means discard.
	Logger *slog.Logger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/hbexport or $HOME/.config/hbexport.
// Habitica credentials and base URL are seeded from the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	baseURL := os.Getenv(EnvBaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Config{
		Dir:      dir,
		UserID:   strings.TrimSpace(os.Getenv(EnvUserID)),
		APIToken: strings.TrimSpace(os.Getenv(EnvAPIToken)),
		BaseURL:  baseURL,
		Timeout:  DefaultTimeout,
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// HasHabiticaCredentials reports whether both user ID and API token are set.
func (c *Config) HasHabiticaCredentials() bool {
	return c.UserID != "" && c.APIToken != ""
}

// Log returns the configured logger, or one that discards everything.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
