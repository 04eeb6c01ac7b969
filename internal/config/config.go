// Package config handles TOML-based configuration loading and validation.
// Values are merged as defaults < config file < environment (.env included).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"uguulink/internal/httputil"
	"uguulink/internal/media"
)

// DefaultEndpoint is the public uguu.se upload endpoint.
const DefaultEndpoint = "https://uguu.se/upload"

// Config holds all application configuration.
type Config struct {
	Endpoint       string `toml:"endpoint"`
	OutputFormat   string `toml:"output_format"`
	OutputDir      string `toml:"output_dir"`
	TempDir        string `toml:"temp_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	History        bool   `toml:"history"`
	HTMLLinks      bool   `toml:"html_links"`
	Debug          bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Endpoint:       DefaultEndpoint,
		OutputFormat:   string(media.DefaultFormat),
		OutputDir:      "",
		TempDir:        "",
		TimeoutSeconds: 120,
		History:        true,
		HTMLLinks:      false,
		Debug:          false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "uguulink"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "uguulink"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file, applies environment overrides and validates
// the result. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// A .env in the working directory is optional; existing env vars win.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("UGUU_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("UGUU_OUTPUT_FORMAT"); v != "" {
		c.OutputFormat = v
	}
	if v := os.Getenv("UGUU_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("UGUU_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing UGUU_TIMEOUT: %w", err)
		}
		c.TimeoutSeconds = n
	}
	return nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if err := httputil.ValidateURL(c.Endpoint); err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}

	if _, err := media.ParseOutputFormat(c.OutputFormat); err != nil {
		return err
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}

	return nil
}

// Timeout returns the upload request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Format returns the configured output format, falling back to the default.
func (c *Config) Format() media.OutputFormat {
	f, err := media.ParseOutputFormat(c.OutputFormat)
	if err != nil {
		return media.DefaultFormat
	}
	return f
}

// RequestFormat returns the output format exactly as configured, for the
// upload query string. Empty means the default.
func (c *Config) RequestFormat() string {
	if f := strings.TrimSpace(c.OutputFormat); f != "" {
		return f
	}
	return media.DefaultFormat.String()
}

// OutputDirectory answers where the host keeps its rendered outputs.
// It returns an error when no directory is configured so callers can fall
// back to the system temp directory.
func (c *Config) OutputDirectory() (string, error) {
	if c.OutputDir == "" {
		return "", fmt.Errorf("output directory not configured")
	}
	return expandHome(c.OutputDir)
}

// TempDirectory returns where resolver temp files are written.
func (c *Config) TempDirectory() (string, error) {
	if c.TempDir == "" {
		return os.TempDir(), nil
	}
	return expandHome(c.TempDir)
}

// expandHome resolves a leading ~ and makes the path absolute.
func expandHome(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// HistoryPath returns the path to the upload history database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "uguulink", "history.db"), nil
}
