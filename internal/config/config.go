package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the root of the diagnosis service (serves /predict and /get_data).
	BaseURL string

	// AccessToken is forwarded as the access_token cookie. Optional.
	AccessToken string

	// TypingDelay is the per-character reveal delay for bot messages.
	TypingDelay time.Duration

	// HTTPTimeout bounds a single request to the diagnosis service.
	HTTPTimeout time.Duration

	// DBPath is the SQLite event log path. Empty means the default XDG path.
	DBPath string

	// StubAddr is the listen address for the offline predictor.
	StubAddr string
}

// Default returns a Config with the stock values.
func Default() Config {
	return Config{
		BaseURL:     "http://localhost:8080",
		TypingDelay: 40 * time.Millisecond,
		HTTPTimeout: 15 * time.Second,
		StubAddr:    ":8080",
	}
}

// Load reads an optional .env file from the working directory and then
// builds a Config from AYUSH_* environment variables over the defaults.
func Load() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("AYUSH_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("AYUSH_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("AYUSH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("AYUSH_STUB_ADDR"); v != "" {
		cfg.StubAddr = v
	}

	var err error
	if cfg.TypingDelay, err = durationEnv("AYUSH_TYPING_DELAY", cfg.TypingDelay); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = durationEnv("AYUSH_HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks the fields that would otherwise fail late.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("AYUSH_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("AYUSH_BASE_URL must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.TypingDelay < 0 {
		return fmt.Errorf("AYUSH_TYPING_DELAY must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("AYUSH_HTTP_TIMEOUT must be positive")
	}
	return nil
}

// ResolveDBPath returns DBPath when set, else
// $XDG_DATA_HOME/ayushbot/ayushbot.db (falling back to ~/.local/share).
// The parent directory is created.
func (c Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, EnsureDir(c.DBPath)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "ayushbot", "ayushbot.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
// In-memory SQLite DSNs are left alone.
func EnsureDir(path string) error {
	if strings.HasPrefix(path, "file::memory:") || path == ":memory:" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
