package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds ladle's runtime settings.
type Config struct {
	APIURL          string
	RequestTimeout  time.Duration
	// RefreshInterval re-runs the active query in the TUI; zero disables it.
	RefreshInterval time.Duration
	LogPath         string // empty disables the diagnostics log
	Trace           bool
	TracePath       string
	Path            string // config file that was read, if any
}

// EnvAPIURL overrides api_url from the config file.
const EnvAPIURL = "LADLE_API_URL"

const (
	defaultConfigPath     = "~/.config/ladle/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8000"
	defaultRequestTimeout = 10 * time.Second
	defaultLogPath        = "~/.local/state/ladle/ladle.log"
	defaultTracePath      = "~/.local/state/ladle/trace.json"
)

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in settings with paths expanded.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		LogPath:        mustExpand(defaultLogPath),
		TracePath:      mustExpand(defaultTracePath),
	}
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies the LADLE_API_URL environment override.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := parse(file, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Path = resolved
	}

	if env := strings.TrimSpace(getenv(EnvAPIURL)); env != "" {
		cfg.APIURL = env
	}
	return cfg, nil
}

func parse(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string  `toml:"api_url"`
		RequestTimeout string  `toml:"request_timeout"`
		Refresh        string  `toml:"refresh_interval"`
		LogPath        *string `toml:"log_path"`
		Trace          bool    `toml:"trace"`
		TracePath      string  `toml:"trace_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if api := strings.TrimSpace(raw.APIURL); api != "" {
		cfg.APIURL = api
	}
	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("parse request_timeout %q: %w", timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive, got %s", d)
		}
		cfg.RequestTimeout = d
	}
	if refresh := strings.TrimSpace(raw.Refresh); refresh != "" {
		d, err := time.ParseDuration(refresh)
		if err != nil {
			return fmt.Errorf("parse refresh_interval %q: %w", refresh, err)
		}
		if d < 0 {
			return fmt.Errorf("refresh_interval must not be negative, got %s", d)
		}
		cfg.RefreshInterval = d
	}
	if raw.LogPath != nil {
		cfg.LogPath = ""
		if p := strings.TrimSpace(*raw.LogPath); p != "" {
			cfg.LogPath = mustExpand(p)
		}
	}
	cfg.Trace = raw.Trace
	if p := strings.TrimSpace(raw.TracePath); p != "" {
		cfg.TracePath = mustExpand(p)
	}
	return nil
}

// WithAPIURL returns a copy with the API URL replaced when url is non-blank.
func (c Config) WithAPIURL(url string) Config {
	if url = strings.TrimSpace(url); url != "" {
		c.APIURL = url
	}
	return c
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
