package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func noEnv(string) string { return "" }

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := load(filepath.Join(home, "does-not-exist.toml"), noEnv)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	wantLog, err := expandPath(defaultLogPath)
	if err != nil {
		t.Fatalf("expandPath(defaultLogPath) returned error: %v", err)
	}
	if cfg.LogPath != wantLog {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath, wantLog)
	}
	if cfg.Trace || cfg.Path != "" {
		t.Fatalf("Trace = %v Path = %q, want false and empty", cfg.Trace, cfg.Path)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://10.0.0.5:9999/api  "
request_timeout = "2500ms"
refresh_interval = "30s"
log_path = "  ~/logs/ladle.log  "
trace = true
trace_path = "~/trace.json"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := load(path, noEnv)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("RefreshInterval = %v, want 30s", cfg.RefreshInterval)
	}
	if cfg.RequestTimeout != 2500*time.Millisecond {
		t.Fatalf("RequestTimeout = %v, want 2.5s", cfg.RequestTimeout)
	}
	if cfg.LogPath != filepath.Join(home, "logs", "ladle.log") {
		t.Fatalf("LogPath = %q, want it under HOME %q", cfg.LogPath, home)
	}
	if !cfg.Trace || !strings.HasPrefix(cfg.TracePath, home) {
		t.Fatalf("Trace = %v TracePath = %q", cfg.Trace, cfg.TracePath)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoad_EmptyLogPathDisablesLogging(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_path = ""`+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := load(path, noEnv)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogPath != "" {
		t.Fatalf("LogPath = %q, want empty", cfg.LogPath)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://file:1"`+"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	env := func(key string) string {
		if key == EnvAPIURL {
			return "http://env:2"
		}
		return ""
	}
	cfg, err := load(path, env)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://env:2" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if got := cfg.WithAPIURL("http://flag:3").APIURL; got != "http://flag:3" {
		t.Fatalf("WithAPIURL = %q, want flag value", got)
	}
	if got := cfg.WithAPIURL("  ").APIURL; got != "http://env:2" {
		t.Fatalf("blank WithAPIURL changed url to %q", got)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cases := map[string]string{
		"bad toml":         "api_url = ",
		"bad duration":     `request_timeout = "soon"`,
		"negative timeout": `request_timeout = "-1s"`,
		"bad refresh":      `refresh_interval = "often"`,
		"negative refresh": `refresh_interval = "-5s"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body+"\n"), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := load(path, noEnv); err == nil {
				t.Fatalf("expected error for %q", body)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
