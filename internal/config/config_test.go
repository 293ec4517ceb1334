package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != DefaultPort {
		t.Errorf("expected port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.Host != "localhost" {
		t.Errorf("expected loopback host, got %q", cfg.Host)
	}
	if cfg.StaleAfterDuration() != 30*time.Second {
		t.Errorf("expected 30s staleness, got %v", cfg.StaleAfterDuration())
	}
	if cfg.StatsTTLDuration() != 30*time.Second {
		t.Errorf("expected 30s stats ttl, got %v", cfg.StatsTTLDuration())
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
	if strings.HasPrefix(cfg.ProjectsDir, "~") {
		t.Errorf("expected ~ to be expanded, got %q", cfg.ProjectsDir)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
port = 9000
log_dir = "/var/log/agent"
stale_after = "1m"
metrics = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PORT", "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.LogDir != "/var/log/agent" {
		t.Errorf("unexpected log dir %q", cfg.LogDir)
	}
	if cfg.LogGlob != DefaultLogGlob {
		t.Errorf("unset keys should keep defaults, got %q", cfg.LogGlob)
	}
	if cfg.StaleAfterDuration() != time.Minute {
		t.Errorf("expected 1m, got %v", cfg.StaleAfterDuration())
	}
	if !cfg.Metrics {
		t.Error("expected metrics enabled")
	}

	t.Setenv("PORT", "8123")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8123 {
		t.Errorf("PORT env should override file, got %d", cfg.Port)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("expected error for invalid PORT")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("port = = 1"), 0644)
	t.Setenv("PORT", "")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestParseDurationFallback(t *testing.T) {
	cfg := Default()
	cfg.StatsTTL = "bogus"
	if cfg.StatsTTLDuration() != DefaultStatsTTL {
		t.Errorf("expected fallback, got %v", cfg.StatsTTLDuration())
	}
}

func TestIsLoopback(t *testing.T) {
	tests := map[string]bool{
		"localhost":   true,
		"LOCALHOST":   true,
		"127.0.0.1":   true,
		"127.1.2.3":   true,
		"::1":         true,
		"[::1]":       true,
		"":            false,
		"0.0.0.0":     false,
		"10.0.0.5":    false,
		"example.com": false,
	}
	for host, want := range tests {
		if got := IsLoopback(host); got != want {
			t.Errorf("IsLoopback(%q) = %v, want %v", host, got, want)
		}
	}
}
