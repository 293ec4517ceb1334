// Package config provides configuration loading for the molty dashboard.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPort matches the port the dashboard frontend expects.
	DefaultPort = 8790
	// DefaultHost keeps the server on loopback.
	DefaultHost = "localhost"

	DefaultLogDir     = "/tmp/moltbot"
	DefaultLogGlob    = "moltbot-*.log"
	DefaultStaleAfter = 30 * time.Second
	DefaultStatsTTL   = 30 * time.Second
)

// Config holds the dashboard configuration.
type Config struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"` // Directory served for non-API paths
	Metrics   bool   `toml:"metrics"`    // Expose /metrics

	LogDir        string `toml:"log_dir"`
	LogGlob       string `toml:"log_glob"`
	PublishedPath string `toml:"published_path"` // Markdown project journal
	ProjectsDir   string `toml:"projects_dir"`   // Sibling git checkouts

	StaleAfter string `toml:"stale_after"` // e.g. "30s"
	StatsTTL   string `toml:"stats_ttl"`   // e.g. "30s"
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		StaticDir:     ".",
		LogDir:        DefaultLogDir,
		LogGlob:       DefaultLogGlob,
		PublishedPath: "~/clawd/research/published.md",
		ProjectsDir:   "~/clawd/projects",
		StaleAfter:    DefaultStaleAfter.String(),
		StatsTTL:      DefaultStatsTTL.String(),
	}
}

// Dir returns the path to the ~/.molty directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".molty"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the TOML file at path on top of the defaults, then applies the
// PORT environment variable. An empty path means the default location. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	cfg.PublishedPath = expandHome(cfg.PublishedPath)
	cfg.ProjectsDir = expandHome(cfg.ProjectsDir)
	cfg.LogDir = expandHome(cfg.LogDir)
	cfg.StaticDir = expandHome(cfg.StaticDir)

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		c.Port = port
	}
	return nil
}

// StaleAfterDuration returns the log staleness threshold (default 30s).
func (c Config) StaleAfterDuration() time.Duration {
	return parseDuration(c.StaleAfter, DefaultStaleAfter)
}

// StatsTTLDuration returns how long aggregate stats are cached (default 30s).
func (c Config) StatsTTLDuration() time.Duration {
	return parseDuration(c.StatsTTL, DefaultStatsTTL)
}

// Addr returns host:port.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// IsLoopback reports whether host names the local machine only: "localhost"
// or a loopback IP literal.
func IsLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	return ip != nil && ip.IsLoopback()
}
