// Package config loads pagebuilder settings from a TOML file.
//
// A config file has one table per concern:
//
//	[drag]
//	grid_size = 8
//	zoom = 1.0
//	viewport = "desktop"
//
//	[autoscroll]
//	edge = 48
//	max_speed = 28
//
//	[rules]
//	file = "rules.yaml"
//
//	[cache]
//	backend = "file"      # file, redis or none
//	dir = "~/.cache/pagebuilder"
//	redis_addr = "localhost:6379"
//	ttl = "720h"
//
//	[server]
//	addr = ":8080"
//
// Missing keys keep their [Default] values.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pagebuilder/pkg/autoscroll"
	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

// AppName is used for the default config and cache directories.
const AppName = "pagebuilder"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Drag       Drag              `toml:"drag"`
	Autoscroll autoscroll.Config `toml:"autoscroll"`
	Rules      Rules             `toml:"rules"`
	Cache      Cache             `toml:"cache"`
	Server     Server            `toml:"server"`
}

// Drag configures the drag machine.
type Drag struct {
	GridSize int           `toml:"grid_size"`
	Zoom     float64       `toml:"zoom"`
	Viewport tree.Viewport `toml:"viewport"`
}

// Rules points at an optional YAML placement registry. Empty means the
// built-in registry.
type Rules struct {
	File string `toml:"file"`
}

// Cache configures history persistence.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	// Namespace prefixes every key, so that several workspaces can share
	// one backend.
	Namespace string   `toml:"namespace"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration decoded from a TOML string such as "30m".
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Drag:       Drag{GridSize: 8, Zoom: 1},
		Autoscroll: autoscroll.DefaultConfig(),
		Cache:      Cache{Backend: BackendFile, TTL: Duration{30 * 24 * time.Hour}},
		Server:     Server{Addr: ":8080"},
	}
}

// Load reads the TOML file at path on top of [Default]. A missing file at
// the default path is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []string
	if c.Drag.GridSize < 0 {
		errs = append(errs, fmt.Sprintf("drag.grid_size must not be negative, got %d", c.Drag.GridSize))
	}
	if c.Drag.Zoom < 0 {
		errs = append(errs, fmt.Sprintf("drag.zoom must not be negative, got %g", c.Drag.Zoom))
	}
	if !c.Drag.Viewport.Valid() {
		errs = append(errs, fmt.Sprintf("drag.viewport %q is not one of desktop, tablet, mobile", c.Drag.Viewport))
	}
	if c.Autoscroll.Edge < 0 || c.Autoscroll.MaxSpeed < 0 {
		errs = append(errs, "autoscroll.edge and autoscroll.max_speed must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, "cache.redis_addr is required for the redis backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.backend %q is not one of file, redis, none", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration < 0 {
		errs = append(errs, "cache.ttl must not be negative")
	}
	if len(errs) > 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// CacheDir returns the file cache directory: the configured one with "~"
// expanded, or the XDG cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return expandHome(c.Cache.Dir)
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns the XDG config file path
// (~/.config/pagebuilder/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Write encodes c as TOML to path, creating parent directories.
func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes c as TOML to w.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
