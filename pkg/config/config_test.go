package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perrors "github.com/matzehuels/pagebuilder/pkg/errors"
	"github.com/matzehuels/pagebuilder/pkg/tree"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Autoscroll.Edge != 48 || cfg.Autoscroll.MaxSpeed != 28 {
		t.Errorf("autoscroll = %+v, want 48/28", cfg.Autoscroll)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %s, want file", cfg.Cache.Backend)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[drag]
grid_size = 10
viewport = "mobile"

[autoscroll]
max_speed = 40

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "1h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Drag.GridSize != 10 || cfg.Drag.Viewport != tree.ViewportMobile {
		t.Errorf("Drag = %+v", cfg.Drag)
	}
	if cfg.Drag.Zoom != 1 {
		t.Errorf("Zoom = %v, want default 1", cfg.Drag.Zoom)
	}
	if cfg.Autoscroll.Edge != 48 || cfg.Autoscroll.MaxSpeed != 40 {
		t.Errorf("Autoscroll = %+v, want edge 48, max 40", cfg.Autoscroll)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[drag\n", "load config"},
		{"unknown key", "[drag]\nsnap = true\n", "drag.snap"},
		{"bad backend", "[cache]\nbackend = \"s3\"\n", "cache.backend"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
		{"bad viewport", "[drag]\nviewport = \"watch\"\n", "drag.viewport"},
		{"bad duration", "[cache]\nttl = \"soon\"\n", "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
				t.Fatalf("err = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a file: %v", err)
	}
	if cfg.Drag.GridSize != Default().Drag.GridSize {
		t.Error("missing default file did not yield defaults")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit file accepted")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Rules.File = "rules.yaml"
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Rules.File != "rules.yaml" || back.Cache.TTL != cfg.Cache.TTL {
		t.Errorf("round trip = %+v", back)
	}
}

func TestEncode(t *testing.T) {
	var b strings.Builder
	if err := Default().Encode(&b); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{"[drag]", "[autoscroll]", "[cache]", "[server]", "grid_size", "max_speed"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("encoded config missing %q:\n%s", want, b.String())
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("CacheDir = %s", dir)
	}
	cfg.Cache.Dir = "/srv/cache"
	if dir, _ := cfg.CacheDir(); dir != "/srv/cache" {
		t.Errorf("CacheDir = %s, want /srv/cache", dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg.Cache.Dir = "~/pb"
	if dir, _ := cfg.CacheDir(); dir != filepath.Join(home, "pb") {
		t.Errorf("CacheDir = %s, want ~/pb expanded", dir)
	}
}
