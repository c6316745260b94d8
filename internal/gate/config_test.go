package gate

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waitfor.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
concurrent = true

[[dependency]]
name = "cache"
kind = "redis"
target = "localhost:6379"
interval = "500ms"
max_attempts = 30

[[dependency]]
name = "search"
kind = "http"
target = "http://localhost:9200/_cluster/health"
timeout = "5s"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if !cfg.Concurrent {
		t.Error("Concurrent = false, want true")
	}
	if len(cfg.Dependencies) != 2 {
		t.Fatalf("len(Dependencies) = %d, want 2", len(cfg.Dependencies))
	}

	deps := cfg.Build()
	if deps[0].Name != "cache" {
		t.Errorf("deps[0].Name = %q", deps[0].Name)
	}
	if _, ok := deps[0].Check.(RedisCheck); !ok {
		t.Errorf("deps[0].Check = %T, want RedisCheck", deps[0].Check)
	}
	if deps[0].Interval != 500*time.Millisecond {
		t.Errorf("deps[0].Interval = %v", deps[0].Interval)
	}
	if deps[0].MaxAttempts != 30 {
		t.Errorf("deps[0].MaxAttempts = %d", deps[0].MaxAttempts)
	}
	if hc, ok := deps[1].Check.(HTTPCheck); !ok || hc.URL != "http://localhost:9200/_cluster/health" {
		t.Errorf("deps[1].Check = %#v", deps[1].Check)
	}
	if deps[1].Timeout != 5*time.Second {
		t.Errorf("deps[1].Timeout = %v", deps[1].Timeout)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if len(cfg.Dependencies) != 2 {
		t.Fatalf("len(Dependencies) = %d, want 2", len(cfg.Dependencies))
	}
	if cfg.Dependencies[0].Target != "redis:6379" {
		t.Errorf("default cache target = %q", cfg.Dependencies[0].Target)
	}
	if cfg.Dependencies[1].Kind != KindHTTP {
		t.Errorf("default search kind = %q", cfg.Dependencies[1].Kind)
	}
	// Defaults keep the original unbounded behavior.
	for _, d := range cfg.Dependencies {
		if d.MaxAttempts != 0 {
			t.Errorf("dependency %q MaxAttempts = %d, want 0", d.Name, d.MaxAttempts)
		}
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"missing name", "[[dependency]]\nkind = \"tcp\"\ntarget = \"x:1\"\n"},
		{"missing target", "[[dependency]]\nname = \"a\"\nkind = \"tcp\"\n"},
		{"unknown kind", "[[dependency]]\nname = \"a\"\nkind = \"carrier-pigeon\"\ntarget = \"x\"\n"},
		{"duplicate name", `
[[dependency]]
name = "a"
kind = "tcp"
target = "x:1"

[[dependency]]
name = "a"
kind = "tcp"
target = "y:1"
`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig() should reject invalid config")
			}
		})
	}
}
