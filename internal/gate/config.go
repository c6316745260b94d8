package gate

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// CheckKind names a supported probe method.
type CheckKind string

const (
	KindTCP      CheckKind = "tcp"
	KindHTTP     CheckKind = "http"
	KindRedis    CheckKind = "redis"
	KindPostgres CheckKind = "postgres"
	KindNATS     CheckKind = "nats"
)

// Config is the on-disk gate configuration.
type Config struct {
	// Concurrent probes all dependencies in parallel instead of in order.
	Concurrent   bool         `toml:"concurrent"`
	Dependencies []Descriptor `toml:"dependency"`
}

// Descriptor is one [[dependency]] entry.
type Descriptor struct {
	Name        string   `toml:"name"`
	Kind        CheckKind `toml:"kind"`
	Target      string   `toml:"target"`
	Interval    duration `toml:"interval"`
	Timeout     duration `toml:"timeout"`
	MaxAttempts int      `toml:"max_attempts"`
}

// duration wraps time.Duration for TOML decoding from strings like "2s".
type duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// DefaultConfig mirrors the original deployment: a Redis cache reachable on
// its standard port and an Elasticsearch cluster-health endpoint, both
// retried without bound.
func DefaultConfig() Config {
	return Config{
		Dependencies: []Descriptor{
			{Name: "cache", Kind: KindTCP, Target: "redis:6379"},
			{Name: "search", Kind: KindHTTP, Target: "http://elasticsearch:9200/_cluster/health"},
		},
	}
}

// LoadConfig reads and validates the TOML file at path. A missing file yields
// the default configuration.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects incomplete or unknown dependency entries before any
// probing begins.
func (c Config) Validate() error {
	if len(c.Dependencies) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(c.Dependencies))
	for i, d := range c.Dependencies {
		if d.Name == "" {
			return fmt.Errorf("dependency %d: name is required", i+1)
		}
		if seen[d.Name] {
			return fmt.Errorf("dependency %q: duplicate name", d.Name)
		}
		seen[d.Name] = true
		if d.Target == "" {
			return fmt.Errorf("dependency %q: target is required", d.Name)
		}
		switch d.Kind {
		case KindTCP, KindHTTP, KindRedis, KindPostgres, KindNATS:
		default:
			return fmt.Errorf("dependency %q: unknown kind %q", d.Name, d.Kind)
		}
	}
	return nil
}

// Build converts the configuration into runnable dependencies.
func (c Config) Build() []Dependency {
	deps := make([]Dependency, 0, len(c.Dependencies))
	for _, d := range c.Dependencies {
		dep := Dependency{
			Name:        d.Name,
			Interval:    time.Duration(d.Interval),
			Timeout:     time.Duration(d.Timeout),
			MaxAttempts: d.MaxAttempts,
		}
		switch d.Kind {
		case KindTCP:
			dep.Check = TCPCheck{Addr: d.Target}
		case KindHTTP:
			dep.Check = HTTPCheck{URL: d.Target}
		case KindRedis:
			dep.Check = RedisCheck{Addr: d.Target}
		case KindPostgres:
			dep.Check = PostgresCheck{URL: d.Target}
		case KindNATS:
			dep.Check = NATSCheck{URL: d.Target}
		}
		deps = append(deps, dep)
	}
	return deps
}
