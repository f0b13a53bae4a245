package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORAGE_DRIVER", "CACHE_DRIVER", "QUEUE_DRIVER", "EVENT_SINKS", "JWT_RESET_TTL"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.StorageDriver != "memory" || c.CacheDriver != "memory" || c.QueueDriver != "log" {
		t.Errorf("drivers = %s/%s/%s", c.StorageDriver, c.CacheDriver, c.QueueDriver)
	}
	if c.ResetTTL != 30*time.Minute {
		t.Errorf("reset ttl = %v", c.ResetTTL)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("EVENT_SINKS", "log, REDIS ,gcs")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("DB_MAX_CONNS", "oops")

	c := Load()
	if c.StorageDriver != "postgres" {
		t.Errorf("storage = %q", c.StorageDriver)
	}
	if got := strings.Join(c.Sinks(), ","); got != "log,redis,gcs" {
		t.Errorf("sinks = %q", got)
	}
	if c.CacheTTL != 5*time.Minute {
		t.Errorf("cache ttl = %v", c.CacheTTL)
	}
	if c.DBMaxConns != 10 {
		t.Errorf("bad int should fall back to default, got %d", c.DBMaxConns)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"unknown storage", Config{StorageDriver: "file", CacheDriver: "memory", QueueDriver: "log"}, "STORAGE_DRIVER"},
		{"unknown sink", Config{StorageDriver: "memory", CacheDriver: "memory", QueueDriver: "log", EventSinks: "kafka"}, "EVENT_SINKS"},
		{"redis cache over memory store", Config{StorageDriver: "memory", CacheDriver: "redis", QueueDriver: "log"}, "shared store"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	if got := c.PostgresDSN(); got != "postgres://u:p@h:5432/d?sslmode=disable" {
		t.Errorf("dsn = %s", got)
	}
}

func TestNeedsRedis(t *testing.T) {
	base := Config{StorageDriver: "postgres", CacheDriver: "memory", QueueDriver: "log", EventSinks: "log"}
	if base.NeedsRedis() {
		t.Error("log-only config needs no redis")
	}
	for name, mutate := range map[string]func(*Config){
		"cache":      func(c *Config) { c.CacheDriver = "redis" },
		"queue":      func(c *Config) { c.QueueDriver = "redis" },
		"sink":       func(c *Config) { c.EventSinks = "log, Redis" },
		"rate limit": func(c *Config) { c.RateLimitEnabled = true },
	} {
		c := base
		mutate(&c)
		if !c.NeedsRedis() {
			t.Errorf("%s: expected redis", name)
		}
	}
}
