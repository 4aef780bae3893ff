package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Server.Port != 5000 {
		t.Fatalf("expected default port 5000, got %d", c.Server.Port)
	}
	if c.Series.OnEmptyResult != "show_all" {
		t.Fatalf("expected show_all default, got %q", c.Series.OnEmptyResult)
	}
	if c.Upload.MaxBytes != 10<<20 {
		t.Fatalf("expected 10MiB upload limit, got %d", c.Upload.MaxBytes)
	}
	if c.Series.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected cache ttl %v", c.Series.CacheTTL)
	}
	if c.Redis.PoolSize != 10 || c.Redis.MinIdleConns != 2 || c.Redis.PoolTimeout != 30*time.Second {
		t.Fatalf("unexpected redis pool defaults %+v", c.Redis)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte("server:\n  port: 8080\nseries:\n  on_empty_result: show_empty\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Server.Port != 8080 || c.Series.OnEmptyResult != "show_empty" {
		t.Fatalf("unexpected config %+v", c.Server)
	}
	if c.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("unset keys must keep defaults, got %v", c.Server.ReadTimeout)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []string{
		"series:\n  on_empty_result: hide\n",
		"events:\n  backend: rabbit\n",
		"events:\n  backend: kafka\nkafka:\n  brokers: []\n",
		"events:\n  backend: redis\n",
		"series:\n  timezone: Mars/Olympus\n",
	}
	for _, in := range cases {
		if _, err := Parse([]byte(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"PORT":            "9090",
		"KAFKA_BROKERS":   "a:9092,b:9092",
		"REDIS_ADDR":      "redis:6379",
		"CLICKHOUSE_HOST": "ch",
		"EVENTS_BACKEND":  "redis",
	}
	c.applyEnv(func(k string) string { return env[k] })
	if c.Server.Port != 9090 || len(c.Kafka.Brokers) != 2 {
		t.Fatalf("env overrides not applied: %+v", c.Server)
	}
	if !c.Redis.Enabled || !c.ClickHouse.Enabled || c.Events.Backend != "redis" {
		t.Fatalf("expected redis, clickhouse and backend overrides")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("environment: test\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "test" {
		t.Fatalf("unexpected environment %q", c.Environment)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
