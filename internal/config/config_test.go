package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.PricePerKWh != 300 || cfg.KindDetail != "C001" || cfg.PageSize != 9999 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("refresh interval = %v", cfg.RefreshInterval)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"bad backend":          func(c *Config) { c.SettingsBackend = "etcd" },
		"postgres without url": func(c *Config) { c.SettingsBackend = SettingsBackendPostgres },
		"redis without addr":   func(c *Config) { c.SettingsBackend = SettingsBackendRedis },
		"zero interval":        func(c *Config) { c.RefreshInterval = 0 },
		"bad endpoint":         func(c *Config) { c.APIEndpoint = "not a url" },
		"bad port":             func(c *Config) { c.ServerPort = "http" },
		"bad log level":        func(c *Config) { c.LogLevel = "verbose" },
		"negative price":       func(c *Config) { c.PricePerKWh = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("port: \"8080\"\nrefresh_interval: 10m\nprice_per_kwh: 350\ntimezone: UTC\n")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("EVCHARGER_PAGE_SIZE", "100")
	t.Setenv("REFRESH_INTERVAL", "")
	t.Setenv("PRICE_PER_KWH", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("port = %s, env should win", cfg.ServerPort)
	}
	if cfg.RefreshInterval != 10*time.Minute || cfg.PricePerKWh != 350 {
		t.Errorf("file values not applied: %v %v", cfg.RefreshInterval, cfg.PricePerKWh)
	}
	if cfg.PageSize != 100 {
		t.Errorf("page size = %d", cfg.PageSize)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("timezone = %s", cfg.Timezone)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Mars/Olympus"
	loc, err := cfg.Location()
	if err == nil {
		t.Fatal("expected error")
	}
	if loc != time.Local {
		t.Errorf("loc = %v, want Local", loc)
	}

	cfg.Timezone = "UTC"
	if loc, err := cfg.Location(); err != nil || loc.String() != "UTC" {
		t.Errorf("UTC: %v %v", loc, err)
	}
}
