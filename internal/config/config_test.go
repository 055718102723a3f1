package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBPath != "chorelog.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Gemini.Model = %q", cfg.Gemini.Model)
	}
	if cfg.Insights.RateLimitInterval != 30*time.Second || cfg.Insights.RateLimitBurst != 3 {
		t.Errorf("Insights = %+v", cfg.Insights)
	}
	if cfg.SnapshotsEnabled() {
		t.Error("snapshots should be disabled without a bucket")
	}
	if cfg.Snapshot.Keep != 14 || cfg.Snapshot.Interval != 24*time.Hour {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "chorelog.yaml")
	content := `
port: "9000"
timezone: America/Denver
gemini:
  api_key: from-file
s3:
  bucket: household
snapshot:
  passphrase: hunter2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CHORELOG_CONFIG", path)
	t.Setenv("CHORELOG_GEMINI_API_KEY", "from-env")
	t.Setenv("CHORELOG_DB_PATH", "/tmp/x.db")
	t.Setenv("CHORELOG_S3_ACCESS_KEY", "AKIA")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000 from file", cfg.Port)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("Gemini.APIKey = %q, env should win", cfg.Gemini.APIKey)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.S3.AccessKey != "AKIA" || cfg.S3.Bucket != "household" {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if cfg.Location().String() != "America/Denver" {
		t.Errorf("Location = %s", cfg.Location())
	}
	if !cfg.SnapshotsEnabled() {
		t.Error("snapshots should be enabled with a bucket")
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CHORELOG_PORT", "port"},
		{"CHORELOG_DB_PATH", "db_path"},
		{"CHORELOG_GEMINI_API_KEY", "gemini.api_key"},
		{"CHORELOG_S3_SECRET_KEY", "s3.secret_key"},
		{"CHORELOG_SNAPSHOT_PASSPHRASE", "snapshot.passphrase"},
		{"CHORELOG_INSIGHTS_RATE_LIMIT_BURST", "insights.rate_limit_burst"},
		{"CHORELOG_CONFIG", ""},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:     "8080",
			DBPath:   "x.db",
			Timezone: "UTC",
			Insights: InsightsConfig{RateLimitInterval: time.Second, RateLimitBurst: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"bad port", func(c *Config) { c.Port = "http" }, false},
		{"port out of range", func(c *Config) { c.Port = "70000" }, false},
		{"no db", func(c *Config) { c.DBPath = "" }, false},
		{"bad tz", func(c *Config) { c.Timezone = "Mars/Olympus" }, false},
		{"zero burst", func(c *Config) { c.Insights.RateLimitBurst = 0 }, false},
		{"bucket without passphrase", func(c *Config) { c.S3.Bucket = "b" }, false},
		{"negative keep", func(c *Config) { c.Snapshot.Keep = -1 }, false},
		{"negative interval", func(c *Config) { c.Snapshot.Interval = -time.Minute }, false},
		{"bucket with passphrase", func(c *Config) {
			c.S3.Bucket = "b"
			c.Snapshot.Passphrase = "p"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}
