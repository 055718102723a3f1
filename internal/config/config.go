// Package config loads chorelog settings from built-in defaults, an optional
// YAML file and CHORELOG_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "CHORELOG_"
	// EnvConfigFile names the YAML file to load when no path is given.
	EnvConfigFile = "CHORELOG_CONFIG"

	maxConfigFileSize = 1024 * 1024
)

const defaults = `
port: "8080"
db_path: chorelog.db
log_level: info
log_format: text
timezone: Local
insights:
  rate_limit_interval: 30s
  rate_limit_burst: 3
gemini:
  model: gemini-2.5-flash
s3:
  region: us-east-1
snapshot:
  prefix: snapshots/
  keep: 14
  interval: 24h
`

// sections are the nested keys; CHORELOG_<SECTION>_<FIELD> maps to section.field.
var sections = []string{"insights", "gemini", "s3", "snapshot"}

type Config struct {
	Port      string         `koanf:"port"`
	DBPath    string         `koanf:"db_path"`
	LogLevel  string         `koanf:"log_level"`
	LogFormat string         `koanf:"log_format"`
	Timezone  string         `koanf:"timezone"`
	Insights  InsightsConfig `koanf:"insights"`
	Gemini    GeminiConfig   `koanf:"gemini"`
	S3        S3Config       `koanf:"s3"`
	Snapshot  SnapshotConfig `koanf:"snapshot"`
}

type InsightsConfig struct {
	RateLimitInterval time.Duration `koanf:"rate_limit_interval"`
	RateLimitBurst    int           `koanf:"rate_limit_burst"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

type SnapshotConfig struct {
	Passphrase string `koanf:"passphrase"`
	Prefix     string `koanf:"prefix"`
	Keep       int    `koanf:"keep"`
	// Interval between scheduled snapshots while serving; 0 disables them.
	Interval time.Duration `koanf:"interval"`
}

// Load reads the configuration. An empty path falls back to $CHORELOG_CONFIG;
// when neither is set only defaults and the environment are used.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider([]byte(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		content, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}

// envKey maps CHORELOG_GEMINI_API_KEY to gemini.api_key and CHORELOG_DB_PATH
// to db_path. The config file variable itself is skipped.
func envKey(s string) string {
	if s == EnvConfigFile {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

func (c *Config) Validate() error {
	var errs []error
	if n, err := strconv.Atoi(c.Port); err != nil || n < 1 || n > 65535 {
		errs = append(errs, fmt.Errorf("port %q is not a valid TCP port", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if c.Insights.RateLimitInterval <= 0 || c.Insights.RateLimitBurst < 1 {
		errs = append(errs, errors.New("insights rate limit must be positive"))
	}
	if c.S3.Bucket != "" && c.Snapshot.Passphrase == "" {
		errs = append(errs, errors.New("snapshot.passphrase is required when s3.bucket is set"))
	}
	if c.Snapshot.Keep < 0 || c.Snapshot.Interval < 0 {
		errs = append(errs, errors.New("snapshot keep and interval must not be negative"))
	}
	return errors.Join(errs...)
}

// Location returns the household time zone used to stamp log dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SnapshotsEnabled reports whether object storage is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.S3.Bucket != ""
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
