package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sigscan/sigscan/internal/core"
)

type Config struct {
	Storage    Storage             `mapstructure:"storage"`
	Provider   Provider            `mapstructure:"provider"`
	Scanner    Scanner             `mapstructure:"scanner"`
	Strategies map[string]Strategy `mapstructure:"strategies"`
	Universe   Universe            `mapstructure:"universe"`
	Archive    Archive             `mapstructure:"archive"`
	Metrics    Metrics             `mapstructure:"metrics"`
}

// Storage locates the signal database.
type Storage struct {
	Path string `mapstructure:"path"`
}

// Provider tunes the quote fetcher.
type Provider struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Scanner tunes scan runs.
type Scanner struct {
	// Delay is the pause between consecutive symbol fetches.
	Delay time.Duration `mapstructure:"delay"`
}

// Strategy holds per-strategy settings.
type Strategy struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

// Universe configures symbol group resolution.
type Universe struct {
	// FallbackDir holds local copies of exchange index CSVs used when the
	// exchange is unreachable.
	FallbackDir string `mapstructure:"fallback_dir"`

	// Lists defines static symbol groups by name.
	Lists map[string][]string `mapstructure:"lists"`
}

// Archive configures where signal-log exports go.
type Archive struct {
	Type string `mapstructure:"type"` // "local" or "s3"
	Path string `mapstructure:"path"`
	S3   S3     `mapstructure:"s3"`
}

// S3 holds S3-compatible object store settings.
type S3 struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file. Environment variables override file
// values, and ${VAR} references in string values are expanded.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Storage: Storage{
			Path: "signals.db",
		},
		Provider: Provider{
			Timeout:  15 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		Scanner: Scanner{
			Delay: 500 * time.Millisecond,
		},
		Universe: Universe{
			FallbackDir: "data",
		},
		Archive: Archive{
			Type: "local",
			Path: "exports",
		},
		Metrics: Metrics{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("storage path is required"))
	}
	if c.Provider.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("provider timeout cannot be negative, got %s", c.Provider.Timeout))
	}
	if c.Provider.CacheTTL < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("cache_ttl cannot be negative, got %s", c.Provider.CacheTTL))
	}
	if c.Scanner.Delay < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scanner delay cannot be negative, got %s", c.Scanner.Delay))
	}

	switch c.Archive.Type {
	case "", "local":
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
		if c.Archive.S3.Region == "" && c.Archive.S3.Endpoint == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 region or endpoint required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Archive.Type))
	}

	return nil
}
