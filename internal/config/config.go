// Package config loads the service configuration from a YAML file, a .env
// file and SHRAMBA_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/tracing"
)

// Storage modes.
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config is the full service configuration.
type Config struct {
	Addr         string        `yaml:"addr"`
	StoreTimeout time.Duration `yaml:"store_timeout"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Log struct {
		Level string `yaml:"level"`
		Path  string `yaml:"path"`
	} `yaml:"log"`

	Storage struct {
		Mode            string        `yaml:"mode"`
		Dir             string        `yaml:"dir"`
		Bucket          string        `yaml:"bucket"`
		PublicBaseURL   string        `yaml:"public_base_url"`
		CredentialsFile string        `yaml:"credentials_file"`
		URLTTL          time.Duration `yaml:"url_ttl"`
	} `yaml:"storage"`

	CORS struct {
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"cors"`

	Tracing tracing.Config `yaml:"tracing"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{
		Addr:         ":8080",
		StoreTimeout: 5 * time.Second,
	}
	cfg.Database.Driver = db.DriverSQLite
	cfg.Database.DSN = "shramba.sqlite3"
	cfg.Log.Level = "info"
	cfg.Storage.Mode = StorageLocal
	cfg.Storage.Dir = "data/files"
	cfg.Storage.PublicBaseURL = "http://localhost:8080"
	cfg.Storage.URLTTL = 15 * time.Minute
	cfg.Tracing.SampleRatio = 1
	return cfg
}

// configLocations are searched when no config path is given.
var configLocations = []string{"shramba.yaml", "shramba.yml"}

// Load builds the configuration. path names the YAML file; when empty the
// default locations are tried and a missing file is not an error. envFile is
// loaded into the process environment if it exists.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path == "" {
		for _, loc := range configLocations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from SHRAMBA_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("SHRAMBA_ADDR", &c.Addr)
	str("SHRAMBA_DB_DRIVER", &c.Database.Driver)
	str("SHRAMBA_DB_DSN", &c.Database.DSN)
	str("SHRAMBA_LOG_LEVEL", &c.Log.Level)
	str("SHRAMBA_LOG_PATH", &c.Log.Path)
	str("SHRAMBA_STORAGE_MODE", &c.Storage.Mode)
	str("SHRAMBA_STORAGE_DIR", &c.Storage.Dir)
	str("SHRAMBA_STORAGE_BUCKET", &c.Storage.Bucket)
	str("SHRAMBA_PUBLIC_BASE_URL", &c.Storage.PublicBaseURL)
	str("SHRAMBA_GCS_CREDENTIALS_FILE", &c.Storage.CredentialsFile)
	str("SHRAMBA_OTLP_ENDPOINT", &c.Tracing.Endpoint)

	if err := dur("SHRAMBA_STORE_TIMEOUT", &c.StoreTimeout); err != nil {
		return err
	}
	if err := dur("SHRAMBA_URL_TTL", &c.Storage.URLTTL); err != nil {
		return err
	}

	if v, ok := lookup("SHRAMBA_CORS_ORIGINS"); ok {
		c.CORS.AllowOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.CORS.AllowOrigins = append(c.CORS.AllowOrigins, origin)
			}
		}
	}
	if v, ok := lookup("SHRAMBA_TRACING_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SHRAMBA_TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("store_timeout must be positive"))
	}

	switch c.Database.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q", db.DriverSQLite, db.DriverPostgres))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	switch c.Storage.Mode {
	case StorageLocal:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required in local mode"))
		}
	case StorageGCS:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required in gcs mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.mode must be %q or %q", StorageLocal, StorageGCS))
	}
	if c.Storage.URLTTL <= 0 {
		errs = append(errs, errors.New("storage.url_ttl must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
