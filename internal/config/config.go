package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PORTAL_DATABASE_TYPE.
const EnvPrefix = "PORTAL"

type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"logLevel"`
	Database struct {
		Type            string        `yaml:"type"`
		Path            string        `yaml:"path"`
		Host            string        `yaml:"host"`
		Port            string        `yaml:"port"`
		Name            string        `yaml:"name"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		SSLMode         string        `yaml:"sslMode"`
		MaxConns        int           `yaml:"maxConns"`
		MaxIdle         int           `yaml:"maxIdle"`
		ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	} `yaml:"database"`
	Session struct {
		CookieName      string        `yaml:"cookieName"`
		TTL             time.Duration `yaml:"ttl"`
		CleanupInterval time.Duration `yaml:"cleanupInterval"`
	} `yaml:"session"`
	Assets struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
		S3      S3     `yaml:"s3"`
	} `yaml:"assets"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// S3 describes an S3-compatible bucket holding the public assets.
type S3 struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"accessKeyID"`
	SecretAccessKey string `yaml:"secretAccessKey"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("logLevel", "info")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "data/authportal.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "authportal")
	v.SetDefault("database.user", "authportal")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("database.connMaxLifetime", 30*time.Minute)

	// Cookie Max-Age and the server-side session lifetime share this value.
	v.SetDefault("session.cookieName", "sessionId")
	v.SetDefault("session.ttl", time.Hour)
	v.SetDefault("session.cleanupInterval", 10*time.Minute)

	v.SetDefault("assets.backend", "embed")
	v.SetDefault("assets.dir", "public")
	v.SetDefault("assets.s3.endpoint", "")
	v.SetDefault("assets.s3.region", "us-east-1")
	v.SetDefault("assets.s3.bucket", "")
	v.SetDefault("assets.s3.prefix", "")
	v.SetDefault("assets.s3.accessKeyID", "")
	v.SetDefault("assets.s3.secretAccessKey", "")

	v.SetDefault("metrics.enabled", true)
}

// LoadConfig loads the configuration from file and environment variables.
// An empty path skips the file and relies on defaults and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		log.Warn().Msg("no config file given, using defaults and environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.Port).
		Str("db_type", cfg.Database.Type).
		Str("assets_backend", cfg.Assets.Backend).
		Dur("session_ttl", cfg.Session.TTL).
		Msg("configuration loaded")
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New("database.host and database.name are required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Session.CookieName == "" {
		return errors.New("session.cookieName must not be empty")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}

	switch c.Assets.Backend {
	case "embed":
	case "dir":
		if c.Assets.Dir == "" {
			return errors.New("assets.dir is required for the dir backend")
		}
	case "s3":
		if c.Assets.S3.Bucket == "" {
			return errors.New("assets.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unsupported assets backend: %s", c.Assets.Backend)
	}

	return nil
}
