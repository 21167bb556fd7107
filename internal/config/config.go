// Package config loads service configuration from defaults, an optional TOML file, a .env file and AUCTION_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const envPrefix = "AUCTION_"

// Config is the complete service configuration
type Config struct {
	Server        ServerConfig        `toml:"server" envPrefix:"SERVER_"`
	Log           LogConfig           `toml:"log" envPrefix:"LOG_"`
	Auth          AuthConfig          `toml:"auth" envPrefix:"AUTH_"`
	Storage       StorageConfig       `toml:"storage" envPrefix:"STORAGE_"`
	Redis         RedisConfig         `toml:"redis" envPrefix:"REDIS_"`
	Scheduler     SchedulerConfig     `toml:"scheduler" envPrefix:"SCHEDULER_"`
	Retry         RetryConfig         `toml:"retry" envPrefix:"RETRY_"`
	Tracing       TracingConfig       `toml:"tracing" envPrefix:"TRACING_"`
	Notifications NotificationsConfig `toml:"notifications" envPrefix:"NOTIFICATIONS_"`
	Seed          SeedConfig          `toml:"seed" envPrefix:"SEED_"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	GinMode         string        `toml:"gin_mode" env:"GIN_MODE"`
	CORSOrigins     []string      `toml:"cors_origins" env:"CORS_ORIGINS"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string        `toml:"issuer" env:"ISSUER"`
	TokenTTL  time.Duration `toml:"token_ttl" env:"TOKEN_TTL"`
}

type StorageConfig struct {
	Driver        string `toml:"driver" env:"DRIVER"`
	DSN           string `toml:"dsn" env:"DSN"`
	MaxConns      int32  `toml:"max_conns" env:"MAX_CONNS"`
	MinConns      int32  `toml:"min_conns" env:"MIN_CONNS"`
	RunMigrations bool   `toml:"run_migrations" env:"RUN_MIGRATIONS"`
}

type RedisConfig struct {
	Enabled       bool   `toml:"enabled" env:"ENABLED"`
	Addr          string `toml:"addr" env:"ADDR"`
	Password      string `toml:"password" env:"PASSWORD"`
	DB            int    `toml:"db" env:"DB"`
	ChannelPrefix string `toml:"channel_prefix" env:"CHANNEL_PREFIX"`
	InboxLength   int64  `toml:"inbox_length" env:"INBOX_LENGTH"`
}

type SchedulerConfig struct {
	Enabled     bool          `toml:"enabled" env:"ENABLED"`
	Interval    time.Duration `toml:"interval" env:"INTERVAL"`
	Concurrency int           `toml:"concurrency" env:"CONCURRENCY"`
	BatchSize   int           `toml:"batch_size" env:"BATCH_SIZE"`
}

type RetryConfig struct {
	MaxAttempts     uint          `toml:"max_attempts" env:"MAX_ATTEMPTS"`
	InitialInterval time.Duration `toml:"initial_interval" env:"INITIAL_INTERVAL"`
	MaxInterval     time.Duration `toml:"max_interval" env:"MAX_INTERVAL"`
}

type TracingConfig struct {
	Enabled     bool    `toml:"enabled" env:"ENABLED"`
	ServiceName string  `toml:"service_name" env:"SERVICE_NAME"`
	Environment string  `toml:"environment" env:"ENVIRONMENT"`
	SampleRatio float64 `toml:"sample_ratio" env:"SAMPLE_RATIO"`
}

type NotificationsConfig struct {
	Log       bool `toml:"log" env:"LOG"`
	WebSocket bool `toml:"websocket" env:"WEBSOCKET"`
}

// SeedConfig controls the demo data loaded into the memory store at startup
type SeedConfig struct {
	Enabled bool `toml:"enabled" env:"ENABLED"`
}

// Defaults returns a configuration that runs a self-contained in-memory marketplace
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			GinMode:         "release",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			JWTSecret: "change-me",
			Issuer:    "auction-marketplace",
			TokenTTL:  24 * time.Hour,
		},
		Storage: StorageConfig{
			Driver:        "memory",
			MaxConns:      10,
			MinConns:      1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			ChannelPrefix: "auction",
			InboxLength:   100,
		},
		Scheduler: SchedulerConfig{
			Enabled:     true,
			Interval:    time.Second,
			Concurrency: 4,
			BatchSize:   100,
		},
		Retry: RetryConfig{
			MaxAttempts:     5,
			InitialInterval: 2 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
		},
		Tracing: TracingConfig{
			ServiceName: "auction-marketplace",
			Environment: "development",
			SampleRatio: 1,
		},
		Notifications: NotificationsConfig{Log: true, WebSocket: true},
		Seed:          SeedConfig{Enabled: true},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (skipped when path is empty),
// then a .env file if present, then AUCTION_* environment variables. PORT is honoured for the listen address.
// The result is not validated.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv(envPrefix+"SERVER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	return cfg, nil
}

// Validate reports every invalid setting
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of memory, postgres", c.Storage.Driver))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Retry.MaxAttempts == 0 {
		errs = append(errs, errors.New("retry.max_attempts must be positive"))
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		errs = append(errs, errors.New("scheduler.interval must be positive"))
	}
	if c.Scheduler.Concurrency < 0 {
		errs = append(errs, errors.New("scheduler.concurrency must not be negative"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, errors.New("tracing.sample_ratio must be within [0, 1]"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
