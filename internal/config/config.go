package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ReferenceSource selects where the reference credential is read from at startup.
type ReferenceSource string

const (
	ReferenceSourceEnv      ReferenceSource = "env"
	ReferenceSourcePostgres ReferenceSource = "postgres"
	ReferenceSourceRedis    ReferenceSource = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Reference ReferenceConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	LoginPath             string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ReferenceConfig describes the credential pair the verifier accepts.
// Username and Password are only consulted for the env source.
type ReferenceConfig struct {
	Source   ReferenceSource
	Username string
	Password string
	Key      string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	source := ReferenceSource(strings.ToLower(getEnv("REFERENCE_SOURCE", string(ReferenceSourceEnv))))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "credential-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "127.0.0.1"),
			Port:                  getEnv("APP_PORT", "5003"),
			Version:               getEnv("APP_VERSION", "dev"),
			LoginPath:             getEnv("APP_LOGIN_PATH", "/login"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 64*1024),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Reference: ReferenceConfig{
			Source:   source,
			Username: getEnvRaw("REFERENCE_USERNAME", "user"),
			Password: getEnvRaw("REFERENCE_PASSWORD", "password"),
			Key:      getEnv("REFERENCE_KEY", "default"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 1)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "credential:reference:"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Reference.Source {
	case ReferenceSourceEnv, ReferenceSourceRedis:
	case ReferenceSourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("REFERENCE_SOURCE=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("invalid REFERENCE_SOURCE %q", c.Reference.Source)
	}
	if !strings.HasPrefix(c.App.LoginPath, "/") {
		return fmt.Errorf("invalid APP_LOGIN_PATH %q: must start with /", c.App.LoginPath)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvRaw distinguishes an unset variable from one explicitly set to "".
func getEnvRaw(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
