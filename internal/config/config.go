package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"holidaytracker/internal/auth"
)

const (
	// StoreGorm persists users and holidays in a relational database through GORM.
	StoreGorm = "gorm"
	// StoreFile persists users and holidays in a single JSON document on disk.
	StoreFile = "file"

	defaultJWTSecret = "change-me"
)

// Config holds application level configuration loaded from environment variables
// and an optional config file.
type Config struct {
	Env         string
	ServerPort  string
	CORSOrigins []string
	SwaggerHost string

	Store    string
	DBDriver string
	DBDSN    string
	DataFile string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	Argon2Memory      uint32
	Argon2Iterations  uint32
	Argon2Parallelism uint

	SentryDSN string
	SentryEnv string

	LogLevel  string
	LogFormat string
}

// Load builds Config from the environment (and .env, when present) with sensible defaults.
func Load() (*Config, error) {
	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Env:         v.GetString("APP_ENV"),
		ServerPort:  v.GetString("PORT"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		SwaggerHost: v.GetString("SWAGGER_HOST"),

		Store:    strings.ToLower(v.GetString("STORE")),
		DBDriver: strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:    v.GetString("DB_DSN"),
		DataFile: v.GetString("DATA_FILE"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),
		RedisPass: v.GetString("REDIS_PASSWORD"),
		CacheTTL:  v.GetDuration("CACHE_TTL"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTIssuer: v.GetString("JWT_ISSUER"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		Argon2Memory:      v.GetUint32("ARGON2_MEMORY"),
		Argon2Iterations:  v.GetUint32("ARGON2_ITERATIONS"),
		Argon2Parallelism: v.GetUint("ARGON2_PARALLELISM"),

		SentryDSN: v.GetString("SENTRY_DSN"),
		SentryEnv: v.GetString("SENTRY_ENVIRONMENT"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}
	if cfg.SentryEnv == "" {
		cfg.SentryEnv = cfg.Env
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STORE", StoreGorm)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "data/holidays.db")
	v.SetDefault("DATA_FILE", "data/data.json")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "holidaytracker")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ARGON2_MEMORY", 64*1024)
	v.SetDefault("ARGON2_ITERATIONS", 3)
	v.SetDefault("ARGON2_PARALLELISM", 2)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// IsDevelopment reports whether the service runs with development defaults allowed.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "test"
}

// Validate checks the combination of settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTSecret == defaultJWTSecret && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET must be changed from the default in %s", c.Env)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}

	switch c.Store {
	case StoreGorm:
		switch c.DBDriver {
		case "mysql", "postgres", "sqlite":
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
		}
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required")
		}
	case StoreFile:
		if c.DataFile == "" {
			return errors.New("DATA_FILE is required")
		}
	default:
		return fmt.Errorf("unsupported STORE %q", c.Store)
	}

	if c.Argon2Memory == 0 || c.Argon2Iterations == 0 || c.Argon2Parallelism == 0 {
		return errors.New("argon2 parameters must be positive")
	}
	if c.Argon2Memory > auth.MaxArgon2Memory {
		return fmt.Errorf("ARGON2_MEMORY must be at most %d KiB, got %d", auth.MaxArgon2Memory, c.Argon2Memory)
	}
	if c.Argon2Iterations > auth.MaxArgon2Iterations {
		return fmt.Errorf("ARGON2_ITERATIONS must be at most %d, got %d", auth.MaxArgon2Iterations, c.Argon2Iterations)
	}
	if c.Argon2Parallelism > math.MaxUint8 {
		return fmt.Errorf("ARGON2_PARALLELISM must be at most %d, got %d", math.MaxUint8, c.Argon2Parallelism)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
