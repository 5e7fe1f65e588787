package config

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTPPort       string
	PostgresDSN    string
	JWTSecret      string
	RedisURL       string
	InternalAPIKey string
	StorageDriver  string
	DBAutoMigrate  bool
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxIdle  time.Duration
	DBConnMaxLife  time.Duration
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads the configuration from the environment. Call Validate before use.
func Load() *Config {
	return LoadWithViper(newViper())
}

func LoadWithViper(v *viper.Viper) *Config {
	return &Config{
		HTTPPort:       v.GetString("HTTP_PORT"),
		PostgresDSN:    v.GetString("DATABASE_URL"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RedisURL:       v.GetString("REDIS_URL"),
		InternalAPIKey: v.GetString("INTERNAL_API_KEY"),
		StorageDriver:  strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DBAutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxIdle:  v.GetDuration("DB_CONN_MAX_IDLE"),
		DBConnMaxLife:  v.GetDuration("DB_CONN_MAX_LIFE"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_IDLE", 5*time.Minute)
	v.SetDefault("DB_CONN_MAX_LIFE", 30*time.Minute)
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageDriverMemory:
	default:
		return errors.Newf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.DBMaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	return nil
}
