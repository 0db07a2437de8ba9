package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Database agrupa los parámetros de conexión al storage.
type Database struct {
	Driver           string `mapstructure:"DB_DRIVER"`
	Host             string `mapstructure:"DB_HOST"`
	User             string `mapstructure:"DB_USER"`
	Password         string `mapstructure:"DB_PASSWORD"`
	Name             string `mapstructure:"DB_NAME"`
	Port             int    `mapstructure:"DB_PORT"`
	Charset          string `mapstructure:"DB_CHARSET"`
	ConnectTimeoutMS int    `mapstructure:"DB_CONNECT_TIMEOUT_MS"`
}

// ConnectTimeout es el timeout por intento de conexión.
func (d Database) ConnectTimeout() time.Duration {
	if d.ConnectTimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.ConnectTimeoutMS) * time.Millisecond
}

// EffectivePort resuelve el puerto por defecto de cada driver cuando DB_PORT no viene.
func (d Database) EffectivePort() int {
	if d.Port > 0 {
		return d.Port
	}
	switch d.Driver {
	case DriverMongo:
		return 27017
	default:
		return 5432
	}
}

type Redis struct {
	Addr     string `mapstructure:"REDIS_ADDR"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	LockDB   int    `mapstructure:"REDIS_LOCK_DB"`
}

// Config holds all configuration values.
type Config struct {
	Port            string `mapstructure:"PORT"`
	FrontendURL     string `mapstructure:"FRONTEND_URL"`
	Timezone        string `mapstructure:"TIMEZONE"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	LogFormat       string `mapstructure:"LOG_FORMAT"`
	AppName         string `mapstructure:"APP_NAME"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`

	Database Database `mapstructure:",squash"`
	Redis    Redis    `mapstructure:",squash"`
}

// Location devuelve la zona horaria usada para "hoy".
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

// Load lee env (y config.yaml si existe en . o ./config) sobre los defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("FRONTEND_URL", "*")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "personal-agenda")
	v.SetDefault("RATE_LIMIT_PER_MIN", 200)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "agenda_db")
	v.SetDefault("DB_PORT", 0)
	v.SetDefault("DB_CHARSET", "utf8")
	v.SetDefault("DB_CONNECT_TIMEOUT_MS", 10000)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_LOCK_DB", 0)
}

// Normalize completa valores vacíos con defaults razonables.
func (c *Config) Normalize() {
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if c.Port == "" {
		c.Port = "3000"
	}
	if strings.TrimSpace(c.FrontendURL) == "" {
		c.FrontendURL = "*"
	}
	if c.RateLimitPerMin <= 0 {
		c.RateLimitPerMin = 200
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.ConnectTimeoutMS <= 0 {
		c.Database.ConnectTimeoutMS = 10000
	}
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Addr es la dirección de escucha del http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}
