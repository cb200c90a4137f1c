package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-MarketplaceService/internal/domain"
	"github.com/m04kA/SMC-MarketplaceService/internal/timezone"
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	Booking   BookingConfig   `toml:"booking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Admin     AdminConfig     `toml:"admin"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки распределенной блокировки слотов
type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

// BookingConfig правила бронирования
type BookingConfig struct {
	SlotCadenceMinutes int    `toml:"slot_cadence_minutes"`
	DefaultTimezone    string `toml:"default_timezone"`
}

// RateLimitConfig ограничение частоты создания бронирований на IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// AdminConfig пользователи с правами администратора платформы
type AdminConfig struct {
	UserIDs []int64 `toml:"user_ids"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переменные окружения, затем валидирует результат
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc-marketplace-service"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.LockTTLSeconds == 0 {
		c.Redis.LockTTLSeconds = 10
	}

	if c.Booking.SlotCadenceMinutes == 0 {
		c.Booking.SlotCadenceMinutes = domain.DefaultSlotCadenceMinutes
	}
	if c.Booking.DefaultTimezone == "" {
		c.Booking.DefaultTimezone = domain.DefaultTimezone
	}

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
}

func (c *Config) applyEnv() {
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d is out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, errors.New("database.max_idle_conns must not exceed max_open_conns"))
	}
	if c.Booking.SlotCadenceMinutes < 0 || c.Booking.SlotCadenceMinutes > 24*60 {
		errs = append(errs, fmt.Errorf("booking.slot_cadence_minutes %d is out of range", c.Booking.SlotCadenceMinutes))
	}
	if !timezone.IsValid(c.Booking.DefaultTimezone) {
		errs = append(errs, fmt.Errorf("booking.default_timezone %q is not a known IANA zone", c.Booking.DefaultTimezone))
	}
	if c.Redis.LockTTLSeconds < 0 {
		errs = append(errs, errors.New("redis.lock_ttl_seconds must be positive"))
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must be positive"))
	}

	return errors.Join(errs...)
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LockTTL время жизни блокировки слота
func (r RedisConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLSeconds) * time.Second
}
