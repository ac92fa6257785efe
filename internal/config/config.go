package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Redis          RedisConfig       `toml:"redis"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	Booking        BookingConfig     `toml:"booking"`
	RateLimit      RateLimitConfig   `toml:"rate_limit"`
	UserService    IntegrationConfig `toml:"user_service"`
	CatalogService IntegrationConfig `toml:"catalog_service"`
}

// ServerConfig HTTP сервер. Таймауты в секундах.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig PostgreSQL. При enabled = false используется хранилище в памяти.
type DatabaseConfig struct {
	Enabled         bool   `toml:"enabled"`
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

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig распределённые блокировки и публикация событий.
// При enabled = false блокировки работают внутри процесса.
type RedisConfig struct {
	Enabled       bool   `toml:"enabled"`
	Addr          string `toml:"addr"`
	Password      string `toml:"password"`
	DB            int    `toml:"db"`
	LockPrefix    string `toml:"lock_prefix"`
	EventsChannel string `toml:"events_channel"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры расписания и бронирований
type BookingConfig struct {
	Timezone           string `toml:"timezone"`
	DefaultSlotMinutes int    `toml:"default_slot_minutes"`
	MinNoticeMinutes   int    `toml:"min_notice_minutes"`
	MaxRangeDays       int    `toml:"max_range_days"`
	LockWaitMs         int    `toml:"lock_wait_ms"`
	LockTTLMs          int    `toml:"lock_ttl_ms"`
}

// Location часовой пояс специалистов
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c BookingConfig) MinNotice() time.Duration {
	return time.Duration(c.MinNoticeMinutes) * time.Minute
}

func (c BookingConfig) LockWait() time.Duration {
	return time.Duration(c.LockWaitMs) * time.Millisecond
}

func (c BookingConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMs) * time.Millisecond
}

// RateLimitConfig ограничение запросов на клиента
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	TTLSeconds        int     `toml:"ttl_seconds"`
}

// IntegrationConfig внешний HTTP сервис. Timeout в секундах.
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию.
// Секреты можно переопределить переменными окружения DB_PASSWORD и REDIS_PASSWORD.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			LockPrefix:    "appointments:lock:",
			EventsChannel: "bookings.status",
		},
		Logs: LogsConfig{
			File:  "logs/app.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment_service",
		},
		Booking: BookingConfig{
			Timezone:           "UTC",
			DefaultSlotMinutes: 30,
			MinNoticeMinutes:   0,
			MaxRangeDays:       62,
			LockWaitMs:         2000,
			LockTTLMs:          10000,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			TTLSeconds:        600,
		},
		UserService: IntegrationConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		CatalogService: IntegrationConfig{
			URL:     "http://localhost:8082",
			Timeout: 5,
		},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

// Validate проверяет значения, от которых зависит запуск
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("invalid booking.timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Booking.DefaultSlotMinutes <= 0 {
		return fmt.Errorf("invalid booking.default_slot_minutes: %d", c.Booking.DefaultSlotMinutes)
	}
	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("invalid booking.min_notice_minutes: %d", c.Booking.MinNoticeMinutes)
	}
	if c.Booking.MaxRangeDays <= 0 {
		return fmt.Errorf("invalid booking.max_range_days: %d", c.Booking.MaxRangeDays)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid rate_limit: rps=%v burst=%d", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}
	return nil
}
