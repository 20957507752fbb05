package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// Хранилища и блокировки
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	LockRedis = "redis"
	LockLocal = "local"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml + переменные окружения)
type Config struct {
	Server    ServerConfig   `toml:"server"`
	Database  DatabaseConfig `toml:"database"`
	Logs      LogsConfig     `toml:"logs"`
	Metrics   MetricsConfig  `toml:"metrics"`
	Auth      AuthConfig     `toml:"auth"`
	Directory ServiceConfig  `toml:"directory"`
	Notifier  NotifierConfig `toml:"notifier"`
	Mail      MailConfig     `toml:"mail"`
	Lock      LockConfig     `toml:"lock"`
	Redis     RedisConfig    `toml:"redis"`
	Booking   BookingConfig  `toml:"booking"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

// ServiceConfig внешний HTTP-сервис, Timeout в секундах
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type NotifierConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type MailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	SSL      bool   `toml:"ssl"`
	Timeout  int    `toml:"timeout"`
}

// LockConfig TTL и ожидание в миллисекундах
type LockConfig struct {
	Backend string `toml:"backend"`
	TTL     int    `toml:"ttl_ms"`
	Wait    int    `toml:"wait_ms"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type BookingConfig struct {
	DefaultSlots  []string `toml:"default_slots"`
	PhoneRegion   string   `toml:"phone_region"`
	NotifyTimeout int      `toml:"notify_timeout"` // секунды
}

// Load читает .env (если есть), затем TOML-файл и применяет переменные окружения
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			QueryTimeout:    5,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{ServiceName: "hospital_booking", Path: "/metrics"},
		Lock:    LockConfig{Backend: LockLocal, TTL: 5000, Wait: 2000},
		Booking: BookingConfig{
			DefaultSlots:  slices.Clone(domain.DefaultSlots),
			PhoneRegion:   "US",
			NotifyTimeout: 10,
		},
	}
}

// applyEnv переопределяет секреты и порт из окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database host, user and dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}

	if c.Directory.URL == "" {
		return fmt.Errorf("%w: directory.url is required", ErrInvalidConfig)
	}
	if c.Notifier.Enabled && c.Notifier.URL == "" {
		return fmt.Errorf("%w: notifier.url is required when notifier is enabled", ErrInvalidConfig)
	}
	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		return fmt.Errorf("%w: mail host and from are required when mail is enabled", ErrInvalidConfig)
	}

	switch c.Lock.Backend {
	case LockRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for redis lock backend", ErrInvalidConfig)
		}
	case LockLocal:
	default:
		return fmt.Errorf("%w: unknown lock.backend %q", ErrInvalidConfig, c.Lock.Backend)
	}

	if len(c.Booking.DefaultSlots) == 0 {
		return fmt.Errorf("%w: booking.default_slots must not be empty", ErrInvalidConfig)
	}
	if err := domain.ValidateTimeLabels(c.Booking.DefaultSlots); err != nil {
		return fmt.Errorf("%w: booking.default_slots: %v", ErrInvalidConfig, err)
	}

	return nil
}

func (c LockConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Millisecond
}

func (c LockConfig) WaitDuration() time.Duration {
	return time.Duration(c.Wait) * time.Millisecond
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c ServiceConfig) TimeoutDuration() time.Duration { return seconds(c.Timeout) }

func (c DatabaseConfig) QueryTimeoutDuration() time.Duration { return seconds(c.QueryTimeout) }

func (c BookingConfig) NotifyTimeoutDuration() time.Duration { return seconds(c.NotifyTimeout) }
