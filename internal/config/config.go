package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SalonBookingService/internal/risk"
)

type Config struct {
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Redis     RedisConfig     `toml:"redis"`
	Queue     QueueConfig     `toml:"queue"`
	Catalog   ServiceClient   `toml:"catalog"`
	Payments  PaymentsConfig  `toml:"payments"`
	Booking   BookingConfig   `toml:"booking"`
	Risk      RiskConfig      `toml:"risk"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
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

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type QueueConfig struct {
	Enabled     bool   `toml:"enabled"`
	Concurrency int    `toml:"concurrency"`
	Name        string `toml:"name"`
}

type ServiceClient struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type PaymentsConfig struct {
	Provider        string `toml:"provider"` // fake | stripe
	StripeSecretKey string `toml:"stripe_secret_key"`
	Currency        string `toml:"currency"`
}

type BookingConfig struct {
	Timezone          string `toml:"timezone"`
	AttemptTTLMinutes int    `toml:"attempt_ttl_minutes"` // сколько попытка хранится после окна оплаты
}

// RiskConfig веса скоринга риска неявки
type RiskConfig struct {
	BaseScore            int   `toml:"base_score"`
	FirstTimeCustomer    int   `toml:"first_time_customer"`
	NewAccount           int   `toml:"new_account"`
	NewAccountDays       int   `toml:"new_account_days"`
	NoShowPenalty        int   `toml:"no_show_penalty"`
	NoShowCap            int   `toml:"no_show_cap"`
	CompletedCredit      int   `toml:"completed_credit"`
	CompletedCreditCap   int   `toml:"completed_credit_cap"`
	VeryShortLeadHours   int   `toml:"very_short_lead_hours"`
	VeryShortLeadPenalty int   `toml:"very_short_lead_penalty"`
	ShortLeadHours       int   `toml:"short_lead_hours"`
	ShortLeadPenalty     int   `toml:"short_lead_penalty"`
	LongLeadDays         int   `toml:"long_lead_days"`
	LongLeadCredit       int   `toml:"long_lead_credit"`
	HighPrice            int64 `toml:"high_price"`
	HighPricePenalty     int   `toml:"high_price_penalty"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает .env (если есть), TOML-файл и переменные окружения с секретами
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "salon-booking"},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Queue:    QueueConfig{Enabled: true, Concurrency: 5, Name: "booking"},
		Catalog:  ServiceClient{Timeout: 5},
		Payments: PaymentsConfig{Provider: "fake", Currency: "usd"},
		Booking:  BookingConfig{Timezone: "UTC", AttemptTTLMinutes: 24 * 60},
		Risk: RiskConfig{
			BaseScore:            10,
			FirstTimeCustomer:    25,
			NewAccount:           10,
			NewAccountDays:       30,
			NoShowPenalty:        20,
			NoShowCap:            40,
			CompletedCredit:      3,
			CompletedCreditCap:   15,
			VeryShortLeadHours:   2,
			VeryShortLeadPenalty: 25,
			ShortLeadHours:       24,
			ShortLeadPenalty:     15,
			LongLeadDays:         7,
			LongLeadCredit:       10,
			HighPrice:            10000,
			HighPricePenalty:     15,
		},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 5, Burst: 10},
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Payments.StripeSecretKey = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	}
	if c.Catalog.URL == "" {
		return errors.New("config: catalog.url is required")
	}
	switch c.Payments.Provider {
	case "fake":
	case "stripe":
		if c.Payments.StripeSecretKey == "" {
			return errors.New("config: payments.stripe_secret_key is required for stripe provider")
		}
	default:
		return fmt.Errorf("config: unknown payments.provider %q", c.Payments.Provider)
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("config: invalid booking.timezone %q: %v", c.Booking.Timezone, err)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("config: rate_limit requires positive requests_per_second and burst")
	}
	return nil
}

// Location часовой пояс по умолчанию для мастеров без своей зоны
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AttemptTTL время хранения попытки бронирования в redis
func (c *Config) AttemptTTL() time.Duration {
	return time.Duration(c.Booking.AttemptTTLMinutes) * time.Minute
}

// Weights переводит настройки из TOML в веса скоринга
func (r RiskConfig) Weights() risk.Weights {
	return risk.Weights{
		BaseScore:            r.BaseScore,
		FirstTimeCustomer:    r.FirstTimeCustomer,
		NewAccount:           r.NewAccount,
		NewAccountAge:        time.Duration(r.NewAccountDays) * 24 * time.Hour,
		NoShowPenalty:        r.NoShowPenalty,
		NoShowCap:            r.NoShowCap,
		CompletedCredit:      r.CompletedCredit,
		CompletedCreditCap:   r.CompletedCreditCap,
		VeryShortLead:        time.Duration(r.VeryShortLeadHours) * time.Hour,
		VeryShortLeadPenalty: r.VeryShortLeadPenalty,
		ShortLead:            time.Duration(r.ShortLeadHours) * time.Hour,
		ShortLeadPenalty:     r.ShortLeadPenalty,
		LongLead:             time.Duration(r.LongLeadDays) * 24 * time.Hour,
		LongLeadCredit:       r.LongLeadCredit,
		HighPrice:            r.HighPrice,
		HighPricePenalty:     r.HighPricePenalty,
	}
}
