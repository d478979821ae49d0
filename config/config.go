package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	LogLevel         string
	DB               DatabaseConfig
	JWTSecret        string
	RabbitMQURL      string
	RabbitMQExchange string
	CORSOrigins      []string
	TxTimeout        time.Duration
	LoyaltyPointUnit int64
	Seed             bool
}

type DatabaseConfig struct {
	Driver   string
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "orders_realtime"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		DB: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "mysql"),
			DSN:      os.Getenv("DB_DSN"),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "resto"),
		},
	}

	var err error
	if cfg.DB.Port, err = strconv.Atoi(getEnv("DB_PORT", defaultPort(cfg.DB.Driver))); err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	if cfg.TxTimeout, err = time.ParseDuration(getEnv("TX_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid TX_TIMEOUT: %w", err)
	}
	if cfg.LoyaltyPointUnit, err = strconv.ParseInt(getEnv("LOYALTY_POINT_UNIT", "10000"), 10, 64); err != nil || cfg.LoyaltyPointUnit <= 0 {
		return nil, fmt.Errorf("invalid LOYALTY_POINT_UNIT %q", os.Getenv("LOYALTY_POINT_UNIT"))
	}
	if cfg.Seed, err = strconv.ParseBool(getEnv("SEED", "false")); err != nil {
		return nil, fmt.Errorf("invalid SEED: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func (d DatabaseConfig) DataSource() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name)
	}
	// clientFoundRows makes RowsAffected count matched rows, which the
	// guarded order updates rely on.
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

func defaultPort(driver string) string {
	if driver == "postgres" {
		return "5432"
	}
	return "3306"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
