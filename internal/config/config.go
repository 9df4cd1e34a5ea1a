package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	WhatsApp  WhatsAppConfig
	Scheduler SchedulerConfig
	Storage   StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	Timezone       string
	AllowedOrigins []string
}

type WhatsAppConfig struct {
	APIURL  string
	GroupID string
	// Driver is one of http, console or noop.
	Driver  string
	Timeout time.Duration
}

type SchedulerConfig struct {
	Enabled    bool
	RecapDelay time.Duration
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Info("No .env file found, using environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	maxConnLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}
	maxConnIdleTime, err := time.ParseDuration(getEnv("DB_MAX_CONN_IDLE_TIME", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_IDLE_TIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "fashion_school"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        maxConns,
		MinConns:        minConns,
		MaxConnLifetime: maxConnLifetime,
		MaxConnIdleTime: maxConnIdleTime,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:       getEnv("TIMEZONE", "Asia/Jakarta"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// WhatsApp gateway
	waTimeout, err := time.ParseDuration(getEnv("WA_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WA_TIMEOUT: %w", err)
	}
	config.WhatsApp = WhatsAppConfig{
		APIURL:  getEnv("WA_API_URL", "http://wabot:3000"),
		GroupID: getEnv("WA_GROUP_ID", ""),
		Driver:  strings.ToLower(getEnv("WA_DRIVER", "http")),
		Timeout: waTimeout,
	}

	// Scheduler
	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}
	recapDelay, err := time.ParseDuration(getEnv("RECAP_DELAY", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECAP_DELAY: %w", err)
	}
	config.Scheduler = SchedulerConfig{
		Enabled:    schedulerEnabled,
		RecapDelay: recapDelay,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.App.Timezone, err)
	}
	switch c.WhatsApp.Driver {
	case "http":
		if c.WhatsApp.APIURL == "" {
			return fmt.Errorf("WA_API_URL is required for the http driver")
		}
	case "console", "noop":
	default:
		return fmt.Errorf("WA_DRIVER must be one of: http, console, noop")
	}
	if c.Scheduler.RecapDelay < 0 {
		return fmt.Errorf("RECAP_DELAY must not be negative")
	}
	return nil
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PoolSettings sizes the connection pool and pins every session to the
// school timezone.
func (c *Config) PoolSettings(appName string) database.PoolSettings {
	return database.PoolSettings{
		MaxConns:        int32(c.Database.MaxConns),
		MinConns:        int32(c.Database.MinConns),
		MaxConnLifetime: c.Database.MaxConnLifetime,
		MaxConnIdleTime: c.Database.MaxConnIdleTime,
		Timezone:        c.App.Timezone,
		ApplicationName: appName,
	}
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
