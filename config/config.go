package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	DB_DRIVER=postgres
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=stockperf
//	LOG_LEVEL=info
//	QUOTES_DIR=./data/quotes
//	QUOTES_CRON="0 30 19 * * MON-FRI"
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Postgres PostgresConfig
	Log      LogConfig
	Quotes   QuotesConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // TCP port the HTTP server listens on
	RateLimitPerMinute int           // per client IP; negative disables
	RequestTimeout     time.Duration // deadline of each request context
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	SQLitePath string // file path or ":memory:"
}

// PostgresConfig defines connection details for PostgreSQL.
//
// URL is the computed DSN used by database/sql.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// LogConfig drives logger.Configure.
type LogConfig struct {
	Level  string
	Pretty bool
}

// QuotesConfig controls the daily quote import.
type QuotesConfig struct {
	Dir      string
	Cron     string // six fields, seconds first
	Days     int
	Parallel int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Missing required values terminate the process with the list of keys.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = fromViper()
	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")

	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("SQLITE_PATH", "stockperf.db")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "stockperf")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	viper.SetDefault("QUOTES_DIR", "./data/quotes")
	viper.SetDefault("QUOTES_CRON", "0 30 19 * * MON-FRI")
	viper.SetDefault("QUOTES_DAYS", 1)
	viper.SetDefault("QUOTES_PARALLEL", 0)
}

func fromViper() Config {
	cfg := Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(strings.TrimSpace(viper.GetString("DB_DRIVER"))),
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
		Quotes: QuotesConfig{
			Dir:      viper.GetString("QUOTES_DIR"),
			Cron:     viper.GetString("QUOTES_CRON"),
			Days:     viper.GetInt("QUOTES_DAYS"),
			Parallel: viper.GetInt("QUOTES_PARALLEL"),
		},
	}
	cfg.Postgres.URL = cfg.Postgres.DSN()
	return cfg
}

// DSN builds the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Missing lists the required keys without a usable value.
func (c Config) Missing() []string {
	var missing []string

	if c.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	switch c.Database.Driver {
	case "sqlite", "sqlite3":
		if c.Database.SQLitePath == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	case "postgres":
		if c.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if c.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if c.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		missing = append(missing, "DB_DRIVER")
	}
	return missing
}

// validateConfig terminates the application when required values are missing.
func validateConfig() {
	if missing := AppConfig.Missing(); len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
