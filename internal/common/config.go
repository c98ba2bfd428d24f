package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"entgo.io/ent/dialect"

	"github.com/joseph-ayodele/jobs-tracker/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Records  RecordsConfig
	Log      LogConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
	AutoMigrate      bool
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
	GRPCAddr string
}

// RecordsConfig controls how job records are validated.
type RecordsConfig struct {
	ResultTypes  []string
	ResultPolicy string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	dsn := getEnv("DB_URL", "")
	driver := dialect.SQLite
	if dsn != "" {
		driver = dialect.Postgres
	}

	resultTypes := constants.ParseResultList(os.Getenv("JOBS_RESULT_TYPES"))
	if len(resultTypes) == 0 {
		resultTypes = constants.AsStringSlice()
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:           getEnv("DB_DRIVER", driver),
			DSN:              dsn,
			SQLitePath:       getEnv("SQLITE_PATH", "jobs.sqlite"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
			AutoMigrate:      getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			HTTPAddr: ":" + getEnv("PORT", "5000"),
			GRPCAddr: os.Getenv("GRPC_ADDR"),
		},
		Records: RecordsConfig{
			ResultTypes:  resultTypes,
			ResultPolicy: strings.ToLower(getEnv("JOBS_RESULT_POLICY", "lenient")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case dialect.Postgres:
		if c.Database.DSN == "" {
			return NewAppError(CodeConfig, "DB_URL is required for the postgres driver", ErrInvalidInput)
		}
	case dialect.SQLite:
		if c.Database.SQLitePath == "" {
			return NewAppError(CodeConfig, "SQLITE_PATH is required for the sqlite3 driver", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, "DB_DRIVER must be postgres or sqlite3", ErrInvalidInput)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return NewAppError(CodeConfig, "DB_MIN_CONNS cannot exceed DB_MAX_CONNS", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" || c.Server.HTTPAddr == ":" {
		return NewAppError(CodeConfig, "PORT is required", ErrInvalidInput)
	}
	switch c.Records.ResultPolicy {
	case "lenient", "strict":
	default:
		return NewAppError(CodeConfig, "JOBS_RESULT_POLICY must be lenient or strict", ErrInvalidInput)
	}
	return nil
}
