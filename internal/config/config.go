package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AppNameEnv  = "APP_NAME"
	PortEnv     = "PORT"
	LogLevelEnv = "LOG_LEVEL"

	DBDriverEnv       = "DB_DRIVER"
	DatabaseURLEnv    = "DATABASE_URL"
	DBHostEnv         = "DB_HOST"
	DBPortEnv         = "DB_PORT"
	DBUserEnv         = "DB_USER"
	DBPasswordEnv     = "DB_PASSWORD"
	DBNameEnv         = "DB_NAME"
	DBSSLModeEnv      = "DB_SSLMODE"
	DBTimeZoneEnv     = "DB_TIMEZONE"
	SQLitePathEnv     = "SQLITE_PATH"
	DBMetricsEnv      = "DB_METRICS_ENABLED"
	JWTSecretEnv      = "JWT_SECRET"
	JWTIssuerEnv      = "JWT_ISSUER"
	ImageBaseURLEnv   = "IMAGE_BASE_URL"
	PlaceholderURLEnv = "IMAGE_PLACEHOLDER_URL"
	ExtraCategoryEnv  = "CATALOG_EXTRA_CATEGORIES"

	// EnvFilePath points at the .env file to load (local/test only).
	EnvFilePath        = "ENV_PATH"
	DefaultEnvFilePath = ".env"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrMissingConfig is returned when required configuration values are missing.
	ErrMissingConfig = errors.New("missing config data")
	// ErrUnknownDriver is returned for DB_DRIVER values other than postgres/sqlite.
	ErrUnknownDriver = errors.New("unknown database driver")
)

// Config represents the application configuration.
type Config struct {
	AppName  string
	Port     string
	LogLevel string
	Database DB
	JWT      JWT
	Catalog  Catalog
}

// DB represents database configuration settings.
type DB struct {
	Driver         string
	URL            string
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	TimeZone       string
	SQLitePath     string
	MetricsEnabled bool
}

type JWT struct {
	Secret string
	Issuer string
}

// Catalog holds catalog presentation settings.
type Catalog struct {
	ImageBaseURL    string
	PlaceholderURL  string
	ExtraCategories []string
}

// DSN builds the PostgreSQL DSN unless DATABASE_URL is set.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

func allNonEmpty(keyValues map[string]string) error {
	for key, value := range keyValues {
		if value == "" {
			return fmt.Errorf("%w for key: %s", ErrMissingConfig, key)
		}
	}
	return nil
}

func allNumbers(keyValues map[string]string) error {
	for key, value := range keyValues {
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := allNumbers(map[string]string{PortEnv: c.Port}); err != nil {
		return fmt.Errorf("invalid port number: %w", err)
	}

	if err := allNonEmpty(map[string]string{JWTSecretEnv: c.JWT.Secret}); err != nil {
		return fmt.Errorf("auth configuration incomplete: %w", err)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if err := allNonEmpty(map[string]string{SQLitePathEnv: c.Database.SQLitePath}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
	case DriverPostgres:
		if c.Database.URL != "" {
			return nil
		}
		if err := allNonEmpty(map[string]string{
			DBHostEnv: c.Database.Host,
			DBUserEnv: c.Database.User,
			DBNameEnv: c.Database.Name,
		}); err != nil {
			return fmt.Errorf("database configuration incomplete: %w", err)
		}
		if err := allNumbers(map[string]string{DBPortEnv: c.Database.Port}); err != nil {
			return fmt.Errorf("invalid port number: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(name)); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsList(name string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ApplyEnvFile loads environment variables from the specified .env files.
func ApplyEnvFile(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and validates it.
// A missing .env file is not an error; every key may come from the process env.
func LoadFromEnv() (*Config, error) {
	_ = ApplyEnvFile(getEnv(EnvFilePath, DefaultEnvFilePath))

	conf := &Config{
		AppName:  getEnv(AppNameEnv, "Catalog Admin"),
		Port:     getEnv(PortEnv, "3000"),
		LogLevel: getEnv(LogLevelEnv, "info"),
		Database: DB{
			Driver:         strings.ToLower(getEnv(DBDriverEnv, DriverPostgres)),
			URL:            os.Getenv(DatabaseURLEnv),
			Host:           os.Getenv(DBHostEnv),
			Port:           getEnv(DBPortEnv, "5432"),
			User:           os.Getenv(DBUserEnv),
			Password:       os.Getenv(DBPasswordEnv),
			Name:           os.Getenv(DBNameEnv),
			SSLMode:        getEnv(DBSSLModeEnv, "disable"),
			TimeZone:       getEnv(DBTimeZoneEnv, "Asia/Jakarta"),
			SQLitePath:     getEnv(SQLitePathEnv, "catalog.db"),
			MetricsEnabled: getEnvAsBool(DBMetricsEnv, false),
		},
		JWT: JWT{
			Secret: os.Getenv(JWTSecretEnv),
			Issuer: getEnv(JWTIssuerEnv, "go-catalog-admin"),
		},
		Catalog: Catalog{
			ImageBaseURL:    getEnv(ImageBaseURLEnv, "/storage/products"),
			PlaceholderURL:  getEnv(PlaceholderURLEnv, "https://via.placeholder.com/300x200?text="),
			ExtraCategories: getEnvAsList(ExtraCategoryEnv),
		},
	}

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return conf, nil
}
