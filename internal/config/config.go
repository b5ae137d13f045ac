package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Supported email providers.
const (
	EmailConsole  = "console"
	EmailSMTP     = "smtp"
	EmailSendGrid = "sendgrid"
)

// Config structure represents the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		ExportDir string `yaml:"export_dir" env:"EXPORT_DIR"`
	} `yaml:"storage"`

	Email EmailConfig `yaml:"email"`

	Seed struct {
		AdminUserID      string `yaml:"admin_user_id" env:"SEED_ADMIN_USER_ID"`
		AdminPassword    string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminDisplayName string `yaml:"admin_display_name" env:"SEED_ADMIN_NAME"`
	} `yaml:"seed"`
}

// DatabaseConfig selects and tunes the record store.
type DatabaseConfig struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER"`
	Path            string `yaml:"path" env:"DB_PATH"`
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

// EmailConfig configures the outgoing mail boundary.
type EmailConfig struct {
	Provider    string `yaml:"provider" env:"EMAIL_PROVIDER"`
	Host        string `yaml:"host" env:"SMTP_HOST"`
	Port        int    `yaml:"port" env:"SMTP_PORT"`
	Username    string `yaml:"username" env:"SMTP_USERNAME"`
	Password    string `yaml:"password" env:"SMTP_PASSWORD"`
	UseTLS      bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	FromName    string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	FromEmail   string `yaml:"from_email" env:"EMAIL_FROM"`
	SendGridKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	Timeout     string `yaml:"timeout" env:"EMAIL_TIMEOUT"`
}

// LoadConfig loads configuration from a file, an optional .env file and
// environment variables, in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := processStructFields(config, ""); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Database.Driver = DriverSQLite
	config.Database.Path = "student_management.db"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.DBName = "studentrecords"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 5
	config.Database.ConnMaxLifetime = "1h"

	config.Logging.Level = "info"
	config.Logging.Format = "text"

	config.Storage.ExportDir = "exports"

	config.Email.Provider = EmailConsole
	config.Email.Port = 587
	config.Email.FromName = "Student Records Office"
	config.Email.Timeout = "30s"

	config.Seed.AdminUserID = "admin"
	config.Seed.AdminPassword = "admin123"
	config.Seed.AdminDisplayName = "Administrator"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(config.Database.Path) == "" {
			return fmt.Errorf("database path is required for %s", DriverSQLite)
		}
	case DriverPostgres, "postgres":
		config.Database.Driver = DriverPostgres
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}

	switch config.Email.Provider {
	case EmailConsole, EmailSMTP:
	case EmailSendGrid:
		if config.Email.SendGridKey == "" {
			return fmt.Errorf("sendgrid api key is required for the sendgrid provider")
		}
	default:
		return fmt.Errorf("unsupported email provider %q", config.Email.Provider)
	}

	timeout, err := time.ParseDuration(config.Email.Timeout)
	if err != nil {
		return fmt.Errorf("invalid email timeout format: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("email timeout must be positive")
	}

	if strings.TrimSpace(config.Storage.ExportDir) == "" {
		return fmt.Errorf("export directory is required")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetSQLiteDSN returns the SQLite data source name with foreign keys enforced.
func (c *Config) GetSQLiteDSN() string {
	path := c.Database.Path
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + "_foreign_keys=on&_busy_timeout=5000"
	}
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000"
}
