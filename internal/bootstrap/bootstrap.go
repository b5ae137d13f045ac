package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appMigrations "github.com/yigit/studentrecords/internal/app/migrations"
	appRepos "github.com/yigit/studentrecords/internal/app/repositories"
	appServices "github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/email"
	"github.com/yigit/studentrecords/internal/pkg/export"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/seed"
)

// ConfigPathEnv overrides the default configuration file location.
const ConfigPathEnv = "RECORDS_CONFIG"

const defaultEmailTimeout = 30 * time.Second

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config      *config.Config
	DB          *db.DB
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	Exporter    *export.Engine
	Sender      email.Sender
	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger
}

// Close releases the database connection.
func (d *Dependencies) Close() error {
	if d.DB == nil {
		return nil
	}
	d.Logger.Debug().Msg("Closing database connection...")
	return d.DB.Close()
}

// ConfigPath returns the configuration file to load.
func ConfigPath() string {
	if p := os.Getenv(ConfigPathEnv); p != "" {
		return p
	}
	return filepath.Join("configs", "config.yaml")
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Logger()
	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the record store and brings its schema up to date.
// A failure to connect or migrate is fatal; seeding problems are logged
// and startup continues.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.DB, error) {
	lgr.Debug().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	database, err := db.Open(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	if err := Migrate(context.Background(), cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Migrate applies pending migrations and creates the default data.
func Migrate(ctx context.Context, cfg *config.Config, database *db.DB, lgr zerolog.Logger) error {
	if err := appMigrations.NewMigrator(database, lgr).Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, database, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
	return nil
}

// EmailConfig maps the configuration onto the email package settings.
func EmailConfig(cfg *config.Config) email.Config {
	return email.Config{
		Provider:    cfg.Email.Provider,
		Host:        cfg.Email.Host,
		Port:        cfg.Email.Port,
		Username:    cfg.Email.Username,
		Password:    cfg.Email.Password,
		UseTLS:      cfg.Email.UseTLS,
		FromName:    cfg.Email.FromName,
		FromEmail:   cfg.Email.FromEmail,
		SendGridKey: cfg.Email.SendGridKey,
	}
}

// BuildDependencies initializes repositories, services and the delivery
// collaborators on top of an open database.
func BuildDependencies(cfg *config.Config, database *db.DB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, DB: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.ExportDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Sender, err = email.NewSender(EmailConfig(cfg), logger.WithComponent(lgr, "email"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize email sender")
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	deps.Exporter = export.NewEngine(logger.WithComponent(lgr, "export"))

	deps.Services = appServices.NewServices(deps.Repos, appServices.Delivery{
		Exporter:     deps.Exporter,
		Sender:       deps.Sender,
		Storage:      deps.FileStorage,
		EmailTimeout: helpers.ParseDuration(cfg.Email.Timeout, defaultEmailTimeout),
	}, lgr)

	return deps, nil
}

// Setup runs the whole startup sequence and returns ready dependencies.
func Setup(configPath string) (*Dependencies, error) {
	cfg, lgr, err := LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := BuildDependencies(cfg, database, lgr)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to setup dependencies: %w", err), database.Close())
	}
	return deps, nil
}
