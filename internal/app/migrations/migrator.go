package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/db"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFiles embed.FS

// Migrator applies the versioned schema files for the session's dialect.
type Migrator struct {
	db     *db.DB
	files  fs.FS
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(database *db.DB, lgr zerolog.Logger) *Migrator {
	return &Migrator{
		db:     database,
		files:  migrationFiles,
		logger: lgr,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TEXT NOT NULL
	);`

	if _, err := m.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var count int
	query := m.db.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`)
	if err := m.db.GetContext(ctx, &count, query, version); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// Pending lists the versions not yet applied, in order.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}
	files, err := m.sqlFiles()
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, file := range files {
		applied, err := m.isMigrationApplied(ctx, versionOf(file))
		if err != nil {
			return nil, err
		}
		if !applied {
			pending = append(pending, versionOf(file))
		}
	}
	return pending, nil
}

// Migrate applies every pending migration in version order. Each file runs
// in its own transaction together with its schema_migrations row, so an
// interrupted run leaves the schema at the last fully applied version.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := m.sqlFiles()
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := m.apply(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, file string) error {
	version := versionOf(file)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("migration", path.Base(file)).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(m.files, file)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = m.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", path.Base(file), err)
		}
		insert := tx.Rebind(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, insert, version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("migration", path.Base(file)).Msg("Migration file successfully applied")
	return nil
}

// sqlFiles returns the dialect's migration files sorted by name.
func (m *Migrator) sqlFiles() ([]string, error) {
	dir := m.db.Dialect()
	entries, err := fs.ReadDir(m.files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// versionOf extracts the version prefix, e.g. "sqlite/001_init.sql" => "001".
func versionOf(file string) string {
	return strings.SplitN(path.Base(file), "_", 2)[0]
}
