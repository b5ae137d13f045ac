package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// DB is the record store session handed to every repository.
type DB struct {
	*sqlx.DB
	driver string
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sqlx.Tx) error

// Open connects to the configured engine and verifies the connection.
// This is the only failure that prevents the application from starting.
func Open(cfg *config.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var dsn string
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dsn = cfg.GetSQLiteDSN()
	case config.DriverPostgres:
		dsn = cfg.GetPostgresConnectionString()
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	conn, err := sqlx.ConnectContext(ctx, cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// A single connection keeps in-memory databases alive and
		// serialises writers the way SQLite expects.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	} else {
		maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
		}
		conn.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		conn.SetConnMaxLifetime(maxLifetime)
	}

	return &DB{DB: conn, driver: cfg.Database.Driver}, nil
}

// New wraps an existing connection.
func New(conn *sqlx.DB) *DB {
	return &DB{DB: conn, driver: conn.DriverName()}
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

// Dialect returns the migration directory name for the engine.
func (db *DB) Dialect() string {
	if db.driver == config.DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Builder returns a squirrel statement builder using the engine's placeholders.
func (db *DB) Builder() squirrel.StatementBuilderType {
	if db.driver == config.DriverPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	return db.DB.Close()
}

// WithTransaction runs fn within a transaction. The transaction is rolled
// back when fn returns an error or panics and committed otherwise. fn must
// use tx for every statement.
func (db *DB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
