package db

import (
	"context"
	"errors"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/config"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = "file:" + t.Name() + "?mode=memory&cache=shared"

	database, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return database
}

func countItems(t *testing.T, database *DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM items`))
	return n
}

func TestWithTransactionCommits(t *testing.T) {
	database := openMemory(t)

	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a'), ('b')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countItems(t, database))
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	database := openMemory(t)
	boom := errors.New("boom")

	err := database.WithTransaction(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countItems(t, database))
}

func TestWithTransactionRollsBackOnPanic(t *testing.T) {
	database := openMemory(t)

	assert.Panics(t, func() {
		_ = database.WithTransaction(context.Background(), func(ctx context.Context, tx *sqlx.Tx) error {
			_, _ = tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`)
			panic("kaboom")
		})
	})
	// The connection was released: a fresh statement can run.
	assert.Equal(t, 0, countItems(t, database))
}

func TestBuilderPlaceholders(t *testing.T) {
	sqliteDB := &DB{driver: config.DriverSQLite}
	pgDB := &DB{driver: config.DriverPostgres}

	q, _, err := sqliteDB.Builder().Select("id").From("items").Where(squirrel.Eq{"name": "a"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM items WHERE name = ?", q)

	q, _, err = pgDB.Builder().Select("id").From("items").Where(squirrel.Eq{"name": "a"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM items WHERE name = $1", q)

	assert.Equal(t, "sqlite", sqliteDB.Dialect())
	assert.Equal(t, "postgres", pgDB.Dialect())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "oracle"
	_, err := Open(cfg)
	assert.Error(t, err)
}
