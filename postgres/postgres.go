package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migration/*.sql
var migrationFS embed.FS

// DB represents a connection pool to a (possibly hosted) Postgres database.
type DB struct {
	mu     sync.RWMutex
	pool   *pgxpool.Pool
	ctx    context.Context
	cancel func()

	url string
}

// NewDB returns new database
func NewDB(url string) *DB {
	db := &DB{
		url: url,
	}

	db.ctx, db.cancel = context.WithCancel(context.Background())

	return db
}

// Open connects to the database and applies pending migrations.
// It may be called again after a failure; the pool is kept only once migrations succeed.
func (db *DB) Open() error {
	if db.url == "" {
		return errors.New("url required")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		return nil
	}

	pool, err := pgxpool.New(db.ctx, db.url)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(db.ctx); err != nil {
		pool.Close()
		return fmt.Errorf("pinging postgres: %w", err)
	}

	if err := migrate(db.ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	db.pool = pool

	return nil
}

// conn returns the pool, or nil while the database is not open
func (db *DB) conn() *pgxpool.Pool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.pool
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	pool := db.conn()
	if pool == nil {
		return errors.New("database is not open")
	}
	return pool.Ping(ctx)
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migration/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		if err := migrateFile(ctx, pool, name); err != nil {
			return fmt.Errorf("migration error: name=%q, err=%w", name, err)
		}
	}

	return nil
}

func migrateFile(ctx context.Context, pool *pgxpool.Pool, name string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	buf, err := fs.ReadFile(migrationFS, name)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, string(buf)); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Close closes the connection pool
func (db *DB) Close() error {
	db.cancel()

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.pool != nil {
		db.pool.Close()
		db.pool = nil
	}

	return nil
}
