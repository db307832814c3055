package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migration/*.sql
var migrationFS embed.FS

// DB represents a local SQLite database file.
type DB struct {
	mu     sync.RWMutex
	sqlDB  *sql.DB
	ctx    context.Context
	cancel func()

	path string
}

// NewDB returns new database
func NewDB(path string) *DB {
	db := &DB{
		path: path,
	}

	db.ctx, db.cancel = context.WithCancel(context.Background())

	return db
}

// Open opens the database file and applies pending migrations.
// The handle is kept only once migrations succeed, so a failed Open can be retried.
func (db *DB) Open() error {
	if db.path == "" {
		return errors.New("path required")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.sqlDB != nil {
		return nil
	}

	sqlDB, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return err
	}

	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	db.sqlDB = sqlDB

	return nil
}

// conn returns the handle, or nil while the database is not open
func (db *DB) conn() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sqlDB
}

func (db *DB) migrate(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("cannot create migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migration/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		if err := db.migrateFile(sqlDB, name); err != nil {
			return fmt.Errorf("migration error: name=%q, err=%w", name, err)
		}
	}

	return nil
}

func (db *DB) migrateFile(sqlDB *sql.DB, name string) error {
	tx, err := sqlDB.BeginTx(db.ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var n int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM migrations WHERE name = ?`, name).Scan(&n); err != nil {
		return err
	}
	if n != 0 {
		return nil
	}

	buf, err := fs.ReadFile(migrationFS, name)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(string(buf)); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT INTO migrations (name) VALUES (?)`, name); err != nil {
		return err
	}

	return tx.Commit()
}

// Ping checks that the database file is usable
func (db *DB) Ping(ctx context.Context) error {
	sqlDB := db.conn()
	if sqlDB == nil {
		return errors.New("database is not open")
	}
	return sqlDB.PingContext(ctx)
}

// Close closes database connection
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.sqlDB == nil {
		return nil
	}

	db.cancel()

	err := db.sqlDB.Close()
	db.sqlDB = nil
	return err
}
