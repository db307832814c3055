package bolt

import (
	"context"
	"errors"
	"sync"

	"github.com/asdine/storm/v3"
)

// DB represents a BoltDB file managed through storm
type DB struct {
	mu      sync.RWMutex
	path    string
	stormDB *storm.DB
	ctx     context.Context
	cancel  func()
}

// NewDB returns new database
func NewDB(path string) *DB {
	db := &DB{
		path: path,
	}

	db.ctx, db.cancel = context.WithCancel(context.Background())

	return db
}

// Open opens new database connection
func (db *DB) Open() error {
	if db.path == "" {
		return errors.New("path required")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.stormDB != nil {
		return nil
	}

	stormDB, err := storm.Open(db.path)
	if err != nil {
		return err
	}
	db.stormDB = stormDB

	return nil
}

// conn returns the storm handle, or nil while the database is not open
func (db *DB) conn() *storm.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.stormDB
}

// Ping checks that the bolt file is open and readable
func (db *DB) Ping(ctx context.Context) error {
	stormDB := db.conn()
	if stormDB == nil {
		return errors.New("database is not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := stormDB.Bolt.Begin(false)
	if err != nil {
		return err
	}
	return tx.Rollback()
}

// Close closes database connection
func (db *DB) Close() error {
	db.cancel()

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.stormDB == nil {
		return nil
	}

	err := db.stormDB.Close()
	db.stormDB = nil
	return err
}
