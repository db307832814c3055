package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantonganh/leadmagnet"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db := NewDB(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestAdd(t *testing.T) {
	db := openTestDB(t)
	ss := NewSubscriberService(db)

	s, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Existing())
	assert.Equal(t, "Jane Doe", s.FullName)
	assert.Equal(t, "jane@example.com", s.Email)
	require.NotNil(t, s.CreatedAt)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestAddDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	ss := NewSubscriberService(db)

	_, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	s, err := ss.Add(context.Background(), "Jane D.", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, leadmagnet.ExistingSubscriberID, s.ID)
	assert.Equal(t, "Jane D.", s.FullName)
	assert.Nil(t, s.CreatedAt)

	var n int
	require.NoError(t, db.conn().QueryRow("SELECT COUNT(*) FROM subscribers").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Open())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestAddWithoutOpenDatabase(t *testing.T) {
	ss := NewSubscriberService(NewDB(filepath.Join(t.TempDir(), "leads.db")))

	_, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.Error(t, err)
	assert.Equal(t, leadmagnet.ErrUnavailable, leadmagnet.ErrorCode(err))
}

func TestOpenRetriesAfterFailedMigration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")

	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Exec(`CREATE VIEW migrations AS SELECT 1 AS x`)
	require.NoError(t, err)

	db := NewDB(path)
	t.Cleanup(func() {
		_ = db.Close()
	})
	ss := NewSubscriberService(db)

	require.Error(t, db.Open())
	assert.Error(t, db.Ping(context.Background()))
	require.Error(t, db.Open(), "a failed open must not leave a half-open handle")

	_, err = ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	assert.Equal(t, leadmagnet.ErrUnavailable, leadmagnet.ErrorCode(err))

	_, err = raw.Exec(`DROP VIEW migrations`)
	require.NoError(t, err)

	require.NoError(t, db.Open())
	assert.NoError(t, db.Ping(context.Background()))

	s, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.False(t, s.Existing())
}
