package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantonganh/leadmagnet"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db := NewDB(filepath.Join(t.TempDir(), "leads.bolt"))
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestAdd(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	ss := &subscriberService{db: db, now: func() time.Time { return now }}

	s, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Jane Doe", s.FullName)
	require.NotNil(t, s.CreatedAt)
	assert.True(t, now.Equal(*s.CreatedAt))

	var stored leadmagnet.Subscriber
	require.NoError(t, db.conn().One("Email", "jane@example.com", &stored))
	assert.Equal(t, s.ID, stored.ID)
}

func TestAddDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	ss := NewSubscriberService(db)

	first, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	s, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.True(t, s.Existing())

	var all []leadmagnet.Subscriber
	require.NoError(t, db.conn().All(&all))
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestAddCanceledContext(t *testing.T) {
	ss := NewSubscriberService(openTestDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ss.Add(ctx, "Jane Doe", "jane@example.com")
	require.Error(t, err)
	assert.Equal(t, leadmagnet.ErrUnavailable, leadmagnet.ErrorCode(err))
}

func TestPing(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))

	assert.Error(t, NewDB("").Open())
	assert.Error(t, NewDB("unused").Ping(context.Background()))
}
