package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantonganh/leadmagnet"
)

func TestIsEmailConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "email constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: DefaultEmailConstraint},
			want: true,
		},
		{
			name: "wrapped email constraint",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: DefaultEmailConstraint}),
			want: true,
		},
		{
			name: "other unique constraint",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "subscribers_pkey"},
			want: false,
		},
		{
			name: "not null violation",
			err:  &pgconn.PgError{Code: "23502", ConstraintName: DefaultEmailConstraint},
			want: false,
		},
		{
			name: "not a postgres error",
			err:  errors.New("dial tcp: connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEmailConflict(tt.err, DefaultEmailConstraint))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, leadmagnet.ErrConflict, errorCode(&pgconn.PgError{Code: "23505", ConstraintName: "subscribers_pkey"}))
	assert.Equal(t, leadmagnet.ErrInternal, errorCode(&pgconn.PgError{Code: "42P01"}))
	assert.Equal(t, leadmagnet.ErrUnavailable, errorCode(context.DeadlineExceeded))
	assert.Equal(t, leadmagnet.ErrUnavailable, errorCode(errors.New("dial tcp: connection refused")))
}

func TestAddWithoutOpenDatabase(t *testing.T) {
	ss := NewSubscriberService(NewDB("postgres://localhost/leads"), "")

	s, err := ss.Add(context.Background(), "Jane Doe", "jane@example.com")
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Equal(t, leadmagnet.ErrUnavailable, leadmagnet.ErrorCode(err))
}

func TestOpenRequiresURL(t *testing.T) {
	db := NewDB("")
	assert.EqualError(t, db.Open(), "url required")
	assert.Error(t, db.Ping(context.Background()))
	assert.NoError(t, db.Close())
}

// TestAddIntegration runs against a real database when DATABASE_URL is set.
func TestAddIntegration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}

	db := NewDB(url)
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		_ = db.Close()
	})
	require.NoError(t, db.Ping(context.Background()))

	ss := NewSubscriberService(db, "")
	email := fmt.Sprintf("jane+%d@example.com", os.Getpid())
	t.Cleanup(func() {
		_, _ = db.conn().Exec(context.Background(), `DELETE FROM subscribers WHERE email = $1`, email)
	})

	s, err := ss.Add(context.Background(), "Jane Doe", email)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Existing())
	assert.NotNil(t, s.CreatedAt)

	dup, err := ss.Add(context.Background(), "Jane D.", email)
	require.NoError(t, err)
	assert.Equal(t, leadmagnet.ExistingSubscriberID, dup.ID)
	assert.Equal(t, "Jane D.", dup.FullName)
}
