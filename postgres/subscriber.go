package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/quantonganh/leadmagnet"
)

const (
	// DefaultEmailConstraint is the unique constraint created by the bundled migration.
	DefaultEmailConstraint = "subscribers_email_key"

	uniqueViolation = "23505"
)

type subscriberService struct {
	db              *DB
	emailConstraint string
}

// NewSubscriberService returns a subscriber store backed by the subscribers table.
// Only conflicts on emailConstraint count as an existing subscriber.
func NewSubscriberService(db *DB, emailConstraint string) leadmagnet.SubscriberService {
	if emailConstraint == "" {
		emailConstraint = DefaultEmailConstraint
	}
	return &subscriberService{
		db:              db,
		emailConstraint: emailConstraint,
	}
}

// Add inserts a new subscriber
func (ss *subscriberService) Add(ctx context.Context, fullName, email string) (*leadmagnet.Subscriber, error) {
	const op = "postgres.Add"

	pool := ss.db.conn()
	if pool == nil {
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrUnavailable, Op: op, Err: errors.New("database is not open")}
	}

	var (
		s         leadmagnet.Subscriber
		createdAt time.Time
	)
	err := pool.QueryRow(ctx, `
		INSERT INTO subscribers (full_name, email)
		VALUES ($1, $2)
		RETURNING id::text, full_name, email, created_at
	`, fullName, email).Scan(&s.ID, &s.FullName, &s.Email, &createdAt)
	if err != nil {
		if isEmailConflict(err, ss.emailConstraint) {
			zerolog.Ctx(ctx).Info().Msg("Subscriber already exists, treating as success")
			return leadmagnet.ExistingSubscriber(fullName, email), nil
		}
		return nil, &leadmagnet.Error{Code: errorCode(err), Op: op, Err: fmt.Errorf("failed to insert: %w", err)}
	}
	s.CreatedAt = &createdAt

	return &s, nil
}

func isEmailConflict(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

// errorCode separates rejected writes from an unreachable backend.
func errorCode(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return leadmagnet.ErrUnavailable
	}
	if pgErr.Code == uniqueViolation {
		return leadmagnet.ErrConflict
	}
	return leadmagnet.ErrInternal
}
