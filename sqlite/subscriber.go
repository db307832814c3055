package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"

	"github.com/quantonganh/leadmagnet"
)

type subscriberService struct {
	db *DB
}

// NewSubscriberService returns a subscriber store backed by SQLite
func NewSubscriberService(db *DB) leadmagnet.SubscriberService {
	return &subscriberService{
		db: db,
	}
}

// Add inserts a new subscriber
func (ss *subscriberService) Add(ctx context.Context, fullName, email string) (*leadmagnet.Subscriber, error) {
	const op = "sqlite.Add"

	sqlDB := ss.db.conn()
	if sqlDB == nil {
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrUnavailable, Op: op, Err: errors.New("database is not open")}
	}

	s := leadmagnet.NewSubscriber(fullName, email)
	s.ID = uuid.NewV4().String()

	var createdAt string
	err := sqlDB.QueryRowContext(ctx,
		"INSERT INTO subscribers (id, full_name, email) VALUES (?, ?, ?) RETURNING created_at",
		s.ID, s.FullName, s.Email).Scan(&createdAt)
	if err != nil {
		if isEmailConflict(err) {
			zerolog.Ctx(ctx).Info().Msg("Subscriber already exists, treating as success")
			return leadmagnet.ExistingSubscriber(fullName, email), nil
		}
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrInternal, Op: op, Err: fmt.Errorf("failed to insert: %w", err)}
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrInternal, Op: op, Err: fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)}
	}
	s.CreatedAt = &t

	return s, nil
}

func isEmailConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(sqliteErr.Error(), "subscribers.email")
}
