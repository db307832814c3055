package bolt

import (
	"context"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"

	"github.com/quantonganh/leadmagnet"
)

type subscriberService struct {
	db  *DB
	now func() time.Time
}

// NewSubscriberService returns a subscriber store backed by storm
func NewSubscriberService(db *DB) leadmagnet.SubscriberService {
	return &subscriberService{
		db:  db,
		now: time.Now,
	}
}

// Add inserts a new subscriber into stormDB
func (ss *subscriberService) Add(ctx context.Context, fullName, email string) (*leadmagnet.Subscriber, error) {
	const op = "bolt.Add"

	stormDB := ss.db.conn()
	if stormDB == nil {
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrUnavailable, Op: op, Err: errors.New("database is not open")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrUnavailable, Op: op, Err: err}
	}

	createdAt := ss.now().UTC()
	s := leadmagnet.NewSubscriber(fullName, email)
	s.ID = uuid.NewV4().String()
	s.CreatedAt = &createdAt

	if err := stormDB.Save(s); err != nil {
		if errors.Is(err, storm.ErrAlreadyExists) {
			zerolog.Ctx(ctx).Info().Msg("Subscriber already exists, treating as success")
			return leadmagnet.ExistingSubscriber(fullName, email), nil
		}
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrInternal, Op: op, Err: errors.Errorf("failed to save: %v", err)}
	}

	return s, nil
}
