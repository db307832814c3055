package leadmagnet

import (
	"context"
	"time"
)

// ExistingSubscriberID is the placeholder id returned when the email is already subscribed.
// The real id is not read back after a uniqueness conflict.
const ExistingSubscriberID = "existing"

// SubscriberService is the interface that wraps methods related to storing subscribers
type SubscriberService interface {
	// Add inserts a new subscriber. A uniqueness conflict on email is not an error:
	// it returns a subscriber carrying ExistingSubscriberID.
	Add(ctx context.Context, fullName, email string) (*Subscriber, error)
}

// Subscriber represents one lead-capture event
type Subscriber struct {
	ID        string     `json:"id,omitempty" storm:"id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email" storm:"unique"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// NewSubscriber returns a subscriber that has not been persisted yet
func NewSubscriber(fullName, email string) *Subscriber {
	return &Subscriber{
		FullName: fullName,
		Email:    email,
	}
}

// ExistingSubscriber returns the synthetic subscriber used for an email that is already stored
func ExistingSubscriber(fullName, email string) *Subscriber {
	return &Subscriber{
		ID:       ExistingSubscriberID,
		FullName: fullName,
		Email:    email,
	}
}

// Existing reports whether s stands for a subscriber that was stored earlier
func (s *Subscriber) Existing() bool {
	return s != nil && s.ID == ExistingSubscriberID
}
