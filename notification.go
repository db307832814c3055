package leadmagnet

import "context"

// Message is one outbound email
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Tag     string
}

// Receipt is what a provider returns for an accepted message
type Receipt struct {
	ID string
}

// Mailer sends a single email through a transactional provider
type Mailer interface {
	Send(ctx context.Context, m *Message) (*Receipt, error)
}

// NotificationService is the interface that wraps the two emails sent per submission
type NotificationService interface {
	NotifyOwner(ctx context.Context, fullName, email string) (*Delivery, error)
	DeliverToUser(ctx context.Context, fullName, email, resourceURL string) (*Delivery, error)
}

// Delivery is the outcome of one notification attempt
type Delivery struct {
	Sent      bool
	MessageID string
	Detail    string

	// FreeTierLimitation is set when the provider account may only mail its owner.
	FreeTierLimitation bool
}

// FailedDelivery builds the outcome of a failed attempt from its error
func FailedDelivery(err error) *Delivery {
	d := &Delivery{
		FreeTierLimitation: ErrorCode(err) == ErrRestricted,
	}
	if err != nil {
		d.Detail = err.Error()
	}
	return d
}
