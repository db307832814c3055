// Package subscribe implements the lead-capture submission flow.
//
// A submission is validated, stored, announced to the owner and delivered to
// the subscriber, in that order. Every external step runs in its own failure
// boundary: a failing store or mailer is recorded on the result and the flow
// moves on, so the subscriber always gets the download link back.
package subscribe

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/quantonganh/leadmagnet"
	"github.com/quantonganh/leadmagnet/pkg/hash"
)

// Service is the default leadmagnet.SubmissionService
type Service struct {
	subscribers   leadmagnet.SubscriberService
	notifications leadmagnet.NotificationService

	resourceURL  string
	storeTimeout time.Duration
	mailTimeout  time.Duration
	hmacSecret   string
}

// NewService returns a submission service. Timeouts and the resource URL come from cfg.
func NewService(subscribers leadmagnet.SubscriberService, notifications leadmagnet.NotificationService, cfg *leadmagnet.Config) *Service {
	s := &Service{
		subscribers:   subscribers,
		notifications: notifications,
		resourceURL:   cfg.ResourceURL(),
		storeTimeout:  cfg.StoreTimeout(),
		mailTimeout:   cfg.MailTimeout(),
	}
	if cfg != nil {
		s.hmacSecret = cfg.Log.HMACSecret
	}
	return s
}

// Submit runs one submission to completion
func (s *Service) Submit(ctx context.Context, fullName, email string) (*leadmagnet.SubmissionResult, error) {
	result := &leadmagnet.SubmissionResult{DownloadURL: s.resourceURL}
	result.Transition(leadmagnet.StateReceived)

	logger := zerolog.Ctx(ctx).With().Str(s.redact(email)).Logger()

	if ve := leadmagnet.Validate(fullName, email); ve != nil {
		logger.Info().Interface("fields", ve).Msg("Rejecting invalid submission")
		result.Transition(leadmagnet.StateResponded)
		return result, &leadmagnet.Error{
			Code:    leadmagnet.ErrInvalid,
			Message: ve.Message(),
			Op:      "subscribe.Submit",
			Err:     ve,
		}
	}
	result.Transition(leadmagnet.StateValidated)

	logger.Info().Msg("Adding subscriber")
	subscriber, err := s.addSubscriber(ctx, fullName, email)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to add subscriber, continuing to email step")
		capture(ctx, err)
		result.StoreErr = err
		result.Transition(leadmagnet.StateStoreFailed)
	} else {
		logger.Info().Str("subscriber_id", subscriber.ID).Bool("existing", subscriber.Existing()).Msg("Subscriber stored")
		result.Subscriber = subscriber
		result.Transition(leadmagnet.StateStorePersisted)
	}

	result.Owner = s.notify(ctx, "notify_owner", func(ctx context.Context) (*leadmagnet.Delivery, error) {
		return s.notifications.NotifyOwner(ctx, fullName, email)
	})
	logDelivery(logger, "Owner notification", result.Owner)

	result.User = s.notify(ctx, "deliver_to_user", func(ctx context.Context) (*leadmagnet.Delivery, error) {
		return s.notifications.DeliverToUser(ctx, fullName, email, s.resourceURL)
	})
	logDelivery(logger, "User email", result.User)

	switch {
	case result.Owner.Sent && result.User.Sent:
		result.Transition(leadmagnet.StateNotified)
	case result.Owner.Sent || result.User.Sent:
		result.Transition(leadmagnet.StatePartiallyNotified)
	default:
		result.Transition(leadmagnet.StateNotNotified)
	}

	result.Success = true
	result.EmailSent = result.User.Sent
	result.FreeTierLimitation = result.User.FreeTierLimitation
	result.EmailDetails = result.User.Detail
	result.Transition(leadmagnet.StateResponded)

	logger.Info().
		Str("state", result.Trace[len(result.Trace)-2].String()).
		Bool("email_sent", result.EmailSent).
		Msg("Submission completed")

	return result, nil
}

func (s *Service) addSubscriber(ctx context.Context, fullName, email string) (subscriber *leadmagnet.Subscriber, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	defer recoverStep("add_subscriber", &err)

	subscriber, err = s.subscribers.Add(ctx, fullName, email)
	if err == nil && subscriber == nil {
		subscriber = leadmagnet.NewSubscriber(fullName, email)
	}
	return subscriber, err
}

// notify runs one notification and always returns a non-nil outcome.
func (s *Service) notify(ctx context.Context, op string, fn func(context.Context) (*leadmagnet.Delivery, error)) (d *leadmagnet.Delivery) {
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()

	var err error
	defer func() {
		if err != nil {
			capture(ctx, err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = panicError(op, r)
			d = leadmagnet.FailedDelivery(err)
		}
	}()

	d, err = fn(ctx)
	switch {
	case err != nil && (d == nil || d.Sent):
		d = leadmagnet.FailedDelivery(err)
	case err == nil && d == nil:
		d = &leadmagnet.Delivery{Sent: true}
	}
	return d
}

// redact returns the log field for an email, pseudonymised when a secret is configured.
func (s *Service) redact(email string) (string, string) {
	if s.hmacSecret == "" {
		return "email", email
	}
	h, err := hash.Email(email, s.hmacSecret)
	if err != nil {
		return "email_hash", ""
	}
	return "email_hash", h
}

func recoverStep(op string, err *error) {
	if r := recover(); r != nil {
		*err = panicError(op, r)
	}
}

func panicError(op string, r interface{}) error {
	return &leadmagnet.Error{
		Code: leadmagnet.ErrInternal,
		Op:   "subscribe." + op,
		Err:  fmt.Errorf("panic: %v", r),
	}
}

func logDelivery(logger zerolog.Logger, what string, d *leadmagnet.Delivery) {
	if d.Sent {
		logger.Info().Str("message_id", d.MessageID).Msg(what + " sent")
		return
	}
	logger.Warn().
		Str("detail", d.Detail).
		Bool("free_tier_limitation", d.FreeTierLimitation).
		Msg(what + " failed")
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
