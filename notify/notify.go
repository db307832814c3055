// Package notify renders and sends the two emails that follow a submission:
// an alert to the site owner and the e-book link to the subscriber.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/matcornic/hermes/v2"
	"github.com/pkg/errors"

	"github.com/quantonganh/leadmagnet"
)

const (
	ownerTag = "owner-alert"
	userTag  = "ebook-delivery"

	userSubject   = "Your Free E-Book Download!"
	buttonColor   = "#4F46E5"
	timeLayout    = "Jan 2, 2006 at 3:04 PM MST"
	defaultFooter = "This is an automated message. Please do not reply to this email."
)

// Config holds the addresses and branding used in the emails
type Config struct {
	From        string
	OwnerEmail  string
	ProductName string
	ProductLink string
}

type notificationService struct {
	config Config
	mailer leadmagnet.Mailer
	h      hermes.Hermes
	now    func() time.Time
}

// NewNotificationService returns a NotificationService sending through mailer.
// A nil mailer is allowed: every send then fails with "Email configuration missing".
func NewNotificationService(cfg Config, mailer leadmagnet.Mailer) leadmagnet.NotificationService {
	return &notificationService{
		config: cfg,
		mailer: mailer,
		h: hermes.Hermes{
			Product: hermes.Product{
				Name:      cfg.ProductName,
				Link:      cfg.ProductLink,
				Copyright: " ",
			},
		},
		now: time.Now,
	}
}

// NotifyOwner tells the site owner that someone downloaded the e-book
func (ns *notificationService) NotifyOwner(ctx context.Context, fullName, email string) (*leadmagnet.Delivery, error) {
	if ns.config.OwnerEmail == "" {
		err := leadmagnet.Errorf(leadmagnet.ErrInvalid, "owner email address is not configured")
		return leadmagnet.FailedDelivery(err), err
	}

	body, err := ns.h.GenerateHTML(hermes.Email{
		Body: hermes.Body{
			Title:  "New E-book Download!",
			Intros: []string{"Someone has just downloaded your e-book:"},
			Dictionary: []hermes.Entry{
				{Key: "Name", Value: fullName},
				{Key: "Email", Value: email},
				{Key: "Time", Value: ns.now().Format(timeLayout)},
			},
			Outros:    []string{"This user has been added to your subscribers list."},
			Signature: " ",
		},
	})
	if err != nil {
		err = errors.Errorf("failed to generate HTML email: %v", err)
		return leadmagnet.FailedDelivery(err), err
	}

	return ns.send(ctx, &leadmagnet.Message{
		From:    ns.config.From,
		To:      ns.config.OwnerEmail,
		Subject: fmt.Sprintf("%s has downloaded your PDF!", fullName),
		HTML:    body,
		Tag:     ownerTag,
	})
}

// DeliverToUser sends the download link to the subscriber
func (ns *notificationService) DeliverToUser(ctx context.Context, fullName, email, resourceURL string) (*leadmagnet.Delivery, error) {
	body, err := ns.h.GenerateHTML(hermes.Email{
		Body: hermes.Body{
			Title:  fmt.Sprintf("Thank You, %s!", fullName),
			Intros: []string{"Thank you for your interest in our e-book. Your download is ready!"},
			Actions: []hermes.Action{
				{
					Button: hermes.Button{
						Color: buttonColor,
						Text:  "Download Your E-Book",
						Link:  resourceURL,
					},
				},
			},
			Outros: []string{
				"If the button above doesn't work, you can copy and paste this link into your browser:",
				resourceURL,
				defaultFooter,
			},
			Signature: " ",
		},
	})
	if err != nil {
		err = errors.Errorf("failed to generate HTML email: %v", err)
		return leadmagnet.FailedDelivery(err), err
	}

	return ns.send(ctx, &leadmagnet.Message{
		From:    ns.config.From,
		To:      email,
		Subject: userSubject,
		HTML:    body,
		Tag:     userTag,
	})
}

func (ns *notificationService) send(ctx context.Context, m *leadmagnet.Message) (*leadmagnet.Delivery, error) {
	if ns.mailer == nil {
		err := leadmagnet.Errorf(leadmagnet.ErrInvalid, "Email configuration missing")
		return leadmagnet.FailedDelivery(err), err
	}

	r, err := ns.mailer.Send(ctx, m)
	if err != nil {
		return leadmagnet.FailedDelivery(err), err
	}

	d := &leadmagnet.Delivery{Sent: true}
	if r != nil {
		d.MessageID = r.ID
	}
	return d, nil
}
