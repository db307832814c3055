// Package resend sends email through the Resend transactional API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/quantonganh/leadmagnet"
)

// sandboxMessage is returned by Resend while the sending domain is unverified.
const sandboxMessage = "only send testing emails to your own email address"

type mailer struct {
	client *resend.Client
	from   string
}

// NewMailer returns a Mailer using apiKey. from is used when a message has no sender.
func NewMailer(apiKey, from string, httpClient *http.Client) (leadmagnet.Mailer, error) {
	if apiKey == "" {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "Email configuration missing")
	}
	if from == "" {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "resend: sender address is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &mailer{
		client: resend.NewCustomClient(httpClient, apiKey),
		from:   from,
	}, nil
}

// Send sends m and returns the Resend email id
func (rm *mailer) Send(ctx context.Context, m *leadmagnet.Message) (*leadmagnet.Receipt, error) {
	from := m.From
	if from == "" {
		from = rm.from
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.HTML,
	}
	if m.Tag != "" {
		req.Tags = []resend.Tag{{Name: "category", Value: m.Tag}}
	}

	sent, err := rm.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, &leadmagnet.Error{Code: errorCode(err), Op: "resend.Send", Err: fmt.Errorf("failed to send mail to %s: %w", m.To, err)}
	}

	return &leadmagnet.Receipt{ID: sent.Id}, nil
}

func errorCode(err error) string {
	switch {
	case strings.Contains(err.Error(), sandboxMessage):
		return leadmagnet.ErrRestricted
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return leadmagnet.ErrUnavailable
	default:
		return leadmagnet.ErrInternal
	}
}
