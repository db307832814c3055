// Package postmark sends email through Postmark's transactional API.
package postmark

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/quantonganh/leadmagnet"
)

// pendingApproval is Postmark's error code for accounts that may only
// mail addresses on the sender's own domain.
const pendingApproval = 412

type mailer struct {
	client *postmark.Client
	from   string
}

// NewMailer returns a Mailer using the given Postmark tokens.
func NewMailer(serverToken, accountToken, from string) (leadmagnet.Mailer, error) {
	if serverToken == "" {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "Email configuration missing")
	}
	if from == "" || !leadmagnet.ValidEmail(from) {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "postmark: a valid sender address is required")
	}

	return &mailer{
		client: postmark.NewClient(serverToken, accountToken),
		from:   from,
	}, nil
}

// Send sends m and returns the Postmark message id
func (pm *mailer) Send(ctx context.Context, m *leadmagnet.Message) (*leadmagnet.Receipt, error) {
	from := m.From
	if from == "" {
		from = pm.from
	}

	resp, err := pm.client.SendEmail(ctx, postmark.Email{
		From:       from,
		To:         m.To,
		Subject:    m.Subject,
		Tag:        m.Tag,
		HTMLBody:   m.HTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return nil, &leadmagnet.Error{Code: errorCode(int64(resp.ErrorCode)), Op: "postmark.Send", Err: fmt.Errorf("failed to send mail to %s: %w", m.To, err)}
	}
	if resp.ErrorCode > 0 {
		return nil, &leadmagnet.Error{
			Code: errorCode(int64(resp.ErrorCode)),
			Op:   "postmark.Send",
			Err:  fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		}
	}

	return &leadmagnet.Receipt{ID: resp.MessageID}, nil
}

func errorCode(code int64) string {
	if code == pendingApproval {
		return leadmagnet.ErrRestricted
	}
	return leadmagnet.ErrInternal
}
