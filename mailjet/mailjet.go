/*
Package mailjet sends email through the Mailjet v3.1 Send API.
*/
package mailjet

import (
	"context"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/pkg/errors"

	"github.com/quantonganh/leadmagnet"
)

type mailer struct {
	client *mailjet.Client
	from   string
}

// NewMailer returns a Mailer authenticated with the given key pair.
func NewMailer(publicKey, privateKey, from string) (leadmagnet.Mailer, error) {
	if publicKey == "" || privateKey == "" {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "Email configuration missing")
	}
	if from == "" {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "mailjet: sender address is required")
	}

	return &mailer{
		client: mailjet.NewMailjetClient(publicKey, privateKey),
		from:   from,
	}, nil
}

type sendResult struct {
	res *mailjet.ResultsV31
	err error
}

// Send sends m. The Mailjet client takes no context, so ctx only bounds how long we wait.
func (mm *mailer) Send(ctx context.Context, m *leadmagnet.Message) (*leadmagnet.Receipt, error) {
	msgs := newMessages(m, mm.from)

	done := make(chan sendResult, 1)
	go func() {
		res, err := mm.client.SendMailV31(msgs)
		done <- sendResult{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrUnavailable, Op: "mailjet.Send", Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			return nil, &leadmagnet.Error{Code: leadmagnet.ErrInternal, Op: "mailjet.Send", Err: errors.Wrapf(r.err, "failed to send mail to %s", m.To)}
		}
		return receipt(r.res), nil
	}
}

func newMessages(m *leadmagnet.Message, defaultFrom string) *mailjet.MessagesV31 {
	from := m.From
	if from == "" {
		from = defaultFrom
	}

	return &mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{{
			From:     &mailjet.RecipientV31{Email: from},
			To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: m.To}},
			Subject:  m.Subject,
			HTMLPart: m.HTML,
			CustomID: m.Tag,
		}},
	}
}

func receipt(res *mailjet.ResultsV31) *leadmagnet.Receipt {
	r := &leadmagnet.Receipt{}
	if res == nil {
		return r
	}
	for _, msg := range res.ResultsV31 {
		for _, to := range msg.To {
			r.ID = to.MessageUUID
			return r
		}
	}
	return r
}
