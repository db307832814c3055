package smtp

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"gopkg.in/gomail.v2"

	"github.com/quantonganh/leadmagnet"
)

// Config holds the SMTP relay settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailer struct {
	config Config
	dialer *gomail.Dialer
	send   func(m ...*gomail.Message) error
}

// NewMailer returns a Mailer that delivers directly through an SMTP relay
func NewMailer(cfg Config) (leadmagnet.Mailer, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "Email configuration missing")
	}
	if cfg.From == "" {
		return nil, leadmagnet.Errorf(leadmagnet.ErrInvalid, "smtp: sender address is required")
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &mailer{
		config: cfg,
		dialer: d,
		send:   d.DialAndSend,
	}, nil
}

// Send delivers m. gomail takes no context, so ctx only bounds how long we wait.
func (sm *mailer) Send(ctx context.Context, m *leadmagnet.Message) (*leadmagnet.Receipt, error) {
	msg, id := newMessage(m, sm.config.From, sm.config.Host)

	done := make(chan error, 1)
	go func() {
		done <- sm.send(msg)
	}()

	select {
	case <-ctx.Done():
		return nil, &leadmagnet.Error{Code: leadmagnet.ErrUnavailable, Op: "smtp.Send", Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			return nil, &leadmagnet.Error{Code: leadmagnet.ErrInternal, Op: "smtp.Send", Err: errors.Errorf("failed to send mail to %s: %v", m.To, err)}
		}
	}

	return &leadmagnet.Receipt{ID: id}, nil
}

func newMessage(m *leadmagnet.Message, defaultFrom, host string) (*gomail.Message, string) {
	from := m.From
	if from == "" {
		from = defaultFrom
	}

	domain := host
	if i := strings.LastIndex(from, "@"); i >= 0 {
		domain = from[i+1:]
	}
	id := uuid.NewV4().String()

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", id, domain))
	if m.Tag != "" {
		msg.SetHeader("X-Tag", m.Tag)
	}
	msg.SetBody("text/html", m.HTML)

	return msg, id
}
