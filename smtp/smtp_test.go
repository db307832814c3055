package smtp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/quantonganh/leadmagnet"
)

var testConfig = Config{
	Host: "smtp.example.com",
	Port: 587,
	From: "books@example.com",
}

func TestNewMailer(t *testing.T) {
	_, err := NewMailer(Config{From: "books@example.com"})
	assert.Equal(t, leadmagnet.ErrInvalid, leadmagnet.ErrorCode(err))

	_, err = NewMailer(Config{Host: "smtp.example.com", Port: 587})
	assert.Equal(t, leadmagnet.ErrInvalid, leadmagnet.ErrorCode(err))

	m, err := NewMailer(testConfig)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewMessage(t *testing.T) {
	msg, id := newMessage(&leadmagnet.Message{
		To:      "jane@example.com",
		Subject: "Your Free E-Book Download!",
		HTML:    "<p>hi</p>",
		Tag:     "ebook-delivery",
	}, "books@example.com", "smtp.example.com")

	assert.NotEmpty(t, id)
	assert.Equal(t, []string{"books@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your Free E-Book Download!"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"<" + id + "@example.com>"}, msg.GetHeader("Message-ID"))
	assert.Equal(t, []string{"ebook-delivery"}, msg.GetHeader("X-Tag"))
}

func TestSend(t *testing.T) {
	var sent []*gomail.Message
	sm := &mailer{
		config: testConfig,
		send: func(m ...*gomail.Message) error {
			sent = append(sent, m...)
			return nil
		},
	}

	r, err := sm.Send(context.Background(), &leadmagnet.Message{To: "jane@example.com", Subject: "s", HTML: "<p>b</p>"})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	require.Len(t, sent, 1)
}

func TestSendFailure(t *testing.T) {
	sm := &mailer{
		config: testConfig,
		send: func(m ...*gomail.Message) error {
			return errors.New("535 authentication failed")
		},
	}

	_, err := sm.Send(context.Background(), &leadmagnet.Message{To: "jane@example.com"})
	require.Error(t, err)
	assert.Equal(t, leadmagnet.ErrInternal, leadmagnet.ErrorCode(err))
	assert.Contains(t, err.Error(), "535 authentication failed")
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	sm := &mailer{
		config: testConfig,
		send: func(m ...*gomail.Message) error {
			<-release
			return nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sm.Send(ctx, &leadmagnet.Message{To: "jane@example.com"})
	require.Error(t, err)
	assert.Equal(t, leadmagnet.ErrUnavailable, leadmagnet.ErrorCode(err))
}
