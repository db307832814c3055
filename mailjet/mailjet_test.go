package mailjet

import (
	"testing"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantonganh/leadmagnet"
)

func TestNewMailer(t *testing.T) {
	_, err := NewMailer("", "private", "books@example.com")
	assert.Equal(t, leadmagnet.ErrInvalid, leadmagnet.ErrorCode(err))

	_, err = NewMailer("public", "private", "")
	assert.Equal(t, leadmagnet.ErrInvalid, leadmagnet.ErrorCode(err))

	m, err := NewMailer("public", "private", "books@example.com")
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewMessages(t *testing.T) {
	msgs := newMessages(&leadmagnet.Message{
		To:      "jane@example.com",
		Subject: "Your Free E-Book Download!",
		HTML:    "<p>hi</p>",
		Tag:     "ebook-delivery",
	}, "books@example.com")

	require.Len(t, msgs.Info, 1)
	info := msgs.Info[0]
	assert.Equal(t, "books@example.com", info.From.Email)
	require.Len(t, *info.To, 1)
	assert.Equal(t, "jane@example.com", (*info.To)[0].Email)
	assert.Equal(t, "<p>hi</p>", info.HTMLPart)
	assert.Equal(t, "ebook-delivery", info.CustomID)
}

func TestReceipt(t *testing.T) {
	assert.Equal(t, "", receipt(nil).ID)

	res := &mailjet.ResultsV31{
		ResultsV31: []mailjet.ResultV31{{
			Status: "success",
			To:     []mailjet.GeneratedMessageV31{{Email: "jane@example.com", MessageUUID: "1ab23cd4"}},
		}},
	}
	assert.Equal(t, "1ab23cd4", receipt(res).ID)
}
