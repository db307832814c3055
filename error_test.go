package leadmagnet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ErrInternal, ErrorCode(errors.New("boom")))
	assert.Equal(t, ErrInvalid, ErrorCode(&Error{Code: ErrInvalid}))

	wrapped := fmt.Errorf("sending: %w", &Error{Op: "resend.Send", Err: &Error{Code: ErrRestricted}})
	assert.Equal(t, ErrRestricted, ErrorCode(wrapped))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "An internal error has occurred.", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "Invalid email format", ErrorMessage(&Error{Code: ErrInvalid, Message: "Invalid email format"}))
}

func TestErrorString(t *testing.T) {
	err := &Error{Op: "postgres.Add", Err: errors.New("connection refused")}
	assert.Equal(t, "postgres.Add: connection refused", err.Error())
	assert.True(t, errors.Is(err, err.Err))

	err = Errorf(ErrInvalid, "Email configuration missing")
	assert.Equal(t, "<invalid> Email configuration missing", err.Error())
}
