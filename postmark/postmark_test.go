package postmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantonganh/leadmagnet"
)

func TestNewMailer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		serverToken string
		from        string
		wantErr     bool
	}{
		{name: "valid", serverToken: "server-token", from: "books@example.com"},
		{name: "missing server token", from: "books@example.com", wantErr: true},
		{name: "missing sender", serverToken: "server-token", wantErr: true},
		{name: "invalid sender", serverToken: "server-token", from: "books", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewMailer(tt.serverToken, "account-token", tt.from)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, m)
				assert.Equal(t, leadmagnet.ErrInvalid, leadmagnet.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, leadmagnet.ErrRestricted, errorCode(412))
	assert.Equal(t, leadmagnet.ErrInternal, errorCode(300))
	assert.Equal(t, leadmagnet.ErrInternal, errorCode(0))
}
