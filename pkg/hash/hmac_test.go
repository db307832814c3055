package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHmac256(t *testing.T) {
	// RFC 4231 test case 2
	sum, err := ComputeHmac256("what do ya want for nothing?", "Jefe")
	require.NoError(t, err)
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", sum)

	_, err = ComputeHmac256("message", "")
	assert.Error(t, err)
}

func TestEmail(t *testing.T) {
	a, err := Email("jane@example.com", "secret")
	require.NoError(t, err)
	assert.Len(t, a, 16)

	b, err := Email("  Jane@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Email("john@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	d, err := Email("jane@example.com", "other")
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}
